// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package astro

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// Unit is an angular unit, expressed as its size in degrees.
type Unit float64

const (
	Degree    Unit = 1
	HourAngle Unit = 15
	Arcmin    Unit = 1.0 / 60
	Arcsec    Unit = 1.0 / 3600
	MilliArc  Unit = 1.0 / 3600000
	Radian    Unit = 180 / math.Pi
)

var unitNames = map[string]Unit{
	"deg": Degree, "degree": Degree, "degrees": Degree, "d": Degree, "°": Degree,
	"hourangle": HourAngle, "h": HourAngle, "hr": HourAngle, "hour": HourAngle, "hours": HourAngle,
	"arcmin": Arcmin, "arcminute": Arcmin, "arcminutes": Arcmin, "amin": Arcmin, "'": Arcmin, "′": Arcmin,
	"arcsec": Arcsec, "arcsecond": Arcsec, "arcseconds": Arcsec, "asec": Arcsec, `"`: Arcsec, "″": Arcsec,
	"mas": MilliArc,
	"rad": Radian, "radian": Radian, "radians": Radian,
}

// Angle is an angular quantity. It remembers the value and unit it was
// parsed with so conversions scale from the original unit.
type Angle struct {
	Degrees float64

	value float64
	unit  Unit
}

func newAngle(v float64, u Unit) Angle {
	return Angle{Degrees: v * float64(u), value: v, unit: u}
}

// In returns the angle expressed in unit u, scaled from the unit it was
// parsed with. No rounding is applied: 0.13 deg is 7.800000000000001 arcmin.
func (a Angle) In(u Unit) float64 {
	if a.unit == 0 {
		return a.Degrees / float64(u)
	}
	if a.unit == u {
		return a.value
	}
	return a.value * (float64(a.unit) / float64(u))
}

const number = `(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`

var (
	sexagesimalRe = regexp.MustCompile(`^([+-]?)(` + number + `)\s*(d|deg|°|h|hr)\s*` +
		`(?:(` + number + `)\s*(?:m|min|'|′)\s*)?` +
		`(?:(` + number + `)\s*(?:s|sec|"|″)?)?$`)
	colonRe    = regexp.MustCompile(`^([+-]?)(\d+):(\d+)(?::(` + number + `))?$`)
	quantityRe = regexp.MustCompile(`^([+-]?` + number + `)\s*([^\d\s+-.][^\s]*)?$`)
)

// ParseAngle parses an angle that carries its own unit, such as "0.5 deg",
// "30 arcmin", "1d30m" or "1h2m3s".
func ParseAngle(text string) (Angle, error) {
	return parseAngle(text, 0)
}

// ParseAngleDefault parses an angle, using def when the text has no unit.
func ParseAngleDefault(text string, def Unit) (Angle, error) {
	return parseAngle(text, def)
}

func parseAngle(text string, def Unit) (Angle, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Angle{}, invalid(text, "empty angle")
	}

	if m := sexagesimalRe.FindStringSubmatch(s); m != nil {
		unit := Degree
		if strings.HasPrefix(m[3], "h") {
			unit = HourAngle
		}
		return sexagesimal(m[1], m[2], m[4], m[5], unit)
	}

	if m := colonRe.FindStringSubmatch(s); m != nil {
		if def == 0 {
			return Angle{}, invalid(text, "no unit specified")
		}
		return sexagesimal(m[1], m[2], m[3], m[4], def)
	}

	if m := quantityRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Angle{}, invalid(text, err.Error())
		}
		unit := def
		if m[2] != "" {
			u, ok := unitNames[strings.ToLower(m[2])]
			if !ok {
				return Angle{}, invalid(text, "unknown unit "+strconv.Quote(m[2]))
			}
			unit = u
		}
		if unit == 0 {
			return Angle{}, invalid(text, "no unit specified")
		}
		return newAngle(v, unit), nil
	}

	return Angle{}, invalid(text, "unrecognized angle syntax")
}

func sexagesimal(sign, whole, minutes, seconds string, unit Unit) (Angle, error) {
	parts := []string{whole, minutes, seconds}
	total := 0.0
	for i, p := range parts {
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Angle{}, invalid(whole, err.Error())
		}
		if i > 0 && v >= 60 {
			return Angle{}, invalid(strings.Join(parts, ":"), "minutes and seconds must be below 60")
		}
		total += v / math.Pow(60, float64(i))
	}
	if sign == "-" {
		total = -total
	}
	return newAngle(total, unit), nil
}

func invalid(text, reason string) error {
	return aqserr.New(aqserr.CodeAstroUnitInvalidFormat, "cannot parse angle "+strconv.Quote(text)+": "+reason)
}

// NormalizeRadius renders an angle in arcminutes, e.g. "0.5 deg" becomes
// "30.0 unit=arcmin".
func NormalizeRadius(text string) (string, error) {
	a, err := ParseAngle(text)
	if err != nil {
		return "", err
	}
	return FormatFloat(a.In(Arcmin)) + " unit=arcmin", nil
}
