// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package astro

import (
	"math"
	"strings"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// SkyCoord is an equatorial position.
type SkyCoord struct {
	RA  Angle
	Dec Angle
}

// ParseSkyCoord reads the first two whitespace separated tokens of text as
// right ascension and declination. Bare numbers are degrees. RA wraps into
// [0, 360); Dec must lie within [-90, 90].
func ParseSkyCoord(text string) (SkyCoord, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return SkyCoord{}, aqserr.Errorf(aqserr.CodeAstroUnitInvalidFormat,
			"sky coordinates %q: expected two components", text)
	}

	ra, err := ParseAngleDefault(fields[0], Degree)
	if err != nil {
		return SkyCoord{}, err
	}
	dec, err := ParseAngleDefault(fields[1], Degree)
	if err != nil {
		return SkyCoord{}, err
	}

	if ra.Degrees < 0 || ra.Degrees >= 360 {
		ra.Degrees = math.Mod(ra.Degrees, 360)
		if ra.Degrees < 0 {
			ra.Degrees += 360
		}
	}
	if dec.Degrees < -90 || dec.Degrees > 90 {
		return SkyCoord{}, aqserr.Errorf(aqserr.CodeAstroUnitInvalidFormat,
			"sky coordinates %q: declination must be within -90 and 90 deg", text)
	}

	return SkyCoord{RA: ra, Dec: dec}, nil
}

// NormalizeSkyCoord renders coordinates as "<dec> <ra> unit=deg".
func NormalizeSkyCoord(text string) (string, error) {
	c, err := ParseSkyCoord(text)
	if err != nil {
		return "", err
	}
	return FormatFloat(c.Dec.Degrees) + " " + FormatFloat(c.RA.Degrees) + " unit=deg", nil
}
