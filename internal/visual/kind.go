// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package visual

// NodeKind classifies a node by the local name of its rdf:type.
type NodeKind int

const (
	// KindUnknown marks nodes without an indexed type. They keep the plain
	// table layout.
	KindUnknown NodeKind = iota
	// KindOther is a typed node with no dedicated style.
	KindOther
	KindAction
	KindCommandInput
	KindCommandOutput
	KindCommandOutputImage
	KindCommandOutputFitsFile
	KindCommandOutputNotebook
	KindCommandParameter
	KindAstroqueryModule
	KindAstrophysicalObject
	KindAstrophysicalRegion
	KindAngle
	KindSkyCoordinates
)

var kindNames = map[string]NodeKind{
	"Action":                KindAction,
	"CommandInput":          KindCommandInput,
	"CommandOutput":         KindCommandOutput,
	"CommandOutputImage":    KindCommandOutputImage,
	"CommandOutputFitsFile": KindCommandOutputFitsFile,
	"CommandOutputNotebook": KindCommandOutputNotebook,
	"CommandParameter":      KindCommandParameter,
	"AstroqueryModule":      KindAstroqueryModule,
	"AstrophysicalObject":   KindAstrophysicalObject,
	"AstrophysicalRegion":   KindAstrophysicalRegion,
	"Angle":                 KindAngle,
	"SkyCoordinates":        KindSkyCoordinates,
}

// ParseNodeKind maps a type local name to its kind. Names without a
// dedicated style map to KindOther.
func ParseNodeKind(name string) NodeKind {
	if k, ok := kindNames[name]; ok {
		return k
	}
	return KindOther
}

func (k NodeKind) String() string {
	for name, kind := range kindNames {
		if kind == k {
			return name
		}
	}
	if k == KindOther {
		return "Other"
	}
	return "Unknown"
}

// Style is how a node kind is drawn.
type Style struct {
	Shape string
	Color string
	// Bordered keeps the outer table border.
	Bordered bool
	// DropTitle removes the title row.
	DropTitle bool
	// TitleFromValue takes the title from the first word of defaultValue.
	TitleFromValue bool
	// BoldCommand renders the command value in bold.
	BoldCommand bool
	// Emphasize renders every value in bold italics.
	Emphasize bool
}

var styles = map[NodeKind]Style{
	KindOther:                 {Shape: "box"},
	KindAction:                {Shape: "diamond", Color: "#D5C15D", DropTitle: true, BoldCommand: true},
	KindCommandInput:          {Shape: "box", Color: "#DBA3BC", DropTitle: true, Emphasize: true},
	KindCommandOutput:         {Shape: "box", Color: "#FFFF00"},
	KindCommandOutputImage:    {Shape: "box", Color: "#FFFFFF", Bordered: true},
	KindCommandOutputFitsFile: {Shape: "box", Color: "#FFFFFF", Bordered: true},
	KindCommandOutputNotebook: {Shape: "box", Color: "#DBA3BC"},
	KindCommandParameter:      {Shape: "box", Color: "#6262be", TitleFromValue: true},
	KindAstroqueryModule:      {Shape: "ellipse", Color: "#00CC00"},
	KindAstrophysicalObject:   {Shape: "ellipse", Color: "#6262be"},
	KindAstrophysicalRegion:   {Shape: "ellipse", Color: "#6262bf"},
	KindAngle:                 {Shape: "box", Color: "#1B81FB"},
	KindSkyCoordinates:        {Shape: "box", Color: "#1B81FB"},
}

// Style returns the drawing style of k.
func (k NodeKind) Style() Style {
	return styles[k]
}
