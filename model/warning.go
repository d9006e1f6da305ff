package model

import "fmt"

// WarningKind classifies a recovered problem found while loading or
// evaluating a document.
type WarningKind uint8

const (
	// UnsupportedFeature marks constructs that are skipped: expressions,
	// camera layers, effects, unknown shape items.
	UnsupportedFeature WarningKind = iota
	// GeometryInconsistency marks data that cannot be combined exactly, such
	// as shapes with different vertex counts or malformed gradient stops.
	GeometryInconsistency
	// LookupFailure marks a reference that does not resolve: an unknown
	// layer type, a missing image or precomposition asset.
	LookupFailure
)

// String returns the kind name.
func (k WarningKind) String() string {
	switch k {
	case UnsupportedFeature:
		return "unsupported"
	case GeometryInconsistency:
		return "geometry"
	case LookupFailure:
		return "lookup"
	}
	return fmt.Sprintf("WarningKind(%d)", uint8(k))
}

// Warning is a non-fatal anomaly recorded on a composition.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Message
}
