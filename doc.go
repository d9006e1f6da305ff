// Package motion interprets declarative motion-graphics documents and turns
// them, frame by frame, into vector draw calls.
//
// # Overview
//
// A document is parsed once into an immutable composition (package parse,
// types in package model). Any number of playback instances can then bind
// the same composition: each one builds its own scene graph (package scene)
// over per-instance keyframe evaluators (package timeline), is advanced by a
// single progress value in [0, 1], and emits fills, strokes, layers and
// images to a host Surface. Rasterization is left to the host.
//
//	comp, err := parse.Composition(data)
//	if err != nil {
//	    return err
//	}
//	s := scene.New(comp)
//	s.SetProgress(0.5)
//	s.Draw(surface, motion.Identity(), 1)
//
// # Geometry
//
// This package is the geometry kernel shared by the other packages:
// [Point], [Matrix], [Rect], [CubicBez] and [Path], whose contours are built
// from MoveTo, LineTo, CubicTo, ArcTo and Close elements. On top of that it
// provides arc-length measurement ([PathMeasure]), trim-path extraction
// ([Trim]), boolean combination ([Combine]) and dashing ([Dash]).
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - ArcTo angles are in degrees and increase clockwise on screen
//
// # Logging
//
// Nothing is logged by default. See [SetLogger].
package motion

// Version information
const (
	// Version is the current version of the library
	Version = "0.4.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 4

	// VersionPatch is the patch version
	VersionPatch = 0
)
