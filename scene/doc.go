// Package scene evaluates a parsed composition at a progress position and
// draws it onto a Surface.
//
// A Scene is one playback instance of a model.Composition. It owns the
// mutable state derived from the immutable model: keyframe timelines,
// cached geometry, cached gradient shaders and value overrides. Any number
// of scenes may share one composition.
//
// # Usage
//
//	comp, err := parse.Composition(data)
//	if err != nil {
//	    return err
//	}
//	s := scene.New(comp)
//	s.SetProgress(0.5)
//	s.Draw(surface, motion.Identity(), 1)
//
// # Content model
//
// Layers draw from the last to the first of their list. Inside a shape
// layer, a fill or a stroke paints the path items that precede it in its
// group, trim paths modify the paths before them and repeaters copy
// everything before them.
//
// # Key paths
//
// Elements are addressed by dotted name patterns ("Layer.Group.Fill 1").
// "*" matches exactly one element and "**" matches any number of them.
// ResolveKeyPath returns the matches and SetValueOverride installs a
// timeline.ValueCallback on one of their properties.
//
// Scenes are not safe for concurrent use.
package scene
