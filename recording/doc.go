// Package recording captures the draw calls of a scene as commands.
//
// A Recorder implements scene.Surface. Every call it receives becomes a
// typed command; paths, brushes and images are kept in a ResourcePool and
// referenced by handle. FinishRecording returns an immutable Recording that
// can be replayed any number of times to a Backend.
//
// # Architecture
//
//   - Recorder: captures scene draw calls as commands
//   - Recording: stores commands and resources for playback
//   - Backend: renders commands to a specific output format
//
// # Basic Usage
//
//	rec := recording.NewRecorder(comp.Width, comp.Height)
//	s.Draw(rec, motion.Identity(), 1)
//	r := rec.FinishRecording()
//
//	b, err := recording.NewBackend("svg")
//	if err != nil {
//	    return err
//	}
//	if err := r.Playback(b); err != nil {
//	    return err
//	}
//	b.(recording.FileBackend).SaveToFile("frame.svg")
//
// # Backend Registration
//
// Backends register themselves in init, following the database/sql driver
// pattern:
//
//	import _ "github.com/gogpu/motion/recording/backends/svg"
//
// Backends lists what is available.
//
// # Thread Safety
//
// Recorder is not safe for concurrent use. A finished Recording is
// read-only and may be replayed from several goroutines, each with its own
// backend. The registry is safe for concurrent use.
package recording
