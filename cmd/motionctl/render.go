package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/player"
	"github.com/gogpu/motion/recording"
	_ "github.com/gogpu/motion/recording/backends/svg" // register "svg"
	"github.com/gogpu/motion/scene"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		frame, progress, scale float64
		marker, output, format string
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Export one frame",
		Long: `Renders a single frame of a document with an export backend (--format, one of:
` + strings.Join(recording.Backends(), ", ") + `). The frame is chosen with --frame,
or with --progress relative to the playback range. --marker limits the range to
a named marker and, without --frame or --progress, renders its first frame.
External image assets are read relative to the document.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(recording.Backends(), format) {
				return fmt.Errorf("unknown format %q (have %s)", format, strings.Join(recording.Backends(), ", "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			comp, err := a.loader.LoadFile(cmd.Context(), name)
			if err != nil {
				return err
			}
			p, err := player.New(comp,
				player.WithImageProvider(player.FSImages(os.DirFS(filepath.Dir(name)))),
				player.WithLogger(a.log))
			if err != nil {
				return err
			}
			defer p.Release()

			if marker != "" {
				if err := p.SetMinAndMaxFrameByMarker(marker); err != nil {
					return err
				}
			}
			switch {
			case cmd.Flags().Changed("frame"):
				_, err = p.SetFrame(frame)
			case cmd.Flags().Changed("progress"):
				_, err = p.SetProgress(progress)
			}
			if err != nil {
				return err
			}

			data, err := renderFrame(p, format, scale, a.cfg.Background)
			if err != nil {
				return err
			}
			a.log.Debug("rendered", "file", name, "frame", p.Frame(), "format", format, "bytes", len(data))
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&frame, "frame", 0, "frame to render")
	f.Float64Var(&progress, "progress", 0, "position in the playback range, 0 to 1")
	f.StringVar(&marker, "marker", "", "limit playback to a named marker")
	f.Float64Var(&scale, "scale", 1, "output scale factor")
	f.StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	f.StringVar(&format, "format", "svg", "export backend")
	f.String("background", "", "background color as #rrggbb")
	cmd.MarkFlagsMutuallyExclusive("frame", "progress")
	return cmd
}

// renderFrame records the current frame of p, over an optional background,
// and plays the recording back into the named backend.
func renderFrame(p *player.Player, format string, scale float64, background string) ([]byte, error) {
	if scale <= 0 || math.IsNaN(scale) {
		return nil, fmt.Errorf("scale must be positive, got %v", scale)
	}
	comp := p.Composition()
	w := int(math.Ceil(comp.Width * scale))
	h := int(math.Ceil(comp.Height * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("composition has no area (%gx%g)", comp.Width, comp.Height)
	}

	rec := recording.NewRecorder(w, h)
	if background != "" {
		c, err := colorful.Hex(background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		bg := motion.NewPath()
		bg.Rectangle(0, 0, float64(w), float64(h))
		rec.FillPath(bg, scene.Paint{Color: motion.RGB(c.R, c.G, c.B), Alpha: 1})
	}
	if err := p.Draw(rec, motion.Scale(scale, scale), 1); err != nil {
		return nil, err
	}

	backend, err := recording.NewBackend(format)
	if err != nil {
		return nil, err
	}
	if err := rec.FinishRecording().Playback(backend); err != nil {
		return nil, err
	}
	wb, ok := backend.(recording.WriterBackend)
	if !ok {
		return nil, fmt.Errorf("%s backend cannot write to a stream", format)
	}
	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
