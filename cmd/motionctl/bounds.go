package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/player"
)

func newBoundsCmd(a *app) *cobra.Command {
	var (
		marker  string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "bounds FILE",
		Short: "Report the area an animation draws into",
		Long: `Samples the playback range at evenly spaced frames and prints the union of
the drawn bounds, in composition units. With -v every sample is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := a.loader.LoadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p, err := player.New(comp, player.WithLogger(a.log))
			if err != nil {
				return err
			}
			defer p.Release()
			if marker != "" {
				if err := p.SetMinAndMaxFrameByMarker(marker); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			var trace io.Writer
			if verbose {
				trace = out
			}
			union, err := sampleBounds(p, a.cfg.Samples, trace)
			if err != nil {
				return err
			}
			if union.IsEmpty() {
				fmt.Fprintln(out, "empty")
				return nil
			}
			fmt.Fprintln(out, formatRect(union))
			return nil
		},
	}
	cmd.Flags().StringVar(&marker, "marker", "", "limit sampling to a named marker")
	cmd.Flags().Int("samples", 0, "frames sampled across the playback range")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the bounds of every sample")
	return cmd
}

// sampleBounds unions the bounds of n frames spread evenly over the
// playback range of p, endpoints included.
func sampleBounds(p *player.Player, n int, trace io.Writer) (motion.Rect, error) {
	var union motion.Rect
	for i := range n {
		progress := 0.0
		if n > 1 {
			progress = float64(i) / float64(n-1)
		}
		if _, err := p.SetProgress(progress); err != nil {
			return motion.Rect{}, err
		}
		b, err := p.Bounds(motion.Identity())
		if err != nil {
			return motion.Rect{}, err
		}
		if trace != nil {
			fmt.Fprintf(trace, "frame %g: %s\n", p.Frame(), formatRect(b))
		}
		union = union.Union(b)
	}
	return union, nil
}

func formatRect(r motion.Rect) string {
	return fmt.Sprintf("x=%g y=%g w=%g h=%g", r.Min.X, r.Min.Y, r.Width(), r.Height())
}
