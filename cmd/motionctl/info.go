package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/motion/model"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Describe animation documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, err := a.loader.LoadAll(cmd.Context(), args, a.cfg.Workers)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, comp := range comps {
				if i > 0 {
					fmt.Fprintln(out)
				}
				writeInfo(out, args[i], comp)
			}
			return nil
		},
	}
}

func writeInfo(w io.Writer, name string, comp *model.Composition) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "file:\t%s\n", name)
	fmt.Fprintf(tw, "version:\t%s\n", comp.Version)
	fmt.Fprintf(tw, "size:\t%gx%g\n", comp.Width, comp.Height)
	fmt.Fprintf(tw, "frames:\t%g-%g (%d at %g fps)\n", comp.StartFrame, comp.EndFrame, comp.FrameCount(), comp.FrameRate)
	fmt.Fprintf(tw, "duration:\t%s\n", comp.Duration())
	fmt.Fprintf(tw, "layers:\t%s\n", layerSummary(comp))
	fmt.Fprintf(tw, "precomps:\t%d\n", len(comp.Precomps))
	fmt.Fprintf(tw, "images:\t%d\n", len(comp.Images))
	fmt.Fprintf(tw, "fonts:\t%d\n", len(comp.Fonts))
	for _, m := range comp.Markers {
		fmt.Fprintf(tw, "marker:\t%s [%g, %g]\n", m.Name, m.StartFrame, m.StartFrame+m.DurationFrames)
	}
	for _, warn := range comp.Warnings {
		fmt.Fprintf(tw, "warning:\t%s: %s\n", warn.Kind, warn.Message)
	}
	tw.Flush()
}

// layerSummary counts layers of every type, precompositions included.
func layerSummary(comp *model.Composition) string {
	counts := make(map[string]int)
	total := 0
	count := func(layers []*model.Layer) {
		for _, l := range layers {
			counts[l.Type.String()]++
			total++
		}
	}
	count(comp.Layers)
	for _, layers := range comp.Precomps {
		count(layers)
	}

	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	s := fmt.Sprint(total)
	for i, n := range names {
		sep := ", "
		if i == 0 {
			sep = " ("
		}
		s += fmt.Sprintf("%s%d %s", sep, counts[n], n)
	}
	if len(names) > 0 {
		s += ")"
	}
	return s
}
