// Package parse decodes JSON animation documents into the immutable model.
//
// Decoding is strict about structure that cannot be rendered without
// (layer transforms, parent links) and lenient about everything else:
// unsupported constructs are skipped and recorded as warnings on the
// returned composition.
package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/Masterminds/semver/v3"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

// minVersion is the oldest exporter version whose documents are known to
// decode faithfully.
var minVersion = semver.MustParse("4.4.0")

// Option configures decoding.
type Option func(*options)

type options struct {
	density float64
	logger  *slog.Logger
}

// WithDensity sets the device pixel density recorded on the composition.
func WithDensity(d float64) Option {
	return func(o *options) {
		if d > 0 {
			o.density = d
		}
	}
}

// WithLogger logs warnings to l instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Composition decodes a document.
func Composition(data []byte, opts ...Option) (*model.Composition, error) {
	return CompositionContext(context.Background(), data, opts...)
}

// Reader decodes a document read from r.
func Reader(ctx context.Context, r io.Reader, opts ...Option) (*model.Composition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parse: read document: %w", err)
	}
	return CompositionContext(ctx, data, opts...)
}

// CompositionContext decodes a document, stopping with ctx.Err() when ctx
// is cancelled between assets or layers.
func CompositionContext(ctx context.Context, data []byte, opts ...Option) (*model.Composition, error) {
	o := options{density: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = motion.Logger()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw rawComposition
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: "$", Msg: err.Error(), Err: ErrMalformed}
	}
	comp := &model.Composition{
		Width:      raw.Width,
		Height:     raw.Height,
		StartFrame: raw.InPoint,
		EndFrame:   raw.OutPoint,
		FrameRate:  raw.FrameRate,
		Density:    o.density,
		Version:    raw.Version,
		Precomps:   make(map[string][]*model.Layer),
		Images:     make(map[string]*model.ImageAsset),
		Fonts:      make(map[string]*model.Font),
		Chars:      make(map[uint64]*model.FontChar),
	}
	d := &decoder{ctx: ctx, comp: comp, log: o.logger}
	d.checkVersion(raw.Version)

	for i := range raw.Assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := d.asset(fmt.Sprintf("assets[%d]", i), &raw.Assets[i]); err != nil {
			return nil, err
		}
	}
	d.fonts(raw.Fonts.List)
	for i := range raw.Chars {
		if err := d.char(fmt.Sprintf("chars[%d]", i), &raw.Chars[i]); err != nil {
			return nil, err
		}
	}

	layers, err := d.layers("layers", raw.Layers)
	if err != nil {
		return nil, err
	}
	comp.Layers = layers

	for _, m := range raw.Markers {
		comp.Markers = append(comp.Markers, model.Marker{
			Name:           m.Name,
			StartFrame:     m.Time,
			DurationFrames: m.Duration,
		})
	}
	d.checkReferences()
	return comp, nil
}

type rawComposition struct {
	Version   string            `json:"v"`
	FrameRate float64           `json:"fr"`
	InPoint   float64           `json:"ip"`
	OutPoint  float64           `json:"op"`
	Width     float64           `json:"w"`
	Height    float64           `json:"h"`
	Layers    []json.RawMessage `json:"layers"`
	Assets    []rawAsset        `json:"assets"`
	Fonts     struct {
		List []rawFont `json:"list"`
	} `json:"fonts"`
	Chars   []rawChar   `json:"chars"`
	Markers []rawMarker `json:"markers"`
}

type rawMarker struct {
	Name     string  `json:"cm"`
	Time     float64 `json:"tm"`
	Duration float64 `json:"dr"`
}

// decoder carries the composition under construction and collects
// warnings.
type decoder struct {
	ctx  context.Context
	comp *model.Composition
	log  *slog.Logger
}

func (d *decoder) warn(kind model.WarningKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.comp.Warnings = append(d.comp.Warnings, model.Warning{Kind: kind, Message: msg})
	d.log.Warn(msg, "kind", kind.String())
}

func (d *decoder) checkVersion(v string) {
	if v == "" {
		return
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		d.warn(model.UnsupportedFeature, "unrecognized document version %q", v)
		return
	}
	if ver.LessThan(minVersion) {
		d.warn(model.UnsupportedFeature, "document version %s is older than %s", ver, minVersion)
	}
}

// checkReferences warns about precomposition and image layers whose asset
// is missing, and text layers that have no glyph outlines to draw with.
func (d *decoder) checkReferences() {
	textWarned := false
	visit := func(layers []*model.Layer) {
		for _, l := range layers {
			switch l.Type {
			case model.LayerPreComp:
				if _, ok := d.comp.Precomps[l.RefID]; !ok {
					d.warn(model.LookupFailure, "layer %q: precomposition %q not found", l.Name, l.RefID)
				}
			case model.LayerImage:
				if _, ok := d.comp.Images[l.RefID]; !ok {
					d.warn(model.LookupFailure, "layer %q: image asset %q not found", l.Name, l.RefID)
				}
			case model.LayerText:
				if len(d.comp.Chars) == 0 && !textWarned {
					textWarned = true
					d.warn(model.UnsupportedFeature, "layer %q: text without exported glyphs is not drawn", l.Name)
				}
			}
		}
	}
	visit(d.comp.Layers)
	for _, id := range slices.Sorted(maps.Keys(d.comp.Precomps)) {
		visit(d.comp.Precomps[id])
	}
}
