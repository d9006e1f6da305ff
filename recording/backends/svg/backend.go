// Package svg provides an SVG backend for the recording system.
//
// Every recorded command maps onto plain SVG 1.1 elements:
//
//   - ClipRect becomes a clipPath around the content drawn after it
//   - SaveLayer with source-over becomes a group with an opacity
//   - SaveLayer with destination-in or destination-out becomes a luminance
//     mask over what the enclosing frame holds so far
//   - gradient brushes become linearGradient and radialGradient
//     definitions in user space
//   - images are embedded once as PNG data and placed with use elements
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/motion/recording/backends/svg"
//
//	backend, _ := recording.NewBackend("svg")
//	r.Playback(backend)
//	backend.(recording.FileBackend).SaveToFile("frame.svg")
package svg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/recording"
	"github.com/gogpu/motion/scene"
)

func init() {
	recording.Register("svg", func() recording.Backend {
		return NewBackend()
	})
}

// Filters recolor mask content so that its luminance equals its alpha
// (white) or one minus its alpha over a white backdrop (black).
const (
	whiteFilter = "motion-white"
	blackFilter = "motion-black"
)

type frameKind uint8

const (
	frameSave frameKind = iota
	frameClip
	frameLayer
)

// frame collects the markup drawn between a save and its restore.
type frame struct {
	kind  frameKind
	buf   bytes.Buffer
	clip  string
	alpha float64
	mode  scene.CompositeMode
}

// Backend renders recordings to an SVG document.
// It implements recording.Backend, recording.WriterBackend and
// recording.FileBackend.
type Backend struct {
	width, height int

	defs    bytes.Buffer
	stack   []*frame
	nextID  int
	filters bool
	images  map[image.Image]string
	err     error

	out []byte
}

// Ensure Backend implements all required interfaces.
var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
)

// NewBackend creates a new SVG backend.
// The backend must be initialized with Begin before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Begin starts a new document of the given size.
func (b *Backend) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("svg: invalid canvas size %dx%d", width, height)
	}
	*b = Backend{
		width:  width,
		height: height,
		stack:  []*frame{{kind: frameLayer, alpha: 1}},
		images: make(map[image.Image]string),
	}
	return nil
}

// End closes every open frame and assembles the document.
func (b *Backend) End() error {
	if len(b.stack) == 0 {
		return fmt.Errorf("svg: End called before Begin")
	}
	for len(b.stack) > 1 {
		b.pop()
	}
	if b.err != nil {
		return b.err
	}

	var doc bytes.Buffer
	fmt.Fprintf(&doc, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" viewBox="0 0 %d %d">`,
		b.width, b.height, b.width, b.height)
	doc.WriteByte('\n')
	if b.defs.Len() > 0 {
		doc.WriteString("<defs>\n")
		doc.Write(b.defs.Bytes())
		doc.WriteString("</defs>\n")
	}
	doc.Write(b.stack[0].buf.Bytes())
	doc.WriteString("</svg>\n")
	b.out = doc.Bytes()
	return nil
}

// Save pushes a frame without changing any state.
func (b *Backend) Save() {
	if len(b.stack) == 0 {
		return
	}
	b.stack = append(b.stack, &frame{kind: frameSave})
}

// Restore closes the frames opened since the matching Save or SaveLayer.
func (b *Backend) Restore() {
	i := len(b.stack) - 1
	for i > 0 && b.stack[i].kind == frameClip {
		i--
	}
	if i <= 0 {
		return
	}
	for len(b.stack) > i {
		b.pop()
	}
}

// SaveLayer starts a layer composited on the matching Restore.
func (b *Backend) SaveLayer(_ motion.Rect, alpha float64, mode scene.CompositeMode) {
	if len(b.stack) == 0 {
		return
	}
	b.stack = append(b.stack, &frame{kind: frameLayer, alpha: alpha, mode: mode})
}

// ClipRect clips the content drawn until the enclosing Restore.
func (b *Backend) ClipRect(r motion.Rect) {
	if len(b.stack) == 0 {
		return
	}
	id := b.id("clip")
	fmt.Fprintf(&b.defs, `<clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`+"\n",
		id, num(r.Min.X), num(r.Min.Y), num(math.Max(r.Width(), 0)), num(math.Max(r.Height(), 0)))
	b.stack = append(b.stack, &frame{kind: frameClip, clip: id})
}

// FillPath writes a filled path element.
func (b *Backend) FillPath(path *motion.Path, brush recording.Brush, rule motion.FillRule) {
	buf := b.current()
	if buf == nil || path == nil || path.IsEmpty() {
		return
	}
	fmt.Fprintf(buf, `<path d="%s"%s`, pathData(path), b.paint("fill", brush))
	if rule == motion.FillEvenOdd {
		buf.WriteString(` fill-rule="evenodd"`)
	}
	buf.WriteString("/>\n")
}

// StrokePath writes a stroked path element.
func (b *Backend) StrokePath(path *motion.Path, brush recording.Brush, stroke recording.Stroke) {
	buf := b.current()
	if buf == nil || path == nil || path.IsEmpty() || stroke.Width <= 0 {
		return
	}
	fmt.Fprintf(buf, `<path d="%s" fill="none"%s stroke-width="%s"`,
		pathData(path), b.paint("stroke", brush), num(stroke.Width))
	if stroke.Cap != recording.LineCapButt {
		fmt.Fprintf(buf, ` stroke-linecap="%s"`, stroke.Cap)
	}
	if stroke.Join != recording.LineJoinMiter {
		fmt.Fprintf(buf, ` stroke-linejoin="%s"`, stroke.Join)
	} else if stroke.MiterLimit >= 1 && stroke.MiterLimit != 4 {
		fmt.Fprintf(buf, ` stroke-miterlimit="%s"`, num(stroke.MiterLimit))
	}
	if stroke.IsDashed() {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, numList(stroke.DashPattern))
		if stroke.DashOffset != 0 {
			fmt.Fprintf(buf, ` stroke-dashoffset="%s"`, num(stroke.DashOffset))
		}
	}
	buf.WriteString("/>\n")
}

// DrawImage embeds the image on first use and places it through m.
func (b *Backend) DrawImage(img image.Image, m motion.Matrix, alpha float64) {
	buf := b.current()
	if buf == nil || img == nil {
		return
	}
	id, err := b.image(img)
	if err != nil {
		b.fail(err)
		return
	}
	fmt.Fprintf(buf, `<use xlink:href="#%s" transform="%s"`, id, matrix(m))
	if alpha < 1 {
		fmt.Fprintf(buf, ` opacity="%s"`, num(alpha))
	}
	buf.WriteString("/>\n")
}

// WriteTo writes the document produced by End.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.out)
	return int64(n), err
}

// SaveToFile writes the document produced by End to a file.
func (b *Backend) SaveToFile(path string) error {
	return os.WriteFile(path, b.out, 0o644)
}

// Bytes returns the document produced by End.
func (b *Backend) Bytes() []byte {
	return b.out
}

func (b *Backend) current() *bytes.Buffer {
	if len(b.stack) == 0 {
		return nil
	}
	return &b.stack[len(b.stack)-1].buf
}

func (b *Backend) id(prefix string) string {
	b.nextID++
	return prefix + strconv.Itoa(b.nextID)
}

func (b *Backend) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// pop closes the top frame into the one below it.
func (b *Backend) pop() {
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	parent := &b.stack[len(b.stack)-1].buf

	switch f.kind {
	case frameSave:
		parent.Write(f.buf.Bytes())
	case frameClip:
		if f.buf.Len() == 0 {
			return
		}
		fmt.Fprintf(parent, `<g clip-path="url(#%s)">`+"\n", f.clip)
		parent.Write(f.buf.Bytes())
		parent.WriteString("</g>\n")
	case frameLayer:
		b.composite(f, parent)
	}
}

func (b *Backend) composite(f *frame, parent *bytes.Buffer) {
	switch f.mode {
	case scene.DestinationIn:
		if f.buf.Len() == 0 || f.alpha <= 0 {
			parent.Reset()
			return
		}
		b.wrapMask(parent, b.mask(f, whiteFilter, false))
	case scene.DestinationOut:
		if f.buf.Len() == 0 || f.alpha <= 0 {
			return
		}
		b.wrapMask(parent, b.mask(f, blackFilter, true))
	default:
		if f.buf.Len() == 0 || f.alpha <= 0 {
			return
		}
		if f.alpha >= 1 {
			parent.Write(f.buf.Bytes())
			return
		}
		fmt.Fprintf(parent, `<g opacity="%s">`+"\n", num(f.alpha))
		parent.Write(f.buf.Bytes())
		parent.WriteString("</g>\n")
	}
}

// mask defines a luminance mask from the content of f and returns its id.
func (b *Backend) mask(f *frame, filter string, backdrop bool) string {
	b.defineFilters()
	id := b.id("mask")
	fmt.Fprintf(&b.defs, `<mask id="%s" maskUnits="userSpaceOnUse" x="0" y="0" width="%d" height="%d">`+"\n",
		id, b.width, b.height)
	if backdrop {
		fmt.Fprintf(&b.defs, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", b.width, b.height)
	}
	fmt.Fprintf(&b.defs, `<g filter="url(#%s)"`, filter)
	if f.alpha < 1 {
		fmt.Fprintf(&b.defs, ` opacity="%s"`, num(f.alpha))
	}
	b.defs.WriteString(">\n")
	b.defs.Write(f.buf.Bytes())
	b.defs.WriteString("</g>\n</mask>\n")
	return id
}

// wrapMask masks everything the buffer holds so far.
func (b *Backend) wrapMask(buf *bytes.Buffer, id string) {
	if buf.Len() == 0 {
		return
	}
	content := append([]byte(nil), buf.Bytes()...)
	buf.Reset()
	fmt.Fprintf(buf, `<g mask="url(#%s)">`+"\n", id)
	buf.Write(content)
	buf.WriteString("</g>\n")
}

func (b *Backend) defineFilters() {
	if b.filters {
		return
	}
	b.filters = true
	for _, f := range []struct {
		id string
		v  string
	}{
		{whiteFilter, "1"},
		{blackFilter, "0"},
	} {
		fmt.Fprintf(&b.defs, `<filter id="%s" filterUnits="userSpaceOnUse" x="0" y="0" width="%d" height="%d">`,
			f.id, b.width, b.height)
		fmt.Fprintf(&b.defs, `<feColorMatrix type="matrix" values="0 0 0 0 %[1]s 0 0 0 0 %[1]s 0 0 0 0 %[1]s 0 0 0 1 0"/></filter>`+"\n", f.v)
	}
}

// paint returns the fill or stroke attributes for a brush, defining a
// gradient when needed.
func (b *Backend) paint(attr string, brush recording.Brush) string {
	switch br := brush.(type) {
	case recording.SolidBrush:
		return colorAttrs(attr, br.Color)
	case *recording.LinearGradientBrush:
		id := b.id("grad")
		fmt.Fprintf(&b.defs, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s"%s>`+"\n",
			id, num(br.Start.X), num(br.Start.Y), num(br.End.X), num(br.End.Y), gradientTransform(br.Transform))
		writeStops(&b.defs, br.Stops)
		b.defs.WriteString("</linearGradient>\n")
		return fmt.Sprintf(` %s="url(#%s)"`, attr, id)
	case *recording.RadialGradientBrush:
		id := b.id("grad")
		fmt.Fprintf(&b.defs, `<radialGradient id="%s" gradientUnits="userSpaceOnUse" cx="%s" cy="%s" r="%s" fx="%s" fy="%s"%s>`+"\n",
			id, num(br.Center.X), num(br.Center.Y), num(br.Radius), num(br.Focus.X), num(br.Focus.Y), gradientTransform(br.Transform))
		writeStops(&b.defs, br.Stops)
		b.defs.WriteString("</radialGradient>\n")
		return fmt.Sprintf(` %s="url(#%s)"`, attr, id)
	}
	return colorAttrs(attr, motion.Black)
}

// image defines img once and returns its id.
func (b *Backend) image(img image.Image) (string, error) {
	keyed := reflect.TypeOf(img).Comparable()
	if keyed {
		if id, ok := b.images[img]; ok {
			return id, nil
		}
	}
	var data bytes.Buffer
	if err := png.Encode(&data, img); err != nil {
		return "", fmt.Errorf("svg: encoding image: %w", err)
	}
	id := b.id("img")
	r := img.Bounds()
	fmt.Fprintf(&b.defs, `<image id="%s" x="%d" y="%d" width="%d" height="%d" xlink:href="data:image/png;base64,%s"/>`+"\n",
		id, r.Min.X, r.Min.Y, r.Dx(), r.Dy(), base64.StdEncoding.EncodeToString(data.Bytes()))
	if keyed {
		b.images[img] = id
	}
	return id, nil
}

func writeStops(buf *bytes.Buffer, stops []recording.GradientStop) {
	for _, s := range stops {
		fmt.Fprintf(buf, `<stop offset="%s" stop-color="%s"`, num(s.Offset), hex(s.Color))
		if s.Color.A < 1 {
			fmt.Fprintf(buf, ` stop-opacity="%s"`, num(s.Color.A))
		}
		buf.WriteString("/>\n")
	}
}

func colorAttrs(attr string, c motion.RGBA) string {
	s := fmt.Sprintf(` %s="%s"`, attr, hex(c))
	if c.A < 1 {
		s += fmt.Sprintf(` %s-opacity="%s"`, attr, num(c.A))
	}
	return s
}

func hex(c motion.RGBA) string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

func gradientTransform(m motion.Matrix) string {
	if m.IsIdentity() {
		return ""
	}
	return fmt.Sprintf(` gradientTransform="%s"`, matrix(m))
}

// matrix formats m in SVG argument order.
func matrix(m motion.Matrix) string {
	return "matrix(" + numList([]float64{m.A, m.D, m.B, m.E, m.C, m.F}) + ")"
}

// pathData converts a path to SVG path syntax. Arcs are split into pieces
// of at most 90 degrees so that the large-arc flag is always clear.
func pathData(p *motion.Path) string {
	var sb strings.Builder
	var start, cur motion.Point
	started := false
	cmd := func(c byte, pts ...motion.Point) {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(c)
		for _, pt := range pts {
			sb.WriteByte(' ')
			sb.WriteString(num(pt.X))
			sb.WriteByte(' ')
			sb.WriteString(num(pt.Y))
		}
	}
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case motion.MoveTo:
			cmd('M', e.Point)
			start, cur, started = e.Point, e.Point, true
		case motion.LineTo:
			cmd('L', e.Point)
			cur = e.Point
		case motion.CubicTo:
			cmd('C', e.Control1, e.Control2, e.Point)
			cur = e.Point
		case motion.ArcTo:
			s := e.Start()
			if !started {
				cmd('M', s)
				start, started = s, true
			} else if !cur.Near(s, 1e-9) {
				cmd('L', s)
			}
			arcData(&sb, e)
			cur = e.End()
		case motion.Close:
			cmd('Z')
			cur = start
		}
	}
	return sb.String()
}

func arcData(sb *strings.Builder, a motion.ArcTo) {
	if a.SweepAngle == 0 {
		return
	}
	n := int(math.Ceil(math.Abs(a.SweepAngle) / 90))
	step := a.SweepAngle / float64(n)
	rx, ry := num(a.Oval.Width()/2), num(a.Oval.Height()/2)
	sweep := "0"
	if step > 0 {
		sweep = "1"
	}
	for i := 1; i <= n; i++ {
		end := motion.ArcTo{Oval: a.Oval, StartAngle: a.StartAngle, SweepAngle: step * float64(i)}.End()
		fmt.Fprintf(sb, " A %s %s 0 0 %s %s %s", rx, ry, sweep, num(end.X), num(end.Y))
	}
}

func numList(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = num(v)
	}
	return strings.Join(parts, " ")
}

// num formats v with at most four decimals.
func num(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
