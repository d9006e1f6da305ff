package model

import (
	"hash/fnv"
	"image"
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/motion"
)

// ImageAsset is an image referenced by image layers.
type ImageAsset struct {
	ID            string
	Width, Height int
	// FileName and Dir locate an external file. Loading it is up to the
	// host.
	FileName string
	Dir      string
	// Image holds the decoded bitmap of an embedded data URI.
	Image image.Image
}

// Embedded reports whether the bitmap came with the document.
func (a *ImageAsset) Embedded() bool {
	return a.Image != nil
}

// Font describes a font used by text layers.
type Font struct {
	Family string
	Name   string
	Style  string
	Ascent float64
}

// Aspect maps the style name ("Bold Italic", "Light", ...) to font
// selection parameters.
func (f *Font) Aspect() font.Aspect {
	a := font.Aspect{Style: font.StyleNormal, Weight: font.WeightNormal, Stretch: font.StretchNormal}
	s := strings.ToLower(f.Style)
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		a.Style = font.StyleItalic
	}
	weights := []struct {
		name   string
		weight font.Weight
	}{
		{"extralight", 200},
		{"ultralight", 200},
		{"semibold", 600},
		{"demibold", 600},
		{"extrabold", 800},
		{"ultrabold", 800},
		{"thin", 100},
		{"light", 300},
		{"medium", 500},
		{"bold", 700},
		{"black", 900},
		{"heavy", 900},
	}
	compact := strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "-", "")
	for _, w := range weights {
		if strings.Contains(compact, w.name) {
			a.Weight = w.weight
			break
		}
	}
	return a
}

// FontChar is the exported outline of one glyph.
type FontChar struct {
	Character string
	Size      float64
	Width     float64
	Style     string
	Family    string
	Shapes    []*ShapeGroup
}

// CharHash keys a glyph by character, family and style. The character is
// NFC-normalized first so that composed and decomposed forms match.
func CharHash(ch, family, style string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(norm.NFC.String(ch)))
	h.Write([]byte{0})
	h.Write([]byte(family))
	h.Write([]byte{0})
	h.Write([]byte(style))
	return h.Sum64()
}

// Justification aligns lines of a text document.
type Justification uint8

const (
	JustifyLeft Justification = iota
	JustifyRight
	JustifyCenter
)

// DocumentData is the text and style of one text keyframe.
type DocumentData struct {
	Text           string
	FontName       string
	Size           float64
	Justification  Justification
	Tracking       float64
	LineHeight     float64
	BaselineShift  float64
	FillColor      motion.RGBA
	StrokeColor    motion.RGBA
	StrokeWidth    float64
	StrokeOverFill bool
}

// Script returns the writing system of the first non-space character.
func (d DocumentData) Script() language.Script {
	for _, r := range d.Text {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
