package parse

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/gogpu/motion/model"
)

type rawAsset struct {
	ID     flexString        `json:"id"`
	Width  float64           `json:"w"`
	Height float64           `json:"h"`
	Dir    string            `json:"u"`
	File   string            `json:"p"`
	Layers []json.RawMessage `json:"layers"`
}

type rawFont struct {
	Family string  `json:"fFamily"`
	Name   string  `json:"fName"`
	Style  string  `json:"fStyle"`
	Ascent float64 `json:"ascent"`
}

type rawChar struct {
	Char   string  `json:"ch"`
	Size   float64 `json:"size"`
	Style  string  `json:"style"`
	Width  float64 `json:"w"`
	Family string  `json:"fFamily"`
	Data   struct {
		Shapes []json.RawMessage `json:"shapes"`
	} `json:"data"`
}

// asset decodes a precomposition (an asset with layers) or an image.
func (d *decoder) asset(path string, a *rawAsset) error {
	id := string(a.ID)
	if a.Layers != nil {
		layers, err := d.layers(path+".layers", a.Layers)
		if err != nil {
			return err
		}
		d.comp.Precomps[id] = layers
		return nil
	}
	if a.File == "" && a.Width == 0 && a.Height == 0 {
		return nil
	}
	img := &model.ImageAsset{
		ID:       id,
		Width:    int(a.Width),
		Height:   int(a.Height),
		FileName: a.File,
		Dir:      a.Dir,
	}
	if isDataURI(a.File) {
		decoded, err := decodeDataURI(a.File)
		if err != nil {
			d.warn(model.LookupFailure, "%s: embedded image %q: %v", path, id, err)
		} else {
			img.Image = fitImage(decoded, img.Width, img.Height)
		}
		img.FileName = ""
	}
	d.comp.Images[id] = img
	return nil
}

var errNotBase64 = errors.New("data URI is not base64 encoded")

// decodeDataURI decodes "data:image/<type>;base64,<payload>".
func decodeDataURI(uri string) (image.Image, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, errNotBase64
	}
	if !strings.HasSuffix(uri[:comma], ";base64") {
		return nil, errNotBase64
	}
	b, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Image decodes a PNG, JPEG, GIF or WebP bitmap for an image asset and
// scales it to the asset size.
func Image(r io.Reader, asset *model.ImageAsset) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("parse: image %q: %w", asset.ID, err)
	}
	return fitImage(img, asset.Width, asset.Height), nil
}

// fitImage rescales img to w×h when both are set and differ from its size.
func fitImage(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() == w && b.Dy() == h) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func (d *decoder) fonts(list []rawFont) {
	for _, f := range list {
		d.comp.Fonts[f.Name] = &model.Font{
			Family: f.Family,
			Name:   f.Name,
			Style:  f.Style,
			Ascent: f.Ascent,
		}
	}
}

func (d *decoder) char(path string, c *rawChar) error {
	fc := &model.FontChar{
		Character: c.Char,
		Size:      c.Size,
		Width:     c.Width,
		Style:     c.Style,
		Family:    c.Family,
	}
	items, err := d.contents(path+".data.shapes", c.Data.Shapes)
	if err != nil {
		return err
	}
	for _, it := range items {
		if g, ok := it.(*model.ShapeGroup); ok {
			fc.Shapes = append(fc.Shapes, g)
		}
	}
	d.comp.Chars[model.CharHash(c.Char, c.Family, c.Style)] = fc
	return nil
}
