package parse

import "github.com/gogpu/motion/model"

type rawText struct {
	Document *struct {
		Keyframes []rawDocumentKeyframe `json:"k"`
	} `json:"d"`
	Animators []struct {
		Properties *rawTextProperties `json:"a"`
	} `json:"a"`
}

type rawDocumentKeyframe struct {
	Start rawDocument `json:"s"`
	Time  float64     `json:"t"`
}

type rawDocument struct {
	Text          string    `json:"t"`
	Font          string    `json:"f"`
	Size          float64   `json:"s"`
	Justification flexInt   `json:"j"`
	Tracking      float64   `json:"tr"`
	LineHeight    float64   `json:"lh"`
	BaselineShift float64   `json:"ls"`
	FillColor     []float64 `json:"fc"`
	StrokeColor   []float64 `json:"sc"`
	StrokeWidth   float64   `json:"sw"`
	StrokeOver    flexBool  `json:"of"`
}

type rawTextProperties struct {
	FillColor   *rawProp `json:"fc"`
	StrokeColor *rawProp `json:"sc"`
	StrokeWidth *rawProp `json:"sw"`
	Tracking    *rawProp `json:"t"`
	Opacity     *rawProp `json:"o"`
}

// text decodes the documents and first animator of a text layer. Documents
// change in steps, so each one becomes a hold keyframe.
func (d *decoder) text(path string, rt *rawText) (*model.TextLayer, error) {
	t := &model.TextLayer{}
	if rt == nil || rt.Document == nil {
		return t, nil
	}
	kfs := make([]model.Keyframe[model.DocumentData], 0, len(rt.Document.Keyframes))
	for _, k := range rt.Document.Keyframes {
		doc := k.Start.document()
		if _, ok := d.comp.Fonts[doc.FontName]; !ok && doc.FontName != "" {
			d.warn(model.LookupFailure, "%s: font %q is not declared", path, doc.FontName)
		}
		kfs = append(kfs, model.Keyframe[model.DocumentData]{
			StartValue: doc,
			EndValue:   doc,
			HasEnd:     true,
			StartFrame: k.Time,
			Easing:     model.Hold,
		})
	}
	switch len(kfs) {
	case 0:
	case 1:
		t.Document = model.Static(kfs[0].StartValue)
	default:
		t.Document = model.Animated(kfs)
	}

	if len(rt.Animators) == 0 || rt.Animators[0].Properties == nil {
		return t, nil
	}
	if len(rt.Animators) > 1 {
		d.warn(model.UnsupportedFeature, "%s: only the first of %d text animators is kept", path, len(rt.Animators))
	}
	rp := rt.Animators[0].Properties
	apath := path + ".a[0].a"
	var err error
	p := &t.Properties
	if p.FillColor, err = optional(d, apath+".fc", rp.FillColor, colorValue); err != nil {
		return nil, err
	}
	if p.StrokeColor, err = optional(d, apath+".sc", rp.StrokeColor, colorValue); err != nil {
		return nil, err
	}
	if p.StrokeWidth, err = optional(d, apath+".sw", rp.StrokeWidth, floatValue); err != nil {
		return nil, err
	}
	if p.Tracking, err = optional(d, apath+".t", rp.Tracking, floatValue); err != nil {
		return nil, err
	}
	if p.Opacity, err = optional(d, apath+".o", rp.Opacity, floatValue); err != nil {
		return nil, err
	}
	return t, nil
}

func (r rawDocument) document() model.DocumentData {
	doc := model.DocumentData{
		Text:           r.Text,
		FontName:       r.Font,
		Size:           r.Size,
		Tracking:       r.Tracking,
		LineHeight:     r.LineHeight,
		BaselineShift:  r.BaselineShift,
		StrokeWidth:    r.StrokeWidth,
		StrokeOverFill: bool(r.StrokeOver),
	}
	switch r.Justification {
	case 1:
		doc.Justification = model.JustifyRight
	case 2:
		doc.Justification = model.JustifyCenter
	default:
		doc.Justification = model.JustifyLeft
	}
	if len(r.FillColor) > 0 {
		doc.FillColor = colorFromSlice(r.FillColor)
	}
	if len(r.StrokeColor) > 0 {
		doc.StrokeColor = colorFromSlice(r.StrokeColor)
	}
	return doc
}
