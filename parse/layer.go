package parse

import (
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

type rawLayer struct {
	Index       *float64          `json:"ind"`
	Parent      *float64          `json:"parent"`
	Name        string            `json:"nm"`
	Type        flexInt           `json:"ty"`
	Transform   *rawTransform     `json:"ks"`
	Masks       []rawMask         `json:"masksProperties"`
	MatteType   flexInt           `json:"tt"`
	IsMatte     flexBool          `json:"td"`
	Hidden      flexBool          `json:"hd"`
	Stretch     *float64          `json:"sr"`
	Start       float64           `json:"st"`
	In          float64           `json:"ip"`
	Out         float64           `json:"op"`
	Width       float64           `json:"w"`
	Height      float64           `json:"h"`
	SolidWidth  float64           `json:"sw"`
	SolidHeight float64           `json:"sh"`
	SolidColor  string            `json:"sc"`
	RefID       flexString        `json:"refId"`
	TimeRemap   *rawProp          `json:"tm"`
	Shapes      []json.RawMessage `json:"shapes"`
	Text        *rawText          `json:"t"`
	Effects     []json.RawMessage `json:"ef"`
	AutoOrient  flexBool          `json:"ao"`
}

type rawTransform struct {
	Anchor       *rawProp `json:"a"`
	Position     *rawProp `json:"p"`
	Scale        *rawProp `json:"s"`
	Rotation     *rawProp `json:"r"`
	RotationZ    *rawProp `json:"rz"`
	Opacity      *rawProp `json:"o"`
	Skew         *rawProp `json:"sk"`
	SkewAxis     *rawProp `json:"sa"`
	StartOpacity *rawProp `json:"so"`
	EndOpacity   *rawProp `json:"eo"`
}

type rawMask struct {
	Name     string   `json:"nm"`
	Mode     string   `json:"mode"`
	Path     *rawProp `json:"pt"`
	Opacity  *rawProp `json:"o"`
	Inverted flexBool `json:"inv"`
}

var layerTypes = map[int]model.LayerType{
	0: model.LayerPreComp,
	1: model.LayerSolid,
	2: model.LayerImage,
	3: model.LayerNull,
	4: model.LayerShape,
	5: model.LayerText,
}

// layers decodes one layer list and validates its parent links.
func (d *decoder) layers(path string, raws []json.RawMessage) ([]*model.Layer, error) {
	layers := make([]*model.Layer, 0, len(raws))
	dropped := make(map[int64]bool)
	for i, raw := range raws {
		if err := d.ctx.Err(); err != nil {
			return nil, err
		}
		lpath := fmt.Sprintf("%s[%d]", path, i)
		var rl rawLayer
		if err := json.Unmarshal(raw, &rl); err != nil {
			return nil, malformed(lpath, err)
		}
		typ, ok := layerTypes[int(rl.Type)]
		if !ok {
			d.warn(model.UnsupportedFeature, "%s: layer %q of type %d is not supported", lpath, rl.Name, int(rl.Type))
			if rl.Index != nil {
				dropped[int64(*rl.Index)] = true
			}
			continue
		}
		l, err := d.layer(lpath, i, typ, &rl)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}
	if err := d.validateParents(path, layers, dropped); err != nil {
		return nil, err
	}
	return layers, nil
}

func (d *decoder) layer(path string, index int, typ model.LayerType, rl *rawLayer) (*model.Layer, error) {
	l := &model.Layer{
		Name:        rl.Name,
		ID:          int64(index),
		ParentID:    model.NoParent,
		Type:        typ,
		Hidden:      bool(rl.Hidden),
		IsMatte:     bool(rl.IsMatte),
		TimeStretch: 1,
		StartFrame:  rl.Start,
		RefID:       string(rl.RefID),
		Width:       rl.Width,
		Height:      rl.Height,
		SolidWidth:  rl.SolidWidth,
		SolidHeight: rl.SolidHeight,
	}
	if rl.Index != nil {
		l.ID = int64(*rl.Index)
	}
	if rl.Parent != nil {
		l.ParentID = int64(*rl.Parent)
	}
	if rl.Stretch != nil && *rl.Stretch != 0 {
		l.TimeStretch = *rl.Stretch
	}

	// In and out points are exported already stretched. The visibility
	// keyframes are stretched again at evaluation, so undo it here.
	l.InFrame = rl.In / l.TimeStretch
	l.OutFrame = rl.Out / l.TimeStretch
	l.InOut = model.VisibilityKeyframes(l.InFrame, l.OutFrame, 0, d.comp.EndFrame)

	var err error
	if l.Transform, err = d.transform(path+".ks", rl.Transform, true); err != nil {
		return nil, err
	}

	switch rl.MatteType {
	case 0:
	case 1:
		l.Matte = model.MatteAdd
	case 2:
		l.Matte = model.MatteInvert
	case 3:
		d.warn(model.UnsupportedFeature, "%s: luma matte drawn as alpha matte", path)
		l.Matte = model.MatteAdd
	case 4:
		d.warn(model.UnsupportedFeature, "%s: inverted luma matte drawn as inverted alpha matte", path)
		l.Matte = model.MatteInvert
	default:
		d.warn(model.UnsupportedFeature, "%s: unknown matte type %d", path, int(rl.MatteType))
	}

	for i := range rl.Masks {
		m, err := d.mask(fmt.Sprintf("%s.masksProperties[%d]", path, i), &rl.Masks[i])
		if err != nil {
			return nil, err
		}
		l.Masks = append(l.Masks, m)
	}

	if rl.TimeRemap != nil {
		tm, err := floatProp(d, path+".tm", rl.TimeRemap, 0)
		if err != nil {
			return nil, err
		}
		l.TimeRemap = &tm
	}
	if len(rl.Effects) > 0 {
		d.warn(model.UnsupportedFeature, "%s: %d layer effects are ignored", path, len(rl.Effects))
	}
	if rl.AutoOrient {
		d.warn(model.UnsupportedFeature, "%s: auto-orient is ignored", path)
	}

	switch typ {
	case model.LayerSolid:
		l.SolidColor = d.solidColor(path+".sc", rl.SolidColor)
	case model.LayerShape:
		items, err := d.contents(path+".shapes", rl.Shapes)
		if err != nil {
			return nil, err
		}
		l.Shapes = withoutTransforms(items)
	case model.LayerText:
		if l.Text, err = d.text(path+".t", rl.Text); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (d *decoder) solidColor(path, hex string) motion.RGBA {
	if hex == "" {
		return motion.Black
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		d.warn(model.GeometryInconsistency, "%s: %v", path, err)
		return motion.Black
	}
	return motion.RGB(c.R, c.G, c.B)
}

// transform decodes a layer, group or repeater transform. Layer transforms
// must carry a position and a rotation.
func (d *decoder) transform(path string, rt *rawTransform, required bool) (model.Transform, error) {
	t := model.DefaultTransform()
	if rt == nil {
		if required {
			return t, missing(path + ".p")
		}
		return t, nil
	}
	if required {
		if rt.Position == nil {
			return t, missing(path + ".p")
		}
		if rt.Rotation == nil && rt.RotationZ == nil {
			return t, missing(path + ".r")
		}
	}

	var err error
	if t.Anchor, err = vectorProp(d, path+".a", rt.Anchor, motion.Point{}); err != nil {
		return t, err
	}
	if p := rt.Position; p != nil && p.Split {
		var x rawProp
		if err := json.Unmarshal(p.X, &x); err != nil {
			return t, malformed(path+".p.x", err)
		}
		if p.Y == nil {
			return t, missing(path + ".p.y")
		}
		t.SplitPosition = true
		if t.PositionX, err = floatProp(d, path+".p.x", &x, 0); err != nil {
			return t, err
		}
		if t.PositionY, err = floatProp(d, path+".p.y", p.Y, 0); err != nil {
			return t, err
		}
	} else if t.Position, err = pointProp(d, path+".p", rt.Position); err != nil {
		return t, err
	}
	if t.Scale, err = vectorProp(d, path+".s", rt.Scale, motion.Pt(100, 100)); err != nil {
		return t, err
	}
	rot, rotPath := rt.Rotation, path+".r"
	if rot == nil {
		rot, rotPath = rt.RotationZ, path+".rz"
	}
	if t.Rotation, err = floatProp(d, rotPath, rot, 0); err != nil {
		return t, err
	}
	if t.Opacity, err = floatProp(d, path+".o", rt.Opacity, 100); err != nil {
		return t, err
	}
	if t.Skew, err = optional(d, path+".sk", rt.Skew, floatValue); err != nil {
		return t, err
	}
	if t.SkewAxis, err = optional(d, path+".sa", rt.SkewAxis, floatValue); err != nil {
		return t, err
	}
	if t.StartOpacity, err = optional(d, path+".so", rt.StartOpacity, floatValue); err != nil {
		return t, err
	}
	if t.EndOpacity, err = optional(d, path+".eo", rt.EndOpacity, floatValue); err != nil {
		return t, err
	}
	return t, nil
}

func (d *decoder) mask(path string, rm *rawMask) (model.Mask, error) {
	m := model.Mask{Name: rm.Name, Inverted: bool(rm.Inverted)}
	switch rm.Mode {
	case "a", "":
		m.Mode = model.MaskAdd
	case "s":
		m.Mode = model.MaskSubtract
	case "i":
		m.Mode = model.MaskIntersect
	case "n":
		m.Mode = model.MaskNone
	default:
		d.warn(model.UnsupportedFeature, "%s: mask mode %q drawn as add", path, rm.Mode)
		m.Mode = model.MaskAdd
	}
	if rm.Path == nil {
		return m, missing(path + ".pt")
	}
	var err error
	if m.Path, err = shapeProp(d, path+".pt", rm.Path); err != nil {
		return m, err
	}
	if m.Opacity, err = floatProp(d, path+".o", rm.Opacity, 100); err != nil {
		return m, err
	}
	return m, nil
}

// validateParents checks that every parent id resolves within layers and
// that no layer is its own ancestor. Links to dropped layers are removed.
func (d *decoder) validateParents(path string, layers []*model.Layer, dropped map[int64]bool) error {
	byID := make(map[int64]*model.Layer, len(layers))
	for _, l := range layers {
		if _, dup := byID[l.ID]; dup {
			d.warn(model.GeometryInconsistency, "%s: duplicate layer index %d", path, l.ID)
			continue
		}
		byID[l.ID] = l
	}
	for i, l := range layers {
		if !l.HasParent() {
			continue
		}
		if _, ok := byID[l.ParentID]; ok {
			continue
		}
		if dropped[l.ParentID] {
			d.warn(model.LookupFailure, "%s[%d]: parent %d is an unsupported layer", path, i, l.ParentID)
			l.ParentID = model.NoParent
			continue
		}
		return &ParseError{
			Path: fmt.Sprintf("%s[%d].parent", path, i),
			Msg:  fmt.Sprintf("no layer with index %d", l.ParentID),
			Err:  ErrUnknownParent,
		}
	}
	for i, l := range layers {
		seen := map[int64]bool{l.ID: true}
		for p := l; p.HasParent(); {
			p = byID[p.ParentID]
			if seen[p.ID] {
				return &ParseError{
					Path: fmt.Sprintf("%s[%d].parent", path, i),
					Msg:  fmt.Sprintf("layer %d is its own ancestor", l.ID),
					Err:  ErrParentCycle,
				}
			}
			seen[p.ID] = true
		}
	}
	return nil
}
