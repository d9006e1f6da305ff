package player

import (
	"image"
	"io/fs"
	"path"
	"sync"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/parse"
	"github.com/gogpu/motion/scene"
)

// FSImages returns an image provider that reads external image assets from
// fsys at the asset's directory and file name. Decoded bitmaps are scaled
// to the asset size and kept, per file and size, for the lifetime of the
// provider. Assets that
// cannot be read yield nil and a warning.
func FSImages(fsys fs.FS) scene.ImageProvider {
	type key struct {
		name string
		w, h int
	}
	var (
		mu     sync.Mutex
		images = make(map[key]image.Image)
	)
	return func(asset *model.ImageAsset) image.Image {
		name := path.Clean(path.Join(asset.Dir, asset.FileName))
		k := key{name, asset.Width, asset.Height}

		mu.Lock()
		defer mu.Unlock()
		if img, ok := images[k]; ok {
			return img
		}
		img, err := readImage(fsys, name, asset)
		if err != nil {
			motion.Logger().Warn("image asset not loaded",
				"kind", model.LookupFailure.String(), "asset", asset.ID, "file", name, "err", err)
		}
		images[k] = img
		return img
	}
}

func readImage(fsys fs.FS, name string, asset *model.ImageAsset) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse.Image(f, asset)
}
