package scene

import (
	"image"
	"log/slog"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

// ImageProvider returns the bitmap of an image asset that did not come
// embedded in the document, or nil when it is unavailable.
type ImageProvider func(asset *model.ImageAsset) image.Image

// options holds the configuration of a Scene.
type options struct {
	invalidate func()
	images     ImageProvider
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{}
}

// Option configures a Scene.
type Option func(*options)

// WithInvalidate registers a function called once for every SetProgress
// call or value override that changed what the scene draws.
func WithInvalidate(fn func()) Option {
	return func(o *options) {
		o.invalidate = fn
	}
}

// WithImageProvider sets the source of image assets that are referenced
// by file name.
func WithImageProvider(p ImageProvider) Option {
	return func(o *options) {
		o.images = p
	}
}

// WithLogger sets the logger of the scene. By default the package logger
// of motion is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func (o *options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return motion.Logger()
}
