package player

import (
	"log/slog"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/scene"
)

// options holds the configuration of a Player.
type options struct {
	invalidate func()
	images     scene.ImageProvider
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{}
}

// Option configures a Player.
type Option func(*options)

// WithInvalidate registers a function called whenever a frame change or a
// value override changed what the player draws.
func WithInvalidate(fn func()) Option {
	return func(o *options) {
		o.invalidate = fn
	}
}

// WithImageProvider sets the source of image assets that are not embedded
// in the document. See FSImages.
func WithImageProvider(p scene.ImageProvider) Option {
	return func(o *options) {
		o.images = p
	}
}

// WithLogger sets the logger of the player and its scene.
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

func (o *options) sceneOptions() []scene.Option {
	opts := []scene.Option{scene.WithLogger(o.log())}
	if o.invalidate != nil {
		opts = append(opts, scene.WithInvalidate(o.invalidate))
	}
	if o.images != nil {
		opts = append(opts, scene.WithImageProvider(o.images))
	}
	return opts
}
