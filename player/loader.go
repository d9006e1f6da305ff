package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/cache"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/parse"
)

// Loader parses documents off the playback goroutine and shares the
// results through a cache. Concurrent loads of the same key parse once.
//
// A Loader is safe for concurrent use.
type Loader struct {
	cache cache.Cache
	opts  []parse.Option
	group singleflight.Group
}

// NewLoader creates a loader backed by c. A nil cache caches nothing.
func NewLoader(c cache.Cache, opts ...parse.Option) *Loader {
	if c == nil {
		c = cache.New(cache.None, 0)
	}
	return &Loader{cache: c, opts: opts}
}

// Cache returns the cache of the loader.
func (l *Loader) Cache() cache.Cache {
	return l.cache
}

// Load returns the composition cached under key, or parses data and caches
// the result. When ctx is cancelled, Load returns ctx.Err() and nothing is
// cached.
func (l *Loader) Load(ctx context.Context, key string, data []byte) (*model.Composition, error) {
	return l.load(ctx, key, func(ctx context.Context) (*model.Composition, error) {
		return parse.CompositionContext(ctx, data, l.opts...)
	})
}

// LoadReader is like Load but reads the document from r when it is not
// cached.
func (l *Loader) LoadReader(ctx context.Context, key string, r io.Reader) (*model.Composition, error) {
	return l.load(ctx, key, func(ctx context.Context) (*model.Composition, error) {
		return parse.Reader(ctx, r, l.opts...)
	})
}

// LoadFile loads a document from disk, keyed by its absolute path.
func (l *Loader) LoadFile(ctx context.Context, name string) (*model.Composition, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	return l.load(ctx, abs, func(ctx context.Context) (*model.Composition, error) {
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("player: %w", err)
		}
		return parse.CompositionContext(ctx, data, l.opts...)
	})
}

// LoadAll loads files concurrently with at most workers parses in flight
// (unbounded when workers <= 0). Results are in the order of names. The
// first failure cancels the remaining loads and is returned.
func (l *Loader) LoadAll(ctx context.Context, names []string, workers int) ([]*model.Composition, error) {
	out := make([]*model.Composition, len(names))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, name := range names {
		g.Go(func() error {
			comp, err := l.LoadFile(ctx, name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			out[i] = comp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) load(ctx context.Context, key string, parseFn func(context.Context) (*model.Composition, error)) (*model.Composition, error) {
	log := motion.Logger()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if comp, ok := l.cache.Get(key); ok {
			log.Debug("composition cache hit", "key", key)
			return comp, nil
		}

		ch := l.group.DoChan(key, func() (any, error) {
			comp, err := parseFn(ctx)
			if err != nil {
				return nil, err
			}
			l.cache.Put(key, comp)
			return comp, nil
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				// The parse was started by a caller that gave up. Ours is
				// still live, so try again.
				if isCancel(res.Err) && ctx.Err() == nil {
					continue
				}
				return nil, res.Err
			}
			return res.Val.(*model.Composition), nil
		}
	}
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
