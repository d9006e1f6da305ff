// Package player loads animation documents and plays them.
//
// A Loader parses documents, optionally on several goroutines at once,
// and keeps the immutable compositions in a cache:
//
//	l := player.NewLoader(cache.New(cache.Strong, 32))
//	comp, err := l.LoadFile(ctx, "intro.json")
//
// A Player binds one composition to a scene and drives it by frame or by
// progress within a playback range:
//
//	p, err := player.New(comp, player.WithImageProvider(player.FSImages(os.DirFS("images"))))
//	p.SetMinAndMaxFrameByMarker("loop")
//	for f := p.MinFrame(); f <= p.MaxFrame(); f++ {
//	    p.SetFrame(f)
//	    p.Draw(surface, motion.Identity(), 1)
//	}
//	p.Release()
//
// Several players may share a composition. Each owns its scene and none of
// them ever writes to the composition.
package player
