package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/motion"
)

const slideJSON = `{"v":"5.7.4","fr":30,"ip":0,"op":60,"w":200,"h":100,
"markers":[{"cm":"intro","tm":0,"dr":30}],
"layers":[{"ty":1,"nm":"Box","ind":1,"ip":0,"op":60,"st":0,"sc":"#ff0000","sw":20,"sh":10,
"ks":{"a":{"a":0,"k":[0,0]},"p":{"a":1,"k":[{"t":0,"s":[0,0]},{"t":30,"s":[100,0]}]},
"s":{"a":0,"k":[100,100]},"r":{"a":0,"k":0},"o":{"a":0,"k":100}}}]}`

// oldJSON decodes with an UnsupportedFeature warning for its version.
const oldJSON = `{"v":"4.0.0","fr":30,"ip":0,"op":10,"w":10,"h":10,"layers":[]}`

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Cleanup(func() { motion.SetLogger(nil) })
	var out, errOut bytes.Buffer
	root := newRootCmd(&errOut)
	root.SetOut(&out)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestInfo(t *testing.T) {
	doc := writeFile(t, t.TempDir(), "slide.json", slideJSON)

	out, _, err := run(t, "info", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "200x100")
	assert.Contains(t, out, "0-60 (60 at 30 fps)")
	assert.Contains(t, out, "2s")
	assert.Contains(t, out, "1 (1 solid)")
	assert.Contains(t, out, "intro [0, 30]")
}

func TestInfoMissingFile(t *testing.T) {
	_, stderr, err := run(t, "info", filepath.Join(t.TempDir(), "none.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, stderr, "none.json")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", slideJSON)
	old := writeFile(t, dir, "old.json", oldJSON)
	bad := writeFile(t, dir, "bad.json", `{"layers":[{"ty":3}]}`)

	t.Run("valid", func(t *testing.T) {
		out, _, err := run(t, "validate", good, old)
		require.NoError(t, err)
		assert.Contains(t, out, "ok   "+good)
		assert.Contains(t, out, "(1 warnings)")
		assert.Contains(t, out, "unsupported:")
	})

	t.Run("strict", func(t *testing.T) {
		out, _, err := run(t, "validate", "--strict", good, old)
		require.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out, "FAIL "+old)
	})

	t.Run("malformed", func(t *testing.T) {
		out, _, err := run(t, "validate", "--workers", "1", good, bad)
		require.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out, "ok   "+good)
		assert.Contains(t, out, "FAIL "+bad)
	})
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "slide.json", slideJSON)

	t.Run("stdout", func(t *testing.T) {
		out, _, err := run(t, "render", "--frame", "30", doc)
		require.NoError(t, err)
		assert.Contains(t, out, `<svg`)
		assert.Contains(t, out, `width="200" height="100"`)
		assert.Contains(t, out, `#ff0000`)
	})

	t.Run("file with background and scale", func(t *testing.T) {
		dst := filepath.Join(dir, "frame.svg")
		_, _, err := run(t, "render", "--background", "#00ff00", "--scale", "0.5", "-o", dst, doc)
		require.NoError(t, err)
		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Contains(t, string(data), `width="100" height="50"`)
		assert.Contains(t, string(data), `#00ff00`)
	})

	t.Run("background from config", func(t *testing.T) {
		cfg := writeFile(t, dir, "motion.yaml", "background: \"#0000ff\"\n")
		out, _, err := run(t, "render", "--config", cfg, doc)
		require.NoError(t, err)
		assert.Contains(t, out, `#0000ff`)
	})

	t.Run("bad background", func(t *testing.T) {
		_, _, err := run(t, "render", "--background", "green", doc)
		require.Error(t, err)
	})

	t.Run("unknown marker", func(t *testing.T) {
		_, _, err := run(t, "render", "--marker", "outro", doc)
		require.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := run(t, "render", "--format", "pdf", doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "(have svg)")
	})

	t.Run("help lists formats", func(t *testing.T) {
		out, _, err := run(t, "render", "--help")
		require.NoError(t, err)
		assert.Contains(t, out, "--format, one of:\nsvg)")
	})

	t.Run("frame and progress", func(t *testing.T) {
		_, _, err := run(t, "render", "--frame", "1", "--progress", "0.5", doc)
		require.Error(t, err)
	})
}

func TestBounds(t *testing.T) {
	doc := writeFile(t, t.TempDir(), "slide.json", slideJSON)

	out, _, err := run(t, "bounds", "--samples", "3", doc)
	require.NoError(t, err)
	assert.Equal(t, "x=0 y=0 w=120 h=10\n", out)

	out, _, err = run(t, "bounds", "--marker", "intro", "--samples", "2", "-v", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "frame 0: x=0 y=0 w=20 h=10")
	assert.Contains(t, out, "frame 30: x=100 y=0 w=20 h=10")
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, defaultConfig(), cfg)
	})

	t.Run("file", func(t *testing.T) {
		p := writeFile(t, dir, "ok.yaml", "log_level: debug\ncache_policy: weak\nworkers: 3\nsamples: 5\n")
		cfg, err := loadConfig(p)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "weak", cfg.CachePolicy)
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, 5, cfg.Samples)
	})

	tests := []struct {
		name string
		data string
	}{
		{"bad level", "log_level: loud\n"},
		{"bad policy", "cache_policy: forever\n"},
		{"bad samples", "samples: 0\n"},
		{"negative capacity", "cache_capacity: -1\n"},
		{"not yaml", "log_level: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeFile(t, dir, "bad.yaml", tt.data))
			assert.Error(t, err)
		})
	}

	t.Run("flags override file", func(t *testing.T) {
		p := writeFile(t, dir, "quiet.yaml", "log_level: error\n")
		doc := writeFile(t, dir, "slide.json", slideJSON)
		_, stderr, err := run(t, "--config", p, "--log-level", "debug", "info", doc)
		require.NoError(t, err)
		assert.Contains(t, stderr, "level=DEBUG")
	})

	t.Run("invalid flag value", func(t *testing.T) {
		_, _, err := run(t, "--cache-policy", "forever", "version")
		require.Error(t, err)
	})
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "motionctl version "+motion.Version)
}
