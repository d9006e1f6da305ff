package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/player"
)

// app is the state shared by all commands of one invocation.
type app struct {
	cfg    config
	log    *slog.Logger
	loader *player.Loader
}

// newRootCmd builds the command tree. stderr receives log output.
func newRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{cfg: defaultConfig()}

	root := &cobra.Command{
		Use:   "motionctl",
		Short: "Inspect and render vector animation documents",
		Long: `motionctl parses JSON vector animation documents, reports what they contain,
checks them for problems and exports single frames as SVG.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, stderr)
		},
	}
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.String("config", "", "YAML configuration file")
	f.String("log-level", "", "log level: debug, info, warn or error")
	f.String("cache-policy", "", "composition cache: strong, weak or none")
	f.Int("cache-capacity", 0, "compositions kept by the strong cache")
	f.Int("workers", 0, "documents parsed concurrently")

	root.AddCommand(
		newInfoCmd(a),
		newValidateCmd(a),
		newRenderCmd(a),
		newBoundsCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the config file, applies flag overrides and installs the
// logger and the loader.
func (a *app) setup(cmd *cobra.Command, stderr io.Writer) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("cache-policy") {
		cfg.CachePolicy, _ = flags.GetString("cache-policy")
	}
	if flags.Changed("cache-capacity") {
		cfg.CacheCapacity, _ = flags.GetInt("cache-capacity")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Lookup("samples") != nil && flags.Changed("samples") {
		cfg.Samples, _ = flags.GetInt("samples")
	}
	if flags.Lookup("background") != nil && flags.Changed("background") {
		cfg.Background, _ = flags.GetString("background")
	}
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	level, _ := cfg.level()
	a.cfg = cfg
	a.log = newLogger(stderr, level)
	motion.SetLogger(a.log)
	a.loader = player.NewLoader(cfg.cache())
	a.log.Debug("configured", "cache", cfg.CachePolicy, "workers", cfg.Workers)
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}
