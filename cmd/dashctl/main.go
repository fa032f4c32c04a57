package main

import (
	"context"

	"github.com/alecthomas/kong"
)

type cli struct {
	Config   string `type:"path" help:"Path to the dashctl YAML config file."`
	LogLevel string `name:"log-level" help:"Override the configured log level (debug, info, warn, error)."`

	Convert  convertCmd  `cmd:"" help:"Convert a stored dashboard record to the current schema."`
	Preview  previewCmd  `cmd:"" help:"Render an HTML chart summarizing a dashboard layout."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a widget config entry to a widget manifest."`
	Serve    serveCmd    `cmd:"" help:"Serve the dashboard view API over HTTP."`
}

// runtime carries the resolved config into subcommands.
type runtime struct {
	ctx context.Context
	cfg Config
}

func main() {
	var root cli
	kctx := kong.Parse(&root,
		kong.Name("dashctl"),
		kong.Description("Dashboard record conversion, preview, and view API server."),
		kong.UsageOnError(),
	)
	cfg, err := LoadConfig(root.Config)
	kctx.FatalIfErrorf(err)
	if root.LogLevel != "" {
		cfg.LogLevel = root.LogLevel
	}
	err = kctx.Run(&runtime{ctx: context.Background(), cfg: cfg})
	kctx.FatalIfErrorf(err)
}
