// Command slidemap extracts spatial component maps from PowerPoint files.
//
// Usage:
//
//	slidemap process [-o out.json] [-previews dir] [-no-suppress] deck.pptx
//	slidemap serve [-config config.yaml] [-addr :8080] [-data dir]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tsawler/slidemap"
	"github.com/tsawler/slidemap/config"
	"github.com/tsawler/slidemap/render"
	"github.com/tsawler/slidemap/server"
	"github.com/tsawler/slidemap/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "process":
		err = runProcess(os.Args[2:], logger)
	case "serve":
		err = runServe(os.Args[2:], logger)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `slidemap extracts spatial component maps from PowerPoint files.

Usage:

  slidemap process [-o out.json] [-previews dir] [-no-suppress] deck.pptx
      Parse a presentation and write its spatial map as JSON.

  slidemap serve [-config config.yaml] [-addr :8080] [-data dir]
      Run the upload and editing web server.
`)
}

func runProcess(args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	out := fs.String("o", "", "output path for the spatial map JSON (default stdout)")
	previews := fs.String("previews", "", "also render schematic slide previews into this directory")
	noSuppress := fs.Bool("no-suppress", false, "keep badge background shapes instead of relabeling them")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	extractor := slidemap.Open(fs.Arg(0))
	if *noSuppress {
		extractor.DisableSuppression()
	}

	data, err := extractor.JSON()
	if err != nil {
		return err
	}

	if *out == "" {
		fmt.Println(string(data))
	} else if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}

	if *previews != "" {
		mapping, err := extractor.Map()
		if err != nil {
			return err
		}
		r := render.New(render.Config{})
		if err := r.RenderAll(mapping, *previews); err != nil {
			return fmt.Errorf("rendering previews: %w", err)
		}
		logger.Info("previews written", "dir", *previews, "slides", len(mapping.Slides))
	}
	return nil
}

func runServe(args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config file")
	addr := fs.String("addr", "", "listen address (overrides config)")
	dataDir := fs.String("data", "", "job storage directory (overrides config)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	st, err := store.Open(store.Config{Root: cfg.DataDir, Logger: logger})
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := server.New(cfg, st, logger)
	if err != nil {
		return err
	}
	return srv.ListenAndServe()
}
