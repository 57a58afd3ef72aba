// Command ugrender renders YAML diagram files.
//
// Usage:
//
//	ugrender [flags] diagram.yaml...
//
// Every page of every diagram is written next to the input (or in -o)
// as <name>.<ext>, then <name>_001.<ext> and so on.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/backend"
	_ "github.com/gogpu/ug/backend/debug"
	_ "github.com/gogpu/ug/backend/eps"
	_ "github.com/gogpu/ug/backend/raster"
	_ "github.com/gogpu/ug/backend/svg"
	"github.com/gogpu/ug/config"
	"github.com/gogpu/ug/diagram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ugrender:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ugrender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		format   = fs.String("format", "png", "output format: "+strings.Join(backend.Formats(), ", "))
		outDir   = fs.String("o", "", "output directory (default: next to each input)")
		skinPath = fs.String("skin", "", "YAML skin file")
		scale    = fs.Float64("scale", 1, "scale factor")
		dpi      = fs.Float64("dpi", 96, "raster resolution")
		metadata = fs.Bool("metadata", false, "embed the diagram source in the output")
		mapper   = fs.String("mapper", "", "color mapper: identity, monochrome or reverse")
		noShadow = fs.Bool("noshadow", false, "draw without drop shadows")
		jobs     = fs.Int("j", runtime.NumCPU(), "diagrams rendered at the same time")
		verbose  = fs.Bool("v", false, "log debug diagnostics, every drawn page included")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("no input files")
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	ug.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	m, err := config.ParseMapper(*mapper)
	if err != nil {
		return err
	}
	opts := []config.Option{
		config.WithFormat(*format),
		config.WithScale(*scale),
		config.WithDPI(*dpi),
		config.WithMetadata(*metadata),
		config.WithMapper(m),
		config.WithShadowing(!*noShadow),
	}
	if *skinPath != "" {
		skin, err := config.LoadSkin(*skinPath)
		if err != nil {
			return err
		}
		opts = append(opts, config.WithSkin(skin))
	}
	base := config.New(opts...)
	if !backend.IsRegistered(base.Format()) {
		return fmt.Errorf("unknown format %q, want one of %s", base.Format(), strings.Join(backend.Formats(), ", "))
	}

	var batch []diagram.Job
	for _, in := range fs.Args() {
		d, err := diagram.Load(in)
		if err != nil {
			return err
		}
		dir := filepath.Dir(in)
		if *outDir != "" {
			dir = *outDir
		}
		name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		batch = append(batch, diagram.Job{Diagram: d, Base: filepath.Join(dir, name), Options: base})
	}
	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return err
		}
	}

	files, err := diagram.RenderBatch(ctx, batch, *jobs)
	for _, f := range files {
		fmt.Fprintln(stdout, f)
	}
	return err
}
