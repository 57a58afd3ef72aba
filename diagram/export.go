package diagram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/annotated"
	"github.com/gogpu/ug/backend"
	"github.com/gogpu/ug/block"
	"github.com/gogpu/ug/config"
)

// Render is a diagram built for one set of options. Its pages can be
// written any number of times; each write uses a fresh backend.
type Render struct {
	d     *Diagram
	opts  config.Options
	pages Builder
	style annotated.Style
}

// NewRender builds the pages of d.
func NewRender(ctx context.Context, d *Diagram, opts config.Options) (*Render, error) {
	if !backend.IsRegistered(opts.Format()) {
		_, err := backend.New(opts.Format())
		return nil, fmt.Errorf("diagram: %w", err)
	}
	b, err := NewBuilder(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	return &Render{d: d, opts: opts, pages: b, style: skinOf(d, opts).Style()}, nil
}

// Pages returns the number of pages.
func (r *Render) Pages() int { return r.pages.Pages() }

// Extension returns the file name suffix of the output format.
func (r *Render) Extension() string {
	be, err := backend.New(r.opts.Format())
	if err != nil {
		return r.opts.Format()
	}
	return be.Extension()
}

// Page returns page i decorated with the annotations and the margins
// of the options.
func (r *Render) Page(i int) (block.Block, error) {
	if i < 0 || i >= r.pages.Pages() {
		return nil, fmt.Errorf("%w: %d of %d", ErrPage, i, r.pages.Pages())
	}
	blk := annotated.NewWorker(r.d.Annotations, r.style).AddAll(r.pages.Page(i))
	return block.Margin(blk, r.opts.Margins()), nil
}

// WritePage draws page i and writes it to w. The page is measured once;
// the backend is always ended, so partial output is flushed even when
// drawing failed or panicked.
func (r *Render) WritePage(w io.Writer, i int) (err error) {
	blk, err := r.Page(i)
	if err != nil {
		return err
	}
	be, err := backend.New(r.opts.Format())
	if err != nil {
		return err
	}
	sb := r.opts.Bounder()
	dim := blk.Dimension(sb)
	settings := r.opts.Settings(r.d.Source, r.d.Annotations.Title.String())
	if err := be.Begin(dim, settings); err != nil {
		return fmt.Errorf("diagram: begin %s page: %w", r.opts.Format(), err)
	}

	g := ug.NewGraphic(be, sb,
		ug.WithMapper(r.opts.Mapper()),
		ug.WithBoundsCollection(r.opts.CollectBounds()),
	)
	defer func() {
		if endErr := be.End(w, g.Bounds()); endErr != nil || err != nil {
			err = fmt.Errorf("diagram: %s page %d: %w", r.opts.Format(), i, errors.Join(err, endErr))
		}
	}()
	blk.DrawU(g)
	if err := g.Finish(); err != nil {
		return err
	}
	ug.Logger().Debug("diagram: page drawn",
		slog.String("format", r.opts.Format()),
		slog.Int("page", i),
		slog.Float64("width", dim.W),
		slog.Float64("height", dim.H),
		slog.Int("shapes", g.Drawn()))
	return nil
}

// Export renders one page of d to w.
func Export(ctx context.Context, w io.Writer, d *Diagram, page int, opts config.Options) error {
	r, err := NewRender(ctx, d, opts)
	if err != nil {
		return err
	}
	return r.WritePage(w, page)
}

// WriteFile writes page i to path through a temporary file in the same
// directory, renamed on success and removed on failure or panic.
func (r *Render) WriteFile(path string, i int) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("diagram: %w", err)
	}
	renamed := false
	defer func() {
		if !renamed {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if err := r.WritePage(f, i); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("diagram: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("diagram: %w", err)
	}
	renamed = true
	return nil
}

// ExportFile renders one page of d to path.
func ExportFile(ctx context.Context, path string, d *Diagram, page int, opts config.Options) error {
	r, err := NewRender(ctx, d, opts)
	if err != nil {
		return err
	}
	return r.WriteFile(path, page)
}

// PageName returns the file name of page i: base.ext for the first
// page, base_NNN.ext for the others.
func PageName(base, ext string, i int) string {
	if i == 0 {
		return base + "." + ext
	}
	return fmt.Sprintf("%s_%03d.%s", base, i, ext)
}

// Job is one diagram of a batch.
type Job struct {
	Diagram *Diagram
	// Base is the output path without the extension.
	Base    string
	Options config.Options
}

// RenderBatch renders every page of every job to files named by
// PageName, at most limit jobs at a time (no bound when limit <= 0).
// Each job has its own builders and backends. The first error cancels
// the jobs not yet started and is returned with the files written so
// far.
func RenderBatch(ctx context.Context, jobs []Job, limit int) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	written := make([][]string, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := NewRender(ctx, job.Diagram, job.Options)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Base, err)
			}
			ext := r.Extension()
			for p := range r.Pages() {
				name := PageName(job.Base, ext, p)
				if err := r.WriteFile(name, p); err != nil {
					return fmt.Errorf("%s: %w", job.Base, err)
				}
				written[i] = append(written[i], name)
			}
			ug.Logger().Info("diagram: rendered",
				slog.String("base", job.Base),
				slog.Int("pages", r.Pages()),
				slog.String("format", job.Options.Format()))
			return nil
		})
	}
	err := g.Wait()
	var files []string
	for _, w := range written {
		files = append(files, w...)
	}
	return files, err
}
