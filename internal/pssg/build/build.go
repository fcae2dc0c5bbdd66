package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/masajid/masajid-seo/internal/pkg/errors"
	"github.com/masajid/masajid-seo/internal/pssg/config"
	"github.com/masajid/masajid-seo/internal/pssg/entity"
	"github.com/masajid/masajid-seo/internal/pssg/entry"
	"github.com/masajid/masajid-seo/internal/pssg/loader"
	"github.com/masajid/masajid-seo/internal/pssg/output"
	"github.com/masajid/masajid-seo/internal/pssg/render"
	"github.com/masajid/masajid-seo/internal/pssg/taxonomy"
)

// Builder orchestrates the entire static site generation pipeline.
type Builder struct {
	cfg *config.Config
	log *zap.Logger

	// now supplies the sitemap lastmod date.
	now func() time.Time
}

// NewBuilder creates a new builder.
func NewBuilder(cfg *config.Config, log *zap.Logger) *Builder {
	return &Builder{cfg: cfg, log: log, now: time.Now}
}

// Build runs the complete build pipeline. It stops at the first fatal
// error and leaves already written files in place.
func (b *Builder) Build(ctx context.Context) error {
	start := time.Now()
	b.log.Info("building site", zap.String("site", b.cfg.Site.Name), zap.String("output", b.cfg.Paths.Output))

	// 1. Load records
	res, err := loader.New(b.cfg, b.log).Load()
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	records := res.Records
	regions := taxonomy.Regions(records, b.cfg.Regions)
	for _, r := range regions {
		b.log.Debug("region", zap.String("key", r.Key), zap.Int("mosques", r.Count()))
	}

	// 2. Read the entry document produced by the application bundler
	entryPath := filepath.Join(b.cfg.Paths.Output, filepath.FromSlash(b.cfg.Paths.Entry))
	doc, err := os.ReadFile(entryPath)
	if err != nil {
		return errors.Wrap(errors.CodeEntryDocumentMissing,
			fmt.Sprintf("reading entry document %s; build the application bundle first", entryPath), err)
	}

	// 3. Extract asset tags
	assets := entry.ExtractAssets(string(doc))
	if assets.Empty() {
		b.log.Warn("no stylesheet or script tags found in entry document; pages will not load the application",
			zap.String("path", entryPath))
	}

	engine, err := render.NewEngine(b.cfg)
	if err != nil {
		return fmt.Errorf("initializing render engine: %w", err)
	}
	w := output.NewWriter(b.cfg.Paths.Output)
	pages := newPageComposer(b.cfg, engine, assets, records)

	// 4. Enhance the homepage
	if err := b.enhanceHomepage(engine, w, string(doc), regions); err != nil {
		return err
	}

	// 5. Mosque pages
	if err := b.renderMasjidPages(ctx, pages, w, records); err != nil {
		return err
	}

	// 6. Region pages, in declared order
	for _, r := range regions {
		html, err := pages.RegionPage(r)
		if err != nil {
			return err
		}
		if err := w.Write(output.PagePath(r.Path()), html); err != nil {
			return err
		}
	}

	// 7. Sitemap
	sitemapEntries := output.BuildSitemapEntries(b.cfg, records, regions, b.now().Format("2006-01-02"))
	sitemapFiles, err := output.GenerateSitemapFiles(sitemapEntries, b.cfg.Site.BaseURL, b.cfg.Sitemap.MaxURLsPerFile)
	if err != nil {
		return fmt.Errorf("generating sitemap: %w", err)
	}
	for _, f := range sitemapFiles {
		if err := w.Write(f.Filename, f.Content); err != nil {
			return err
		}
	}

	// 8. Crawler supplements
	if b.cfg.Robots.Enabled {
		if err := w.Write("robots.txt", output.GenerateRobotsTxt(b.cfg)); err != nil {
			return err
		}
	}
	if b.cfg.LlmsTxt.Enabled {
		if err := w.Write("llms.txt", output.GenerateLlmsTxt(b.cfg, regions)); err != nil {
			return err
		}
	}

	// 9. Summary
	b.log.Info("build complete",
		zap.Int("mosques", len(records)),
		zap.Int("regions", len(regions)),
		zap.Int("documents", w.Count()),
		zap.Int("urls", len(sitemapEntries)),
		zap.Int("sitemap_files", len(sitemapFiles)),
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
	)
	return nil
}

func (b *Builder) enhanceHomepage(engine *render.Engine, w *output.Writer, doc string, regions []taxonomy.Entry) error {
	block, err := engine.RenderHomeSummary(render.HomeSummaryContext{
		Regions: regions,
		Total:   taxonomy.Total(regions),
		City:    b.cfg.Site.City,
	})
	if err != nil {
		return fmt.Errorf("rendering home summary: %w", err)
	}

	enhanced, ok := entry.Enhance(doc, string(block), b.cfg.Build.MountID)
	if !ok {
		b.log.Warn("mount element not found; entry document left unchanged",
			zap.String("mount_id", b.cfg.Build.MountID))
	}
	return w.Write(b.cfg.Paths.Entry, enhanced)
}

// renderMasjidPages renders one page per mosque on a bounded worker group.
// The first failure cancels the remaining work.
func (b *Builder) renderMasjidPages(ctx context.Context, pages *pageComposer, w *output.Writer, records []*entity.Mosque) error {
	b.log.Info("rendering masjid pages", zap.Int("count", len(records)), zap.Int("workers", b.cfg.Build.Workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Build.Workers)
	for _, m := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			html, err := pages.MasjidPage(m)
			if err != nil {
				return err
			}
			return w.Write(output.PagePath(m.Path()), html)
		})
	}
	return g.Wait()
}
