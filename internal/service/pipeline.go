// Package service contains the core business logic for the logo pipeline.
// A company name flows through four stages:
//
//	resolve  — try name variants until a Wikipedia article exists
//	list     — enumerate the media titles embedded in that article
//	classify — keep only titles that look like company logos
//	gate     — fetch Commons metadata and apply the format/size rule
//
// Survivors come out as an ordered candidate list, ready to download.
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/votewallet/logofetch/internal/classify"
	"github.com/votewallet/logofetch/internal/model"
	"github.com/votewallet/logofetch/internal/wiki"
)

// MediaSource is the slice of the wiki client the pipeline needs.
// Accepting an interface here keeps the pipeline testable with a fake source.
type MediaSource interface {
	ResolvePage(ctx context.Context, title string) (string, bool, error)
	ListImages(ctx context.Context, title string) ([]string, error)
	ImageInfo(ctx context.Context, fileTitle string) (*wiki.ImageInfo, error)
}

// Pipeline turns a company name into an ordered list of accepted logo
// candidates. It holds no mutable state — safe to reuse across companies.
type Pipeline struct {
	source      MediaSource
	minSVGWidth int
	logger      *zap.Logger
}

// NewPipeline creates a pipeline over the given media source.
func NewPipeline(source MediaSource, minSVGWidth int, logger *zap.Logger) *Pipeline {
	if minSVGWidth <= 0 {
		minSVGWidth = 100
	}
	return &Pipeline{
		source:      source,
		minSVGWidth: minSVGWidth,
		logger:      logger,
	}
}

// nameVariants builds the ordered list of article titles to try for a company
// name. The list and its order are a deliberate disambiguation heuristic for
// corporate naming conventions — callers rely on reproducible selection, so
// neither may change.
func nameVariants(name string) []string {
	return []string{
		name,
		name + ", Inc.",
		name + " Inc.",
		"The " + name + " Company",
	}
}

// Resolve finds the best-matching article for a company name by trying each
// variant in order and short-circuiting on the first that exists. A lookup
// error counts as "variant does not exist" — the run never aborts over one
// failed existence check.
func (p *Pipeline) Resolve(ctx context.Context, companyName string) (string, bool) {
	for _, variant := range nameVariants(companyName) {
		title, ok, err := p.source.ResolvePage(ctx, variant)
		if err != nil {
			p.logger.Warn("article lookup failed",
				zap.String("title", variant),
				zap.Error(err),
			)
			continue
		}
		if ok {
			return title, true
		}
	}
	return "", false
}

// FetchMetadata queries Commons imageinfo for a media title and applies the
// acceptance rule: PNG at any size, or SVG at least minSVGWidth pixels wide.
// Any failure — transport, malformed response, no record, rule rejection —
// yields (nil, false); the caller just moves on to the next reference.
func (p *Pipeline) FetchMetadata(ctx context.Context, fileTitle string) (*model.Candidate, bool) {
	info, err := p.source.ImageInfo(ctx, fileTitle)
	if err != nil {
		p.logger.Warn("imageinfo query failed",
			zap.String("file", fileTitle),
			zap.Error(err),
		)
		return nil, false
	}
	if info == nil {
		return nil, false
	}

	isPNG := strings.Contains(info.MIME, "png")
	isSVG := strings.Contains(info.MIME, "svg")
	if !isPNG && !(isSVG && info.Width >= p.minSVGWidth) {
		p.logger.Debug("candidate rejected by format/size gate",
			zap.String("file", fileTitle),
			zap.String("mime", info.MIME),
			zap.Int("width", info.Width),
		)
		return nil, false
	}

	return &model.Candidate{
		URL:      info.URL,
		Width:    info.Width,
		Height:   info.Height,
		MIME:     info.MIME,
		Bytes:    info.Size,
		Filename: strings.TrimPrefix(fileTitle, "File:"),
		License:  info.License,
		Artist:   info.Artist,
	}, true
}

// Run executes the full pipeline for one company. Returns the resolved
// article title and the accepted candidates in article order. No early
// termination: every qualifying reference is metadata-checked, since an
// article may embed several legitimate logo variants.
func (p *Pipeline) Run(ctx context.Context, companyName string) (string, []*model.Candidate) {
	p.logger.Info("searching Wikipedia", zap.String("company", companyName))

	article, ok := p.Resolve(ctx, companyName)
	if !ok {
		p.logger.Info("no Wikipedia page found", zap.String("company", companyName))
		return "", nil
	}
	p.logger.Info("found page", zap.String("article", article))

	titles, err := p.source.ListImages(ctx, article)
	if err != nil {
		p.logger.Warn("listing images failed",
			zap.String("article", article),
			zap.Error(err),
		)
		return article, nil
	}
	if len(titles) == 0 {
		p.logger.Info("no images on page", zap.String("article", article))
		return article, nil
	}
	p.logger.Info("scanning images for logos",
		zap.String("article", article),
		zap.Int("count", len(titles)),
	)

	var candidates []*model.Candidate
	for _, title := range titles {
		if !classify.IsLogoFile(title) {
			continue
		}
		p.logger.Debug("potential logo", zap.String("file", title))

		cand, ok := p.FetchMetadata(ctx, title)
		if !ok {
			continue
		}
		p.logger.Info("logo confirmed",
			zap.String("file", cand.Filename),
			zap.Int("width", cand.Width),
			zap.Int("height", cand.Height),
			zap.String("mime", cand.MIME),
		)
		candidates = append(candidates, cand)
	}

	return article, candidates
}
