package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/votewallet/logofetch/internal/model"
	"github.com/votewallet/logofetch/internal/storage"
)

// Downloader retrieves raw image bytes from a resolved URL, returning the
// body and its content type.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, string, error)
}

// Fetcher runs the whole batch: one company at a time through the pipeline,
// then each accepted candidate through download and persistence. Strictly
// sequential — the upstream services rate-limit aggressively, and the
// politeness delays between calls are a correctness requirement, not an
// optimization target. Never parallelize this.
type Fetcher struct {
	pipeline   *Pipeline
	downloader Downloader
	fs         *storage.FileSystem
	catalog    storage.Catalog // nil disables the catalog
	// Mandatory politeness pauses: downloadDelay after every download
	// attempt (success or failure), companyDelay after every company.
	downloadDelay time.Duration
	companyDelay  time.Duration
	logger        *zap.Logger
}

// NewFetcher wires a fetcher. catalog may be nil.
func NewFetcher(
	pipeline *Pipeline,
	downloader Downloader,
	fs *storage.FileSystem,
	catalog storage.Catalog,
	downloadDelay, companyDelay time.Duration,
	logger *zap.Logger,
) *Fetcher {
	return &Fetcher{
		pipeline:      pipeline,
		downloader:    downloader,
		fs:            fs,
		catalog:       catalog,
		downloadDelay: downloadDelay,
		companyDelay:  companyDelay,
		logger:        logger,
	}
}

// Run processes every company in order and returns the aggregated run stats.
// Per-item failures are logged and counted, never fatal; the only error Run
// returns is context cancellation.
func (f *Fetcher) Run(ctx context.Context, companies []string) (*model.RunStats, error) {
	stats := &model.RunStats{}

	for _, company := range companies {
		if err := f.processCompany(ctx, company, stats); err != nil {
			return stats, err
		}
		if err := pause(ctx, f.companyDelay); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// processCompany runs the pipeline for one company and downloads each
// accepted candidate. Returns an error only when the context is done.
func (f *Fetcher) processCompany(ctx context.Context, company string, stats *model.RunStats) error {
	stats.CompaniesProcessed++

	article, candidates := f.pipeline.Run(ctx, company)
	if len(candidates) == 0 {
		f.logger.Info("no logos found", zap.String("company", company))
		return ctx.Err()
	}

	stats.CandidatesFound += len(candidates)
	f.logger.Info("logos found",
		zap.String("company", company),
		zap.Int("count", len(candidates)),
	)

	for i, cand := range candidates {
		result := f.downloadOne(ctx, company, article, i+1, cand)
		if result.Status == model.StatusDownloaded {
			stats.Downloaded++
			f.logger.Info("downloaded",
				zap.String("path", result.Path),
				zap.Int64("bytes", result.Written),
				zap.String("original", cand.Filename),
			)
		} else {
			f.logger.Warn("download failed",
				zap.String("company", company),
				zap.String("file", cand.Filename),
				zap.Error(result.Err),
			)
		}

		if err := pause(ctx, f.downloadDelay); err != nil {
			return err
		}
	}

	return ctx.Err()
}

// downloadOne fetches a single candidate and persists it verbatim as
// logo_<n>.<ext>. The catalog entry is created before the attempt and its
// outcome recorded after; catalog errors are logged but never fail the
// download itself.
func (f *Fetcher) downloadOne(ctx context.Context, company, article string, n int, cand *model.Candidate) *model.DownloadResult {
	entry := f.recordCandidate(ctx, company, article, n, cand)

	data, _, err := f.downloader.Download(ctx, cand.URL)
	if err != nil {
		f.recordOutcome(ctx, entry, model.StatusFailed, "", err.Error())
		return &model.DownloadResult{Candidate: cand, Status: model.StatusFailed, Err: err}
	}

	path, err := f.fs.Write(company, n, cand.Ext(), data)
	if err != nil {
		f.recordOutcome(ctx, entry, model.StatusFailed, "", err.Error())
		return &model.DownloadResult{Candidate: cand, Status: model.StatusFailed, Err: err}
	}

	f.recordOutcome(ctx, entry, model.StatusDownloaded, path, "")
	return &model.DownloadResult{
		Candidate: cand,
		Path:      path,
		Written:   int64(len(data)),
		Status:    model.StatusDownloaded,
	}
}

func (f *Fetcher) recordCandidate(ctx context.Context, company, article string, n int, cand *model.Candidate) *model.CatalogEntry {
	if f.catalog == nil {
		return nil
	}
	entry := &model.CatalogEntry{
		Company:  company,
		Article:  article,
		Position: n,
		Filename: cand.Filename,
		URL:      cand.URL,
		MIME:     cand.MIME,
		Width:    cand.Width,
		Height:   cand.Height,
		ByteSize: cand.Bytes,
		License:  cand.License,
		Artist:   cand.Artist,
		Status:   model.StatusPending,
	}
	if err := f.catalog.Create(ctx, entry); err != nil {
		f.logger.Warn("catalog write failed", zap.Error(err))
		return nil
	}
	return entry
}

func (f *Fetcher) recordOutcome(ctx context.Context, entry *model.CatalogEntry, status model.DownloadStatus, path, errMsg string) {
	if f.catalog == nil || entry == nil {
		return
	}
	if err := f.catalog.SetOutcome(ctx, entry.ID, status, path, errMsg); err != nil {
		f.logger.Warn("catalog update failed", zap.Int64("id", entry.ID), zap.Error(err))
	}
}

// pause blocks for d or until the context is cancelled. Zero and negative
// delays return immediately, which keeps tests fast.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
