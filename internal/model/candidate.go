// Package model defines the core data types for the logo fetcher.
// In Go, we use structs instead of classes. Struct tags (the `json:"..."` and
// `db:"..."` annotations) tell serialization libraries how to map fields.
package model

import (
	"strings"
	"time"
)

// Candidate is an accepted logo record produced by the metadata-gating stage.
// Immutable once created: the pipeline only appends candidates, never mutates
// them. Order matters — candidates keep the order in which their media titles
// appeared in the article, and the 1-based position drives the stored
// filename (logo_<n>.<ext>).
type Candidate struct {
	URL      string // resolved download URL from Commons imageinfo
	Width    int
	Height   int
	MIME     string // e.g. "image/png", "image/svg+xml"
	Bytes    int64  // reported file size in bytes
	Filename string // original media title with the "File:" prefix stripped
	License  string // Commons extmetadata LicenseShortName, may be empty
	Artist   string // Commons extmetadata Artist, may be empty
}

// Ext returns the storage extension for the candidate: "png" or "svg".
// The acceptance rule guarantees the MIME type contains one of the two.
func (c *Candidate) Ext() string {
	if strings.Contains(c.MIME, "png") {
		return "png"
	}
	return "svg"
}

// DownloadStatus records the outcome of one candidate download.
type DownloadStatus string

const (
	StatusPending    DownloadStatus = "pending"
	StatusDownloaded DownloadStatus = "downloaded"
	StatusFailed     DownloadStatus = "failed"
)

// DownloadResult is the per-candidate outcome handed to the catalog and the
// run summary. Ephemeral: it exists only to be counted and recorded.
type DownloadResult struct {
	Candidate *Candidate
	Path      string // where the file landed, empty on failure
	Written   int64  // bytes written to disk
	Status    DownloadStatus
	Err       error
}

// CatalogEntry is one row of the SQLite catalog: an accepted candidate plus
// its download outcome. Each field has a `db:` tag used by sqlx to scan
// database rows.
type CatalogEntry struct {
	ID         int64          `db:"id" json:"id"`
	Company    string         `db:"company" json:"company"`
	Article    string         `db:"article" json:"article"`
	Position   int            `db:"position" json:"position"` // 1-based candidate index
	Filename   string         `db:"filename" json:"filename"`
	URL        string         `db:"url" json:"url"`
	MIME       string         `db:"mime" json:"mime"`
	Width      int            `db:"width" json:"width"`
	Height     int            `db:"height" json:"height"`
	ByteSize   int64          `db:"byte_size" json:"byte_size"`
	License    string         `db:"license" json:"license"`
	Artist     string         `db:"artist" json:"artist"`
	Status     DownloadStatus `db:"status" json:"status"`
	StoredPath string         `db:"stored_path" json:"stored_path"`
	Error      string         `db:"error" json:"error,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// RunStats is the single run-scoped counter structure. It is threaded through
// calls explicitly — no package-level state — and updated only by the one
// execution goroutine, so it needs no locking.
type RunStats struct {
	CompaniesProcessed int
	CandidatesFound    int
	Downloaded         int
}

// SuccessRate returns the download success percentage, or 0 when no
// candidates were found.
func (s *RunStats) SuccessRate() float64 {
	if s.CandidatesFound == 0 {
		return 0
	}
	return float64(s.Downloaded) / float64(s.CandidatesFound) * 100
}
