package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// FileSystem handles writing downloaded logo files on disk.
// Logos are stored at: {baseDir}/{SANITIZED_COMPANY}/logo_{n}.{ext}
type FileSystem struct {
	baseDir string
}

// NewFileSystem creates a new FileSystem storage, ensuring the base directory exists.
func NewFileSystem(baseDir string) (*FileSystem, error) {
	// MkdirAll creates the directory and all parents (like mkdir -p).
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating logo directory: %w", err)
	}
	return &FileSystem{baseDir: baseDir}, nil
}

// BaseDir returns the root output directory.
func (fs *FileSystem) BaseDir() string {
	return fs.baseDir
}

var (
	unsafeChars = regexp.MustCompile(`[^\w\s-]`)
	separators  = regexp.MustCompile(`[-\s]+`)
)

// SanitizeName turns a free-text company name into a safe directory name:
// punctuation is removed, runs of spaces and hyphens collapse to a single
// underscore, and the result is capped at 50 characters.
func SanitizeName(name string) string {
	safe := unsafeChars.ReplaceAllString(name, "")
	safe = separators.ReplaceAllString(safe, "_")
	if len(safe) > 50 {
		safe = safe[:50]
	}
	return safe
}

// CompanyDir returns the directory for a company's logos.
func (fs *FileSystem) CompanyDir(company string) string {
	return filepath.Join(fs.baseDir, SanitizeName(company))
}

// LogoPath returns the filesystem path for a company's nth accepted logo.
// Numbering is 1-based in candidate order.
func (fs *FileSystem) LogoPath(company string, n int, ext string) string {
	return filepath.Join(fs.CompanyDir(company), fmt.Sprintf("logo_%d.%s", n, ext))
}

// Write saves logo bytes verbatim, creating the company directory if needed.
// No re-encoding or transformation — the file lands exactly as downloaded.
func (fs *FileSystem) Write(company string, n int, ext string, data []byte) (string, error) {
	dir := fs.CompanyDir(company)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating company directory: %w", err)
	}

	path := fs.LogoPath(company, n, ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing logo file: %w", err)
	}
	return path, nil
}

// Exists checks if a logo file exists on disk.
func (fs *FileSystem) Exists(company string, n int, ext string) bool {
	_, err := os.Stat(fs.LogoPath(company, n, ext))
	return err == nil
}
