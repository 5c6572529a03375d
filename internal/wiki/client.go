// Package wiki is the MediaWiki API client used to locate company logos.
// It talks to two endpoints: the English Wikipedia action API (article lookup
// and embedded-image listing) and the Wikimedia Commons action API (imageinfo
// metadata). Binary image downloads go straight to the resolved upload URL.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ImageInfo is one Commons imageinfo record: the resolved download URL plus
// dimensions, MIME type, byte size, and the license fields from extmetadata.
type ImageInfo struct {
	URL     string
	Width   int
	Height  int
	MIME    string
	Size    int64
	License string
	Artist  string
}

// Client issues all outbound HTTP calls. Two http.Clients with different
// timeouts: metadata queries are small and fast, binary downloads are allowed
// to take longer.
type Client struct {
	apiURL     string
	commonsURL string
	userAgent  string
	imageLimit int
	query      *http.Client
	binary     *http.Client
	// limiter caps outbound API queries with a token bucket — the
	// Wikimedia politeness policy asks automated clients to stay slow.
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Options configures a Client. Zero-value fields fall back to defaults.
type Options struct {
	APIURL          string
	CommonsURL      string
	UserAgent       string
	ImageLimit      int
	QueryTimeout    time.Duration
	DownloadTimeout time.Duration
	// MaxQPS caps API queries per second. Zero means the default of 5.
	MaxQPS float64
}

// NewClient creates a client for the given endpoints.
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 15 * time.Second
	}
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = 30 * time.Second
	}
	if opts.ImageLimit <= 0 {
		opts.ImageLimit = 50
	}
	if opts.MaxQPS <= 0 {
		opts.MaxQPS = 5
	}
	return &Client{
		apiURL:     opts.APIURL,
		commonsURL: opts.CommonsURL,
		userAgent:  opts.UserAgent,
		imageLimit: opts.ImageLimit,
		query:      &http.Client{Timeout: opts.QueryTimeout},
		binary:     &http.Client{Timeout: opts.DownloadTimeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.MaxQPS), 1),
		logger:     logger,
	}
}

// queryResponse mirrors the action API envelope. Pages is a map keyed by
// page ID string ("-1" for missing titles in the legacy format).
type queryResponse struct {
	Query struct {
		Pages map[string]apiPage `json:"pages"`
	} `json:"query"`
}

type apiPage struct {
	PageID  int64   `json:"pageid"`
	Title   string  `json:"title"`
	Missing *string `json:"missing"` // present (as "") when the title does not exist
	Images  []struct {
		Title string `json:"title"`
	} `json:"images"`
	ImageInfo []imageInfoRecord `json:"imageinfo"`
}

type imageInfoRecord struct {
	URL         string              `json:"url"`
	Width       int                 `json:"width"`
	Height      int                 `json:"height"`
	MIME        string              `json:"mime"`
	Size        int64               `json:"size"`
	ExtMetadata map[string]extValue `json:"extmetadata"`
}

// extValue holds one extmetadata entry. The value is usually a string but the
// API occasionally returns numbers or booleans, so decode into any.
type extValue struct {
	Value any `json:"value"`
}

func (v extValue) String() string {
	s, _ := v.Value.(string)
	return s
}

// ResolvePage checks whether an article with the given title exists, following
// redirects. Returns the canonical title on success.
func (c *Client) ResolvePage(ctx context.Context, title string) (string, bool, error) {
	resp, err := c.doQuery(ctx, c.apiURL, url.Values{
		"action":    {"query"},
		"format":    {"json"},
		"redirects": {"1"},
		"titles":    {title},
	})
	if err != nil {
		return "", false, err
	}

	for _, page := range resp.Query.Pages {
		if page.Missing != nil || page.PageID == 0 {
			continue
		}
		return page.Title, true, nil
	}
	c.logger.Debug("no article for title", zap.String("title", title))
	return "", false, nil
}

// ListImages returns the media titles embedded in an article, in the order
// the API reports them. One page only, capped at the configured imlimit —
// logos sit in the infobox, so they show up early.
func (c *Client) ListImages(ctx context.Context, title string) ([]string, error) {
	resp, err := c.doQuery(ctx, c.apiURL, url.Values{
		"action":  {"query"},
		"format":  {"json"},
		"titles":  {title},
		"prop":    {"images"},
		"imlimit": {fmt.Sprintf("%d", c.imageLimit)},
	})
	if err != nil {
		return nil, err
	}

	var titles []string
	for _, page := range resp.Query.Pages {
		for _, img := range page.Images {
			titles = append(titles, img.Title)
		}
	}
	return titles, nil
}

// ImageInfo fetches the Commons imageinfo record for a media title. Returns
// nil when the title has no imageinfo (deleted file, bad title, etc.).
func (c *Client) ImageInfo(ctx context.Context, fileTitle string) (*ImageInfo, error) {
	resp, err := c.doQuery(ctx, c.commonsURL, url.Values{
		"action": {"query"},
		"format": {"json"},
		"titles": {fileTitle},
		"prop":   {"imageinfo"},
		"iiprop": {"url|size|mime|extmetadata"},
	})
	if err != nil {
		return nil, err
	}

	for _, page := range resp.Query.Pages {
		if len(page.ImageInfo) == 0 {
			continue
		}
		rec := page.ImageInfo[0]
		return &ImageInfo{
			URL:     rec.URL,
			Width:   rec.Width,
			Height:  rec.Height,
			MIME:    rec.MIME,
			Size:    rec.Size,
			License: rec.ExtMetadata["LicenseShortName"].String(),
			Artist:  rec.ExtMetadata["Artist"].String(),
		}, nil
	}
	c.logger.Debug("no imageinfo record", zap.String("file", fileTitle))
	return nil, nil
}

// Download fetches image bytes from a resolved upload URL. The caller gets
// the raw body and the content type; responses whose content type does not
// look like an image are rejected here.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.binary.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("downloading: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "image") {
		return nil, "", fmt.Errorf("not an image: content type %q", contentType)
	}

	// Limit read to 10MB to prevent memory issues from unexpectedly large files.
	// io.LimitReader wraps a reader with a max byte count — a common safety pattern.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, "", fmt.Errorf("reading body: %w", err)
	}

	return data, contentType, nil
}

func (c *Client) doQuery(ctx context.Context, endpoint string, params url.Values) (*queryResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.query.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &decoded, nil
}
