package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/lvillar/deckforge"
)

// Default fetcher limits.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 20 << 20
	DefaultRate     = 4 // requests per second
	DefaultBurst    = 4
)

// ErrLocalFilesDisabled is returned for file references when the fetcher
// does not allow local files.
var ErrLocalFilesDisabled = errors.New("assets: local files are disabled")

// Fetcher retrieves raw image bytes from http(s) URLs, data: URIs and local
// files. Network requests are paced by a token bucket.
type Fetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	maxBytes   int64
	allowFiles bool
	userAgent  string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithRateLimit paces network requests to rps with the given burst. A
// non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) FetcherOption {
	return func(f *Fetcher) {
		if rps <= 0 {
			f.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMaxBytes caps the size of a fetched image.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithLocalFiles allows or forbids file paths and file:// URLs.
func WithLocalFiles(allow bool) FetcherOption {
	return func(f *Fetcher) { f.allowFiles = allow }
}

// WithUserAgent sets the User-Agent of HTTP requests.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) { f.userAgent = ua }
}

// NewFetcher returns a fetcher with default limits. Local files are
// allowed unless disabled with WithLocalFiles.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:     &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRate), DefaultBurst),
		maxBytes:   DefaultMaxBytes,
		allowFiles: true,
		userAgent:  "deckforge/1.0",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the bytes behind ref. Every failure wraps
// deckforge.ErrImageUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	var (
		data []byte
		err  error
	)
	switch {
	case ref == "":
		err = errors.New("empty reference")
	case strings.HasPrefix(ref, "data:"):
		data, err = decodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		data, err = f.fetchHTTP(ctx, ref)
	default:
		data, err = f.readFile(ref)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", deckforge.ErrImageUnavailable, shorten(ref), err)
	}
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, ref string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return readLimited(resp.Body, f.maxBytes)
}

func (f *Fetcher) readFile(ref string) ([]byte, error) {
	if !f.allowFiles {
		return nil, ErrLocalFilesDisabled
	}
	p := ref
	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return nil, err
		}
		p = u.Path
	}
	file, err := os.Open(filepath.Clean(p))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readLimited(file, f.maxBytes)
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("image larger than %d bytes", max)
	}
	return data, nil
}

func decodeDataURI(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		return data, err
	}
	s, err := url.PathUnescape(payload)
	return []byte(s), err
}

func shorten(ref string) string {
	if len(ref) > 80 {
		return ref[:77] + "..."
	}
	return ref
}
