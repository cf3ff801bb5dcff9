package corpus

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// DefaultURL lists the personal names of the Celtic-speaking peoples.
const DefaultURL = "https://www.asnc.cam.ac.uk/personalnames/search.php?s_name=@"

// DefaultTimeout bounds a single corpus fetch.
const DefaultTimeout = 10 * time.Second

// Provider supplies training entries.
type Provider interface {
	// Names returns the provider's entries, normalized to lowercase letters.
	Names(ctx context.Context) ([]string, error)
}

// HTTPProvider fetches an HTML document and extracts the names matched by a
// Selector.
type HTTPProvider struct {
	url            string
	selector       Selector
	foldDiacritics bool
	client         *http.Client
	logger         *slog.Logger
}

// HTTPOption configures an HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithClient sets the HTTP client used for fetching.
// Default: an http.Client with DefaultTimeout.
func WithClient(client *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		if client != nil {
			p.client = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(p *HTTPProvider) {
		if timeout > 0 {
			p.client = &http.Client{Timeout: timeout}
		}
	}
}

// WithFoldDiacritics strips combining marks from extracted names.
func WithFoldDiacritics(fold bool) HTTPOption {
	return func(p *HTTPProvider) { p.foldDiacritics = fold }
}

// WithHTTPLogger sets the provider's logger. By default, all logs are discarded.
func WithHTTPLogger(logger *slog.Logger) HTTPOption {
	return func(p *HTTPProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewHTTPProvider creates a provider for url using sel to find names.
func NewHTTPProvider(url string, sel Selector, opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		url:      url,
		selector: sel,
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Names fetches the document and returns the extracted names. A non-2xx
// response is an error.
func (p *HTTPProvider) Names(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build request for '%s': %w", p.url, err)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch '%s': %w", p.url, err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch '%s': unexpected status %s", p.url, resp.Status)
	}

	names, err := ExtractNames(resp.Body, p.selector, p.foldDiacritics)
	if err != nil {
		return nil, fmt.Errorf("failed to extract names from '%s': %w", p.url, err)
	}

	p.logger.InfoContext(ctx, "Corpus fetched",
		slog.String("url", p.url),
		slog.String("selector", p.selector.String()),
		slog.Int("names", len(names)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return names, nil
}

// FileProvider reads one entry per line from a local file.
type FileProvider struct {
	Path           string
	FoldDiacritics bool
}

// Names reads and normalizes every line of the file, skipping lines that
// normalize to nothing.
func (p *FileProvider) Names(_ context.Context) ([]string, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	return ReadNames(f, p.FoldDiacritics)
}

// ReadNames normalizes each line of r and returns the non-empty results.
func ReadNames(r io.Reader, foldDiacritics bool) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if name := Normalize(scanner.Text(), foldDiacritics); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return names, nil
}

// CachedProvider serves a source's corpus from a Store, falling back to the
// inner provider on a miss and caching what it returns.
type CachedProvider struct {
	inner   Provider
	store   *Store
	source  string
	refresh bool
	logger  *slog.Logger
}

// NewCachedProvider wraps inner, caching its output in store under source.
// With refresh set the cache is bypassed and overwritten.
func NewCachedProvider(inner Provider, store *Store, source string, refresh bool) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		store:   store,
		source:  source,
		refresh: refresh,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the CachedProvider. By default, all logs are discarded.
func (p *CachedProvider) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Names returns the cached corpus when present and non-empty, otherwise it
// fetches from the inner provider and stores the result. A failure to write
// the cache is logged but does not fail the call.
func (p *CachedProvider) Names(ctx context.Context) ([]string, error) {
	if !p.refresh {
		names, err := p.store.LoadEntries(ctx, p.source)
		switch {
		case err == nil && len(names) > 0:
			p.logger.DebugContext(ctx, "Corpus served from cache",
				slog.String("source", p.source),
				slog.Int("names", len(names)),
			)
			return names, nil
		case err != nil && !errors.Is(err, ErrNotCached):
			return nil, fmt.Errorf("failed to read cached corpus: %w", err)
		}
	}

	names, err := p.inner.Names(ctx)
	if err != nil {
		return nil, err
	}
	if err = p.store.SaveEntries(ctx, p.source, names); err != nil {
		p.logger.WarnContext(ctx, "Failed to cache corpus",
			slog.String("source", p.source),
			slog.Any("error", err),
		)
	}
	return names, nil
}
