package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/linkspider/internal/extract"
	"github.com/nao1215/linkspider/internal/frontier"
	"github.com/nao1215/linkspider/internal/model"
)

// Fetcher retrieves raw page content. It returns an empty string when the
// page could not be retrieved.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) string

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) string {
	return f(ctx, url)
}

// Indexer processes single pages against a frontier.
// It is safe for concurrent use when the frontier is.
type Indexer struct {
	frontier frontier.Frontier
	fetcher  Fetcher
	logger   *slog.Logger
	now      func() time.Time
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithIndexerLogger sets the logger used for soft failures.
func WithIndexerLogger(logger *slog.Logger) IndexerOption {
	return func(ix *Indexer) {
		ix.logger = logger
	}
}

// NewIndexer creates an Indexer that stores results in f and fetches pages
// with fetch.
func NewIndexer(f frontier.Frontier, fetch Fetcher, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		frontier: f,
		fetcher:  fetch,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.logger == nil {
		ix.logger = slog.Default()
	}
	return ix
}

// IndexResult summarises IndexAndSave.
type IndexResult struct {
	// Links are the links discovered on the page.
	Links []string

	// Saved is the number of new pending records created from Links.
	Saved int
}

// IndexPage fetches page, extracts its metadata, saves it as indexed and
// returns the links found in its content. Discovered links are not
// persisted; see SaveLinks.
//
// When nothing could be fetched or the content has no title, the record is
// left untouched and a *PageError wrapping ErrNoContent or
// extract.ErrTitleMissing is returned. A URL without a scheme://host shape
// fails with extract.ErrMalformedURL after the metadata was saved.
func (ix *Indexer) IndexPage(ctx context.Context, page *model.Page) ([]string, error) {
	content, err := ix.indexMetadata(ctx, page)
	if err != nil {
		return nil, err
	}

	domain, err := extract.DomainOf(page.URL)
	if err != nil {
		return nil, &PageError{URL: page.URL, Err: err}
	}
	return extract.Links(domain, content), nil
}

// IndexAndSave runs IndexPage and then SaveLinks on the discovered links.
// Store errors from SaveLinks are returned together with the partial result.
func (ix *Indexer) IndexAndSave(ctx context.Context, page *model.Page) (IndexResult, error) {
	links, err := ix.IndexPage(ctx, page)
	if err != nil {
		return IndexResult{}, err
	}
	saved, err := ix.SaveLinks(ctx, links)
	return IndexResult{Links: links, Saved: saved}, err
}

// SaveLinks creates a pending record for each link that is not already
// known. The "#fragment" suffix is removed before the existence check and
// the stripped URL is what gets stored. It keeps going after store errors
// and returns them joined.
//
// The check and the insert are separate store calls, so concurrent callers
// can insert the same URL twice.
func (ix *Indexer) SaveLinks(ctx context.Context, links []string) (int, error) {
	var (
		saved int
		errs  []error
	)
	for _, link := range links {
		created, err := ix.saveLink(ctx, link)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if created != nil {
			saved++
		}
	}
	return saved, errors.Join(errs...)
}

// saveLink stores link as a new pending record unless it is known.
// It returns the created record, or nil when the link was skipped.
func (ix *Indexer) saveLink(ctx context.Context, link string) (*model.Page, error) {
	target := model.StripFragment(link)
	if target == "" {
		return nil, nil
	}

	known, err := ix.frontier.Exists(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", target, err)
	}
	if known {
		return nil, nil
	}

	page := model.NewPendingPage(target)
	if err := ix.frontier.Save(ctx, page); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", target, err)
	}
	ix.logger.Debug("queued link", "url", target, "id", page.ID)
	return page, nil
}

// indexMetadata performs the fetch, extract and save steps shared by
// IndexPage and child indexing. It returns the fetched content.
func (ix *Indexer) indexMetadata(ctx context.Context, page *model.Page) (string, error) {
	content := ix.fetcher.Fetch(ctx, page.URL)
	if content == "" {
		return "", &PageError{URL: page.URL, Err: ErrNoContent}
	}

	md, err := extract.ParseMetadata(content)
	if err != nil {
		return "", &PageError{URL: page.URL, Err: err}
	}
	if md.DescriptionErr != nil {
		ix.logger.Debug("description not found", "url", page.URL, "reason", md.DescriptionErr)
	}

	page.MarkIndexed(md.Title, md.Description, ix.now())
	if err := ix.frontier.Save(ctx, page); err != nil {
		return "", &PageError{URL: page.URL, Err: fmt.Errorf("failed to save page: %w", err)}
	}
	return content, nil
}
