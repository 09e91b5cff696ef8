package crawler

import (
	"context"
	"fmt"

	"github.com/nao1215/linkspider/internal/model"
)

// StepResult summarises one SingleStep call.
type StepResult struct {
	// Page is the record that was picked, or nil when the frontier was
	// empty.
	Page *model.Page

	// Links are the first discovered links of Page, as found on the page,
	// whether or not they were already known.
	Links []string

	// ChildrenCreated is the number of new pending records created from Links.
	ChildrenCreated int

	// ChildrenIndexed is the number of those records that were also indexed.
	ChildrenIndexed int
}

// SingleStep picks one record, indexes it, and then indexes its new
// children before returning.
//
// It returns an empty result when nothing is pending or the picked page
// could not be indexed. Children are handled one after another: each
// unknown link gets a pending record which is then fetched and saved with
// its metadata. Child failures are logged and skipped, and child links are
// not queued. Only store errors during selection are returned.
func (e *Engine) SingleStep(ctx context.Context) (StepResult, error) {
	page, err := e.pick(ctx)
	if err != nil {
		return StepResult{}, err
	}
	if page == nil {
		e.logger.Info("no pending page to crawl")
		return StepResult{}, nil
	}

	links, err := e.indexer.IndexPage(ctx, page)
	if err != nil {
		e.logger.Warn("failed to index page", "id", page.ID, "url", page.URL, "error", err)
		e.releaseAfterFailure(ctx, page)
		return StepResult{}, nil
	}

	if len(links) > e.stepLinkLimit {
		links = links[:e.stepLinkLimit]
	}

	result := StepResult{Page: page, Links: links}
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("step interrupted", "url", page.URL, "error", err)
			break
		}

		child, err := e.indexer.saveLink(ctx, link)
		if err != nil {
			e.logger.Warn("failed to queue child", "url", link, "error", err)
			continue
		}
		if child == nil {
			continue
		}
		result.ChildrenCreated++

		if _, err := e.indexer.indexMetadata(ctx, child); err != nil {
			e.logger.Warn("failed to index child", "id", child.ID, "url", child.URL, "error", err)
			continue
		}
		result.ChildrenIndexed++
	}

	e.logger.Info("step completed",
		"url", page.URL,
		"links", len(result.Links),
		"children_created", result.ChildrenCreated,
		"children_indexed", result.ChildrenIndexed,
	)
	return result, nil
}

func (e *Engine) pick(ctx context.Context) (*model.Page, error) {
	var (
		page *model.Page
		err  error
	)
	switch e.pickMode {
	case PickClaim:
		page, err = e.frontier.Claim(ctx)
	default:
		page, err = e.frontier.PickOneAndLock(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick page: %w", err)
	}
	return page, nil
}

// releaseAfterFailure returns the picked record to the pending set so a
// later step can retry it. Siblings locked by a legacy pick stay locked.
func (e *Engine) releaseAfterFailure(ctx context.Context, page *model.Page) {
	if page.IsIndexed() {
		return
	}
	r, ok := e.frontier.(releaser)
	if !ok {
		return
	}
	if err := r.Release(ctx, page.ID); err != nil {
		e.logger.Warn("failed to release page", "id", page.ID, "error", err)
	}
}
