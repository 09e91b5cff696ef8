package frontier

import (
	"context"

	"golang.org/x/text/cases"

	"github.com/nao1215/linkspider/internal/model"
)

// Frontier is the record store as seen by the crawl engine.
type Frontier interface {
	// Exists reports whether an active record has url, compared
	// case-insensitively. Locked and disabled records are not active.
	Exists(ctx context.Context, url string) (bool, error)

	// Save inserts page when page.ID is zero, assigning the new ID, and
	// updates the record with that ID otherwise. Updating an unknown ID
	// returns ErrNotFound.
	Save(ctx context.Context, page *model.Page) error

	// PendingBatch returns up to limit pending records in ascending ID order.
	PendingBatch(ctx context.Context, limit int) ([]*model.Page, error)

	// PickOneAndLock locks every pending record and returns the one with
	// the lowest ID. The chosen record is locked too; callers that fail to
	// index it release it again. It returns nil and no error when nothing
	// is pending.
	PickOneAndLock(ctx context.Context) (*model.Page, error)

	// Claim locks only the pending record with the lowest ID and returns
	// it. It returns nil and no error when nothing is pending.
	Claim(ctx context.Context) (*model.Page, error)
}

// ListFilter narrows Store.List.
type ListFilter struct {
	// State restricts the listing to one crawl state when non-nil.
	State *model.CrawlState

	// Limit caps the number of records. Zero means no cap.
	Limit int

	// Newest orders by descending ID instead of ascending.
	Newest bool
}

// Store is the full record store used by the CLI and reports.
type Store interface {
	Frontier

	// Get returns the record with id or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.Page, error)

	// SetAdminDisabled sets the administrative flag of a record. The crawl
	// state is left untouched.
	SetAdminDisabled(ctx context.Context, id int64, disabled bool) error

	// Release moves a locked record back to pending. Records in other
	// states are left as they are.
	Release(ctx context.Context, id int64) error

	// UnlockAll moves every locked record back to pending and returns how
	// many were moved.
	UnlockAll(ctx context.Context) (int64, error)

	// Search returns indexed, enabled records whose description contains
	// text, compared case-insensitively. Empty text matches nothing.
	// A limit of zero means no cap.
	Search(ctx context.Context, text string, limit int) ([]*model.Page, error)

	// List returns records matching filter.
	List(ctx context.Context, filter ListFilter) ([]*model.Page, error)

	// Stats counts records per crawl state.
	Stats(ctx context.Context) (model.FrontierStats, error)

	// Close releases the resources held by the store.
	Close() error
}

// URLKey returns the Unicode case-folded form of url that Exists compares.
// SQL stores persist it next to the URL since SQL lower() does not fold
// the same way in every database.
func URLKey(url string) string {
	return cases.Fold().String(url)
}

// ValidatePage checks the fields every store requires before saving.
func ValidatePage(page *model.Page) error {
	if page == nil || page.URL == "" {
		return ErrInvalidPage
	}
	return nil
}
