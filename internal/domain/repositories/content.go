// Package repositories defines the repository interfaces for stored page
// documents, keeping the application layer clear of database details.
package repositories

import (
	"context"
	"errors"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/content"
)

// ErrSlugTaken is returned by Save when another document already uses the
// slug
var ErrSlugTaken = errors.New("slug already in use")

// PageDocumentRepository persists page documents. Lookups return nil, nil
// when nothing matches. Save is an upsert keyed by ID; the last write wins.
type PageDocumentRepository interface {
	FindByID(ctx context.Context, id string) (*content.PageDocument, error)
	FindBySlug(ctx context.Context, slug string) (*content.PageDocument, error)
	FindAll(ctx context.Context) ([]*content.PageDocument, error)
	Save(ctx context.Context, doc *content.PageDocument) error
	Delete(ctx context.Context, id string) error
}
