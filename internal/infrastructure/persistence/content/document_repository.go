// Package content provides the page document repository
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/repositories"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/persistence/database"
)

const documentColumns = `id, slug, title, version, document_json, created, changed`

// DocumentRepository stores page documents in SQL and reads through the
// document cache
type DocumentRepository struct {
	db     *sql.DB
	cache  *stores.DocumentStore
	logger *logging.ChanneledLogger
}

var _ repositories.PageDocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a repository over db
func NewDocumentRepository(db *sql.DB, cache *stores.DocumentStore, logger *logging.ChanneledLogger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// FindByID returns the document with id, or nil when none exists
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*content.PageDocument, error) {
	if doc, found := r.cache.Get(id); found {
		return doc, nil
	}

	doc, err := r.loadOne(ctx, `SELECT `+documentColumns+` FROM page_documents WHERE id = ?`, id)
	if err != nil || doc == nil {
		return nil, err
	}
	r.cache.Set(doc)
	return doc, nil
}

// FindBySlug returns the document with slug, or nil when none exists
func (r *DocumentRepository) FindBySlug(ctx context.Context, slug string) (*content.PageDocument, error) {
	if doc, found := r.cache.GetBySlug(slug); found {
		return doc, nil
	}

	doc, err := r.loadOne(ctx, `SELECT `+documentColumns+` FROM page_documents WHERE slug = ?`, slug)
	if err != nil || doc == nil {
		return nil, err
	}
	r.cache.Set(doc)
	return doc, nil
}

// FindAll returns every document ordered by title, cache first
func (r *DocumentRepository) FindAll(ctx context.Context) ([]*content.PageDocument, error) {
	if ids, found := r.cache.GetAllIDs(); found {
		return r.FindByIDs(ctx, ids)
	}

	query := `SELECT ` + documentColumns + ` FROM page_documents ORDER BY title, id`
	start := time.Now()
	r.logger.Database().Debug("Loading all page documents")

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Database().Error("Failed to query page documents", "error", err.Error())
		return nil, fmt.Errorf("failed to query page documents: %w", err)
	}
	defer rows.Close()

	docs := []*content.PageDocument{}
	ids := []string{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		ids = append(ids, doc.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate page documents: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Loaded page documents", "count", len(docs), "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)

	for _, doc := range docs {
		r.cache.Set(doc)
	}
	r.cache.SetAllIDs(ids)
	return docs, nil
}

// FindByIDs returns the documents with the given ids in that order,
// skipping ids that no longer exist
func (r *DocumentRepository) FindByIDs(ctx context.Context, ids []string) ([]*content.PageDocument, error) {
	result := make([]*content.PageDocument, 0, len(ids))
	for _, id := range ids {
		doc, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			result = append(result, doc)
		}
	}
	return result, nil
}

// Save inserts or replaces doc keyed by id. Created is preserved on update.
func (r *DocumentRepository) Save(ctx context.Context, doc *content.PageDocument) error {
	if doc == nil || doc.ID == "" {
		return errors.New("document id is required")
	}
	now := time.Now().UTC()
	if doc.Created.IsZero() {
		doc.Created = now
	}
	doc.Changed = &now

	query := `INSERT INTO page_documents (` + documentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET slug = excluded.slug, title = excluded.title, version = excluded.version,
		document_json = excluded.document_json, changed = excluded.changed`

	start := time.Now()
	r.logger.Database().Debug("Executing page document upsert", "id", doc.ID, "slug", doc.Slug)

	_, err := r.db.ExecContext(ctx, query, doc.ID, doc.Slug, doc.Title, doc.Version, string(doc.Body), doc.Created, now)
	if err != nil {
		r.logger.Database().Error("Page document upsert failed", "error", err.Error(), "id", doc.ID)
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("failed to save page document: slug %q already in use: %w", doc.Slug, ErrSlugTaken)
		}
		return fmt.Errorf("failed to save page document: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Page document upsert completed", "id", doc.ID, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, "UPSERT page_documents", duration)

	r.cache.Set(doc)
	return nil
}

// Delete removes the document with id; deleting a missing id is not an error
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM page_documents WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing page document delete", "id", id)

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		r.logger.Database().Error("Page document delete failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to delete page document: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Page document delete completed", "id", id, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)

	r.cache.Invalidate(id)
	return nil
}

// ErrSlugTaken is returned when another document already uses the slug
var ErrSlugTaken = repositories.ErrSlugTaken

func (r *DocumentRepository) loadOne(ctx context.Context, query string, arg string) (*content.PageDocument, error) {
	start := time.Now()
	r.logger.Database().Debug("Loading page document from database", "key", arg)

	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to load page document", "error", err.Error(), "key", arg)
		return nil, err
	}

	duration := time.Since(start)
	r.logger.Database().Info("Loaded page document from database", "id", doc.ID, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*content.PageDocument, error) {
	var doc content.PageDocument
	var body, created string
	var changed sql.NullString
	if err := row.Scan(&doc.ID, &doc.Slug, &doc.Title, &doc.Version, &body, &created, &changed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan page document: %w", err)
	}
	doc.Body = []byte(body)
	if t, ok := parseTimestamp(created); ok {
		doc.Created = t
	}
	if changed.Valid {
		if t, ok := parseTimestamp(changed.String); ok {
			doc.Changed = &t
		}
	}
	return &doc, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseTimestamp accepts the layouts SQLite and libSQL hand back for
// TIMESTAMP columns
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
