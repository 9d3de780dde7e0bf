package services

import (
	"context"
	"fmt"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/repositories"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/persistence/document"
	"github.com/AtRiskMedia/pagetree-go/internal/presentation/templates"
)

// DocumentService orchestrates stored page documents with the cache-first
// repository
type DocumentService struct {
	documents repositories.PageDocumentRepository
	renderer  *templates.Renderer
	logger    *logging.ChanneledLogger
}

// NewDocumentService creates a document service
func NewDocumentService(documents repositories.PageDocumentRepository, renderer *templates.Renderer, logger *logging.ChanneledLogger) *DocumentService {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &DocumentService{documents: documents, renderer: renderer, logger: logger}
}

// List returns every stored document without its body
func (s *DocumentService) List(ctx context.Context) ([]content.PageDocumentSummary, error) {
	docs, err := s.documents.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	out := make([]content.PageDocumentSummary, len(docs))
	for i, d := range docs {
		out[i] = d.Summary()
	}
	return out, nil
}

// Get returns a stored document
func (s *DocumentService) Get(ctx context.Context, id string) (*content.PageDocument, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	return doc, nil
}

// Delete removes a stored document. Sessions already editing it keep their
// tree and recreate the document on their next save.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	s.logger.Editor().Info("Document deleted", "documentId", id)
	return nil
}

// RenderPublished renders the document stored under slug as a complete
// responsive HTML page
func (s *DocumentService) RenderPublished(ctx context.Context, slug string) (string, error) {
	stored, err := s.documents.FindBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("failed to get document: %w", err)
	}
	if stored == nil {
		return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, slug)
	}
	doc, err := document.Decode(stored.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decode document %s: %w", stored.ID, err)
	}
	nodes, root, err := doc.ToTree()
	if err != nil {
		return "", fmt.Errorf("failed to read document %s: %w", stored.ID, err)
	}

	state := pagetree.NewPageTreeState()
	state.RootNodeID = root
	for _, n := range nodes {
		state.Nodes[n.ID] = n
	}
	result, err := s.renderer.Render(state, templates.Options{Mode: templates.ModePublish, Title: stored.Title})
	if err != nil {
		return "", err
	}
	return result.Page(stored.Title)
}
