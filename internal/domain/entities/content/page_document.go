// Package content defines the stored form of page documents.
package content

import (
	"encoding/json"
	"time"
)

// PageDocument is one saved page tree. Body holds the encoded document
// exactly as the codec wrote it.
type PageDocument struct {
	ID      string          `json:"id"`
	Slug    string          `json:"slug"`
	Title   string          `json:"title"`
	Version int             `json:"version"`
	Body    json.RawMessage `json:"document"`
	Created time.Time       `json:"created"`
	Changed *time.Time      `json:"changed,omitempty"`
}

// PageDocumentSummary lists a document without its body
type PageDocumentSummary struct {
	ID      string     `json:"id"`
	Slug    string     `json:"slug"`
	Title   string     `json:"title"`
	Version int        `json:"version"`
	Created time.Time  `json:"created"`
	Changed *time.Time `json:"changed,omitempty"`
}

// Summary drops the body
func (d *PageDocument) Summary() PageDocumentSummary {
	return PageDocumentSummary{
		ID:      d.ID,
		Slug:    d.Slug,
		Title:   d.Title,
		Version: d.Version,
		Created: d.Created,
		Changed: d.Changed,
	}
}

// Clone returns a copy that shares nothing with d
func (d *PageDocument) Clone() *PageDocument {
	if d == nil {
		return nil
	}
	c := *d
	c.Body = append(json.RawMessage(nil), d.Body...)
	if d.Changed != nil {
		changed := *d.Changed
		c.Changed = &changed
	}
	return &c
}
