package content

import (
	"encoding/json"
	"time"
)

// CurrentDocumentID is the fixed key of the single live content document.
const CurrentDocumentID = "currentContent"

// Document is the stored form of the marketing content: one jsonb row keyed
// by a fixed id, holding a (possibly partial) document that Normalize
// completes on every read.
type Document struct {
	ID  string          `gorm:"primaryKey" json:"id"`
	Doc json.RawMessage `gorm:"type:jsonb;not null;default:'{}'" json:"doc"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Document) TableName() string { return "marketing_content" }

// Decode unmarshals the stored document into the loose map Normalize reads.
// A corrupt payload decodes to nil, which Normalize treats as fully absent.
func (d *Document) Decode() map[string]any {
	if d == nil || len(d.Doc) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(d.Doc, &m); err != nil {
		return nil
	}
	return m
}
