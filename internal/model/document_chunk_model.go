package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// DocumentChunk is one ingested passage of company content with its
// embedding. Rows are written by the offline ingest job; the gateway only
// reads them.
type DocumentChunk struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Text      string          `gorm:"type:text;not null"`
	Brand     string          `gorm:"type:varchar(64);index"`
	DocType   string          `gorm:"type:varchar(64)"`
	Url       string          `gorm:"type:text"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
