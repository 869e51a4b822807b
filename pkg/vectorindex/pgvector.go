package vectorindex

import (
	"context"

	"gelisim-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// PgvectorIndex serves nearest-neighbor queries from the document_chunks
// table using pgvector cosine distance.
type PgvectorIndex struct {
	db *gorm.DB
}

func NewPgvectorIndex(db *gorm.DB) *PgvectorIndex {
	return &PgvectorIndex{db: db}
}

type chunkRow struct {
	model.DocumentChunk
	Distance float64
}

func (i *PgvectorIndex) Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Match, error) {
	if topK <= 0 {
		topK = 3
	}

	query := i.db.WithContext(ctx).
		Model(&model.DocumentChunk{}).
		Select("*, embedding <=> ? AS distance", pgvector.NewVector(vector))

	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}

	var rows []chunkRow
	err := query.
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(vector))).
		Limit(topK).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		brand := row.Brand
		if brand == "" {
			brand = "unknown"
		}
		docType := row.DocType
		if docType == "" {
			docType = "unknown"
		}

		// Cosine distance to similarity; clamp against float drift.
		score := 1 - row.Distance
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}

		matches = append(matches, Match{
			Text:    row.Text,
			Brand:   brand,
			DocType: docType,
			URL:     row.Url,
			Score:   score,
		})
	}

	return matches, nil
}
