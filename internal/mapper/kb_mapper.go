package mapper

import (
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type KBMapper struct{}

func NewKBMapper() *KBMapper {
	return &KBMapper{}
}

func (m *KBMapper) ToEntity(d *model.KBDocument) *entity.KBDocument {
	if d == nil {
		return nil
	}

	var embedding []float32
	if d.Embedding != nil {
		embedding = d.Embedding.Slice()
	}

	return &entity.KBDocument{
		Id:        d.Id,
		Title:     d.Title,
		Source:    d.Source,
		Content:   d.Content,
		Embedding: embedding,
		CreatedAt: d.CreatedAt,
	}
}

func (m *KBMapper) ToModel(d *entity.KBDocument) *model.KBDocument {
	if d == nil {
		return nil
	}

	var embedding *pgvector.Vector
	if len(d.Embedding) > 0 {
		v := pgvector.NewVector(d.Embedding)
		embedding = &v
	}

	return &model.KBDocument{
		Id:        d.Id,
		Title:     d.Title,
		Source:    d.Source,
		Content:   d.Content,
		Embedding: embedding,
		CreatedAt: d.CreatedAt,
	}
}

func (m *KBMapper) ToEntities(models []*model.KBDocument) []*entity.KBDocument {
	entities := make([]*entity.KBDocument, len(models))
	for i, d := range models {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
