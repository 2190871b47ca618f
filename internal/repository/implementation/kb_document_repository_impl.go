package implementation

import (
	"context"
	"errors"

	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/mapper"
	"helpdesk-ai-be/internal/model"
	"helpdesk-ai-be/internal/repository/contract"
	"helpdesk-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KBDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KBMapper
}

func NewKBDocumentRepository(db *gorm.DB) contract.KBDocumentRepository {
	return &KBDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewKBMapper(),
	}
}

func (r *KBDocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KBDocumentRepositoryImpl) Create(ctx context.Context, doc *entity.KBDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *KBDocumentRepositoryImpl) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	return r.db.WithContext(ctx).
		Model(&model.KBDocument{}).
		Where("id = ?", id).
		Update("embedding", pgvector.NewVector(embedding)).Error
}

func (r *KBDocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KBDocument, error) {
	var m model.KBDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *KBDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KBDocument, error) {
	var models []*model.KBDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *KBDocumentRepositoryImpl) SearchSimilar(ctx context.Context, queryVector []float32, topK int) ([]*entity.KBDocument, error) {
	var models []*model.KBDocument

	// pgvector cosine distance: embedding <=> query
	err := r.db.WithContext(ctx).
		Where("embedding IS NOT NULL").
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(queryVector))).
		Limit(topK).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}
