package implementation

import (
	"context"

	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/mapper"
	"helpdesk-ai-be/internal/model"
	"helpdesk-ai-be/internal/repository/contract"
	"helpdesk-ai-be/internal/repository/specification"

	"gorm.io/gorm"
)

type KBReferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewKBReferenceRepository(db *gorm.DB) contract.KBReferenceRepository {
	return &KBReferenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *KBReferenceRepositoryImpl) CreateBulk(ctx context.Context, refs []*entity.KBReference) error {
	if len(refs) == 0 {
		return nil
	}
	models := make([]*model.KBReference, len(refs))
	for i, ref := range refs {
		models[i] = r.mapper.KBReferenceToModel(ref)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*refs[i] = *r.mapper.KBReferenceToEntity(m)
	}
	return nil
}

func (r *KBReferenceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KBReference, error) {
	var models []*model.KBReference
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.KBReference, len(models))
	for i, m := range models {
		entities[i] = r.mapper.KBReferenceToEntity(m)
	}
	return entities, nil
}
