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

type GuardrailEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewGuardrailEventRepository(db *gorm.DB) contract.GuardrailEventRepository {
	return &GuardrailEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *GuardrailEventRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GuardrailEventRepositoryImpl) Create(ctx context.Context, event *entity.GuardrailEvent) error {
	m := r.mapper.GuardrailEventToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.GuardrailEventToEntity(m)
	return nil
}

func (r *GuardrailEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GuardrailEvent, error) {
	var models []*model.GuardrailEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.GuardrailEvent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.GuardrailEventToEntity(m)
	}
	return entities, nil
}

func (r *GuardrailEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.GuardrailEvent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
