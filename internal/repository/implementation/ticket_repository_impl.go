package implementation

import (
	"context"
	"errors"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/mapper"
	"helpdesk-ai-be/internal/model"
	"helpdesk-ai-be/internal/repository/contract"
	"helpdesk-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TicketMapper
}

func NewTicketRepository(db *gorm.DB) contract.TicketRepository {
	return &TicketRepositoryImpl{
		db:     db,
		mapper: mapper.NewTicketMapper(),
	}
}

func (r *TicketRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, ticket *entity.Ticket) error {
	m := r.mapper.ToModel(ticket)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		// The partial unique index on (chat_session_id, category, severity)
		// WHERE status='OPEN' backstops concurrent turns racing the dedup check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return contract.ErrDuplicateTicket
		}
		return err
	}
	*ticket = *r.mapper.ToEntity(m)
	return nil
}

func (r *TicketRepositoryImpl) Update(ctx context.Context, ticket *entity.Ticket) error {
	m := r.mapper.ToModel(ticket)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*ticket = *r.mapper.ToEntity(m)
	return nil
}

func (r *TicketRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Ticket{}, id).Error
}

func (r *TicketRepositoryImpl) FindOpenByFingerprint(ctx context.Context, fp contract.TicketFingerprint) (*entity.Ticket, error) {
	var m model.Ticket
	err := r.db.WithContext(ctx).
		Where("chat_session_id = ?", fp.ChatSessionId).
		Where("category = ?", fp.Category).
		Where("severity = ?", string(fp.Severity)).
		Where("status = ?", string(constant.TicketStatusOpen)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TicketRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ticket, error) {
	var m model.Ticket
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TicketRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ticket, error) {
	var models []*model.Ticket
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TicketRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Ticket{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TicketRepositoryImpl) countGroupedBy(ctx context.Context, column string) (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Select(column + " AS key, COUNT(id) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, rw := range rows {
		result[rw.Key] = rw.Count
	}
	return result, nil
}

func (r *TicketRepositoryImpl) CountGroupedBySeverity(ctx context.Context) (map[string]int64, error) {
	return r.countGroupedBy(ctx, "severity")
}

func (r *TicketRepositoryImpl) CountGroupedByTier(ctx context.Context) (map[string]int64, error) {
	return r.countGroupedBy(ctx, "tier")
}

func (r *TicketRepositoryImpl) CountDistinctSessions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Distinct("chat_session_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
