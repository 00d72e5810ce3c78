package implementation

import (
	"context"

	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/mapper"
	"ai-digest-be/internal/model"
	"ai-digest-be/internal/repository/contract"
	"ai-digest-be/internal/repository/specification"

	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageMapper(),
	}
}

func (r *MessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) DeleteByConversationId(ctx context.Context, conversationId int64) error {
	return r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Delete(&model.Message{}).Error
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Message, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *MessageRepositoryImpl) CreateSources(ctx context.Context, sources []*entity.MessageSource) error {
	if len(sources) == 0 {
		return nil
	}
	models := make([]*model.MessageSource, len(sources))
	for i, s := range sources {
		models[i] = r.mapper.SourceToModel(s)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*sources[i] = *r.mapper.SourceToEntity(m)
	}
	return nil
}

func (r *MessageRepositoryImpl) FindSourcesByMessageIds(ctx context.Context, messageIds []int64) ([]*entity.MessageSource, error) {
	if len(messageIds) == 0 {
		return nil, nil
	}
	var models []*model.MessageSource
	err := r.db.WithContext(ctx).
		Where("message_id IN ?", messageIds).
		Order("similarity DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	sources := make([]*entity.MessageSource, len(models))
	for i, m := range models {
		sources[i] = r.mapper.SourceToEntity(m)
	}
	return sources, nil
}

func (r *MessageRepositoryImpl) DeleteSourcesByConversationId(ctx context.Context, conversationId int64) error {
	subQuery := r.db.Table("messages").Select("id").Where("conversation_id = ?", conversationId)
	return r.db.WithContext(ctx).
		Where("message_id IN (?)", subQuery).
		Delete(&model.MessageSource{}).Error
}
