package mapper

import (
	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/model"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *MessageMapper) ToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *MessageMapper) SourceToEntity(s *model.MessageSource) *entity.MessageSource {
	if s == nil {
		return nil
	}
	return &entity.MessageSource{
		Id:         s.Id,
		MessageId:  s.MessageId,
		ContentId:  s.ContentId,
		Pool:       entity.Pool(s.Pool),
		Title:      s.Title,
		URL:        s.URL,
		Similarity: s.Similarity,
		CreatedAt:  s.CreatedAt,
	}
}

func (m *MessageMapper) SourceToModel(s *entity.MessageSource) *model.MessageSource {
	if s == nil {
		return nil
	}
	return &model.MessageSource{
		Id:         s.Id,
		MessageId:  s.MessageId,
		ContentId:  s.ContentId,
		Pool:       string(s.Pool),
		Title:      s.Title,
		URL:        s.URL,
		Similarity: s.Similarity,
		CreatedAt:  s.CreatedAt,
	}
}
