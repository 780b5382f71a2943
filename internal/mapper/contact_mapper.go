package mapper

import (
	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/model"
)

type ContactMapper struct{}

func NewContactMapper() *ContactMapper {
	return &ContactMapper{}
}

func (m *ContactMapper) ToEntity(c *model.Contact) *entity.Contact {
	if c == nil {
		return nil
	}
	return &entity.Contact{
		Id:        c.Id,
		Name:      c.Name,
		Email:     c.Email,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ContactMapper) ToModel(c *entity.Contact) *model.Contact {
	if c == nil {
		return nil
	}
	return &model.Contact{
		Id:        c.Id,
		Name:      c.Name,
		Email:     c.Email,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}
