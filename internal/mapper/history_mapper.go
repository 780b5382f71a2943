package mapper

import (
	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/model"

	"gorm.io/datatypes"
)

type HistoryMapper struct{}

func NewHistoryMapper() *HistoryMapper {
	return &HistoryMapper{}
}

func (m *HistoryMapper) ToEntity(h *model.SearchHistory) *entity.HistoryEntry {
	if h == nil {
		return nil
	}

	var citations []string
	if len(h.Citations) > 0 {
		citations = append([]string(nil), h.Citations...)
	}

	return &entity.HistoryEntry{
		Id:        h.Id,
		UserId:    h.UserId,
		Question:  h.Question,
		Answer:    h.Answer,
		Citations: citations,
		CreatedAt: h.CreatedAt,
	}
}

func (m *HistoryMapper) ToModel(e *entity.HistoryEntry) *model.SearchHistory {
	if e == nil {
		return nil
	}

	var citations datatypes.JSONSlice[string]
	if len(e.Citations) > 0 {
		citations = datatypes.JSONSlice[string](e.Citations)
	}

	return &model.SearchHistory{
		Id:        e.Id,
		UserId:    e.UserId,
		Question:  e.Question,
		Answer:    e.Answer,
		Citations: citations,
		CreatedAt: e.CreatedAt,
	}
}

func (m *HistoryMapper) ToEntities(models []*model.SearchHistory) []*entity.HistoryEntry {
	entities := make([]*entity.HistoryEntry, len(models))
	for i, h := range models {
		entities[i] = m.ToEntity(h)
	}
	return entities
}
