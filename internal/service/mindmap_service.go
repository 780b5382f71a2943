package service

import (
	"context"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/pkg/logger"
	"intituas-ai-be/pkg/capability"
	"intituas-ai-be/pkg/metrics"
)

type IMindMapService interface {
	MindMap(ctx context.Context, documentContent string) dto.MindMapResponse
}

type mindMapService struct {
	capability capability.Capability
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

func NewMindMapService(c capability.Capability, m *metrics.Metrics, log logger.ILogger) IMindMapService {
	return &mindMapService{
		capability: c,
		metrics:    m,
		logger:     log,
	}
}

func (s *mindMapService) MindMap(ctx context.Context, documentContent string) dto.MindMapResponse {
	out, err := s.capability.GenerateMindMap(ctx, capability.MindMapInput{DocumentContent: documentContent})
	if s.metrics != nil {
		s.metrics.MindMapsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	}
	if err != nil {
		s.logger.Error("MINDMAP", "Failed to generate mind map", map[string]interface{}{
			"document_length": len(documentContent),
			"error":           err.Error(),
		})
		return dto.MindMapResponse{Error: constant.MindMapFailureMessage}
	}
	return dto.MindMapResponse{MindMap: out.MindMap}
}
