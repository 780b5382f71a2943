package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/pkg/logger"
	"intituas-ai-be/pkg/capability"
	"intituas-ai-be/pkg/events"
	"intituas-ai-be/pkg/metrics"
)

// IAnswerService turns a question into an answer envelope. It never returns
// an error: failures become AnswerFailure with a fixed message.
type IAnswerService interface {
	Answer(ctx context.Context, req dto.AnswerRequest) dto.AnswerResponse
}

type answerService struct {
	capability capability.Capability
	recorder   IHistoryRecorder
	publisher  events.Publisher
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

func NewAnswerService(
	c capability.Capability,
	recorder IHistoryRecorder,
	publisher events.Publisher,
	m *metrics.Metrics,
	log logger.ILogger,
) IAnswerService {
	return &answerService{
		capability: c,
		recorder:   recorder,
		publisher:  publisher,
		metrics:    m,
		logger:     log,
	}
}

func (s *answerService) Answer(ctx context.Context, req dto.AnswerRequest) dto.AnswerResponse {
	query := req.Query()

	var (
		out  *capability.AnswerOutput
		err  error
		mode string
	)
	switch q := query.(type) {
	case dto.DocumentQuestion:
		mode = constant.ModeDocument
		out, err = s.capability.GenerateAnswerFromDocument(ctx, capability.DocumentAnswerInput{
			Question:        q.Question,
			DocumentContent: q.DocumentContent,
			ResearchMode:    q.ResearchMode,
		})
	case dto.GeneralQuestion:
		mode = constant.ModeGeneral
		out, err = s.capability.GenerateAnswer(ctx, capability.GenerateAnswerInput{
			Question:     q.Question,
			ResearchMode: q.ResearchMode,
		})
	}

	if err == nil && strings.TrimSpace(out.Answer) == "" {
		err = fmt.Errorf("%s: blank answer: %w", mode, capability.ErrSchemaMismatch)
	}

	if s.metrics != nil {
		s.metrics.AnswersTotal.WithLabelValues(mode, metrics.Outcome(err)).Inc()
	}
	s.publish(ctx, events.QuestionAnswered(mode, req.UserId, err == nil))

	if err != nil {
		s.logger.Error("ANSWER", "Failed to generate answer", map[string]interface{}{
			"mode":          mode,
			"research_mode": query.Research(),
			"user_id":       req.UserId,
			"error":         err.Error(),
		})
		return dto.AnswerFailure(constant.AnswerFailureMessage)
	}

	resp := dto.AnswerSuccess(out.Answer, out.ConfidenceScore, out.Citations)

	if req.UserId != "" && s.recorder != nil {
		err := s.recorder.Record(ctx, dto.RecordHistoryMessage{
			UserId:    req.UserId,
			Question:  query.QuestionText(),
			Answer:    out.Answer,
			Citations: out.Citations,
		})
		if err != nil {
			s.logger.Warn("ANSWER", "Failed to record search history", map[string]interface{}{
				"user_id": req.UserId,
				"error":   err.Error(),
			})
		}
	}

	return resp
}

func (s *answerService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.logger.Warn("ANSWER", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
