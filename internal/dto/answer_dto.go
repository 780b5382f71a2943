package dto

import (
	"strings"
)

// AnswerRequest is the wire form of a question. userId is never taken from
// the body; controllers fill it from the bearer token.
type AnswerRequest struct {
	Question        string  `json:"question" validate:"required,notblank,max=500"`
	DocumentContent *string `json:"documentContent,omitempty" validate:"omitempty,max=50000"`
	ResearchMode    bool    `json:"researchMode,omitempty"`
	UserId          string  `json:"-"`
}

// Query is the tagged form the dispatcher works on.
type Query interface {
	isQuery()
	QuestionText() string
	Research() bool
}

type DocumentQuestion struct {
	Question        string
	DocumentContent string
	ResearchMode    bool
}

type GeneralQuestion struct {
	Question     string
	ResearchMode bool
}

func (DocumentQuestion) isQuery() {}
func (GeneralQuestion) isQuery()  {}

func (q DocumentQuestion) QuestionText() string { return q.Question }
func (q GeneralQuestion) QuestionText() string  { return q.Question }

func (q DocumentQuestion) Research() bool { return q.ResearchMode }
func (q GeneralQuestion) Research() bool  { return q.ResearchMode }

// HasDocument reports whether content carries anything but whitespace.
func HasDocument(content *string) bool {
	return content != nil && strings.TrimSpace(*content) != ""
}

// Query picks the variant: a document that is absent, empty or only
// whitespace means a general question.
func (r AnswerRequest) Query() Query {
	if HasDocument(r.DocumentContent) {
		return DocumentQuestion{
			Question:        r.Question,
			DocumentContent: *r.DocumentContent,
			ResearchMode:    r.ResearchMode,
		}
	}
	return GeneralQuestion{Question: r.Question, ResearchMode: r.ResearchMode}
}

// AnswerResponse carries either an answer or an error, never both. Build it
// with AnswerSuccess or AnswerFailure.
type AnswerResponse struct {
	Answer          string   `json:"answer,omitempty"`
	ConfidenceScore *float64 `json:"confidenceScore,omitempty"`
	Citations       []string `json:"citations,omitempty"`
	Error           string   `json:"error,omitempty"`
}

func AnswerSuccess(answer string, confidence *float64, citations []string) AnswerResponse {
	return AnswerResponse{Answer: answer, ConfidenceScore: confidence, Citations: citations}
}

func AnswerFailure(message string) AnswerResponse {
	return AnswerResponse{Error: message}
}

func (r AnswerResponse) Failed() bool {
	return r.Error != ""
}
