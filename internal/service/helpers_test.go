package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/model"
	"intituas-ai-be/internal/pkg/logger"
	"intituas-ai-be/internal/repository/unitofwork"
	"intituas-ai-be/pkg/capability"
	"intituas-ai-be/pkg/database"
	"intituas-ai-be/pkg/events"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "intituas.db"))
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func newTestFactory(t *testing.T) (unitofwork.RepositoryFactory, *gorm.DB) {
	db := newTestDB(t)
	return unitofwork.NewRepositoryFactory(db), db
}

// stepClock advances one second per call so insertion order is creation order.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

var nopLog = logger.NewNopLogger()

type fakeCapability struct {
	mu sync.Mutex

	answer      *capability.AnswerOutput
	suggestions *capability.SuggestionsOutput
	mindMap     *capability.MindMapOutput
	err         error

	generalCalls  []capability.GenerateAnswerInput
	documentCalls []capability.DocumentAnswerInput
	suggestCalls  []capability.SuggestionsInput
	mindMapCalls  []capability.MindMapInput
}

var _ capability.Capability = (*fakeCapability)(nil)

func (f *fakeCapability) GenerateAnswer(_ context.Context, in capability.GenerateAnswerInput) (*capability.AnswerOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generalCalls = append(f.generalCalls, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func (f *fakeCapability) GenerateAnswerFromDocument(_ context.Context, in capability.DocumentAnswerInput) (*capability.AnswerOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documentCalls = append(f.documentCalls, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func (f *fakeCapability) GenerateSuggestions(_ context.Context, in capability.SuggestionsInput) (*capability.SuggestionsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestCalls = append(f.suggestCalls, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.suggestions, nil
}

func (f *fakeCapability) GenerateMindMap(_ context.Context, in capability.MindMapInput) (*capability.MindMapOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mindMapCalls = append(f.mindMapCalls, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.mindMap, nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

type fakeMailer struct {
	mu       sync.Mutex
	contacts []*entity.Contact
	welcomed []string
	err      error
}

func (m *fakeMailer) SendContactNotification(_ string, c *entity.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, c)
	return m.err
}

func (m *fakeMailer) SendWelcome(to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomed = append(m.welcomed, to)
	return m.err
}

func ptr[T any](v T) *T {
	return &v
}

func questions(entries []*entity.HistoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Question
	}
	return out
}
