package service

import (
	"context"
	"errors"
	"testing"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService_Submit(t *testing.T) {
	ctx := context.Background()
	factory, _ := newTestFactory(t)
	mail := &fakeMailer{}
	published := &recordedEvents{}
	svc := NewContactService(factory, mail, published, "inbox@intituas.ai", nil, nopLog)

	resp := svc.Submit(ctx, &dto.ContactRequest{Name: " Ada ", Email: "ada@example.com", Message: "Hello"})
	assert.Equal(t, dto.ContactResponse{Success: true, Message: constant.ContactSuccessMessage}, resp)

	stored, err := factory.NewUnitOfWork(ctx).ContactRepository().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Ada", stored[0].Name)
	assert.False(t, stored[0].CreatedAt.IsZero())

	require.Len(t, mail.contacts, 1)
	assert.Equal(t, []string{events.TypeContactSubmitted}, published.types())
}

func TestContactService_MailFailureStillSucceeds(t *testing.T) {
	factory, _ := newTestFactory(t)
	svc := NewContactService(factory, &fakeMailer{err: errors.New("smtp down")}, nil, "inbox@intituas.ai", nil, nopLog)

	resp := svc.Submit(context.Background(), &dto.ContactRequest{Name: "A", Email: "a@b.co", Message: "m"})
	assert.True(t, resp.Success)
}

func TestContactService_StoreFailure(t *testing.T) {
	factory, db := newTestFactory(t)
	mail := &fakeMailer{}
	svc := NewContactService(factory, mail, nil, "inbox@intituas.ai", nil, nopLog)
	closeDB(t, db)

	resp := svc.Submit(context.Background(), &dto.ContactRequest{Name: "A", Email: "a@b.co", Message: "m"})
	assert.Equal(t, dto.ContactResponse{Success: false, Message: constant.ContactFailureMessage}, resp)
	assert.Empty(t, mail.contacts)
}
