package mailer

import (
	"testing"
	"time"

	"intituas-ai-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestContactBody_EscapesInput(t *testing.T) {
	body := contactBody(&entity.Contact{
		Name:      "<script>alert(1)</script>",
		Email:     "a@b.co",
		Message:   "line one\nline <two>",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	})

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "line one<br>line &lt;two&gt;")
	assert.Contains(t, body, "2024-01-02 03:04 UTC")
}

func TestNewEmailService_NoHostIsNop(t *testing.T) {
	svc := NewEmailService("", 587, "", "", "", "")
	assert.NoError(t, svc.SendWelcome("x@y.z"))
	assert.NoError(t, svc.SendContactNotification("x@y.z", &entity.Contact{}))
}
