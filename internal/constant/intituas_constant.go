package constant

import "time"

const (
	// HistoryRetention is how many entries a user keeps; older ones are trimmed on append.
	HistoryRetention = 5

	MaxQuestionLength = 500
	MaxDocumentLength = 50000

	AnswerFailureMessage     = "Sorry, there was an issue generating an answer. Please check your input and try again."
	SuggestionFailureMessage = "Sorry, there was an issue generating suggestions."
	MindMapFailureMessage    = "Sorry, there was an issue generating the mind map."

	ContactSuccessMessage = "Thank you for your message! We'll get back to you soon."
	ContactFailureMessage = "Sorry, there was an error submitting your form. Please try again later."

	HistoryUnavailableMessage = "Search history is temporarily unavailable."
	UsageLimitMessage         = "Daily AI usage limit reached. Please try again tomorrow."

	ModeDocument = "document"
	ModeGeneral  = "general"

	TokenTTL          = 24 * time.Hour
	MinPasswordLength = 8
)

// HistoryUpdatedNotification is pushed to a user's open sockets after an append.
const HistoryUpdatedNotification = "history_updated"
