package dto

import "encoding/json"

type SuggestionRequest struct {
	DocumentContent *string `json:"documentContent,omitempty" validate:"omitempty,max=50000"`
}

// SuggestionResponse carries either the suggestion list or an error. An empty
// list is still a success and is sent as [].
type SuggestionResponse struct {
	Suggestions []string `json:"suggestions"`
	Error       string   `json:"error,omitempty"`
}

func (r SuggestionResponse) Failed() bool {
	return r.Error != ""
}

func (r SuggestionResponse) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	suggestions := r.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return json.Marshal(struct {
		Suggestions []string `json:"suggestions"`
	}{suggestions})
}
