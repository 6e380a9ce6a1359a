package domain

import "encoding/json"

// NLURequest is what an NLU provider receives for one inbound message
type NLURequest struct {
	SystemPrompt string
	Message      string
	Filled       map[string]string
	Required     []string
}

type nluUserContent struct {
	Message string         `json:"message"`
	Context nluUserContext `json:"context"`
}

type nluUserContext struct {
	Filled   map[string]string `json:"filled"`
	Required []string          `json:"required"`
}

// UserContent encodes the user turn sent to the model:
// {"message": ..., "context": {"filled": {...}, "required": [...]}}
func (r NLURequest) UserContent() (string, error) {
	filled := r.Filled
	if filled == nil {
		filled = map[string]string{}
	}
	required := r.Required
	if required == nil {
		required = []string{}
	}

	raw, err := json.Marshal(nluUserContent{
		Message: r.Message,
		Context: nluUserContext{Filled: filled, Required: required},
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// NLUResult is the sanitized interpretation of one inbound message
type NLUResult struct {
	Intent  string
	Filled  map[string]string
	Missing []string
	Reply   string
}

// IsBooking returns true if the message expresses booking intent
func (r *NLUResult) IsBooking() bool {
	return r.Intent == IntentBooking
}
