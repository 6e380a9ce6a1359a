package process_message

import (
	"fmt"
	"strings"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	if !req.Platform.IsKnown() {
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidInput, req.Platform)
	}

	if strings.TrimSpace(req.SenderID) == "" {
		return fmt.Errorf("%w: sender id is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	return nil
}
