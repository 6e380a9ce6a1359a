package nlu

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

// sanitize приводит сырой ответ модели к NLUResult, отбрасывая все, что не укладывается в контракт
// Ошибка возвращается только если документ не является JSON-объектом
func sanitize(raw []byte, required domain.RequiredSlots, contextFilled map[string]string, defaultReply string) (*domain.NLUResult, error) {
	body := stripCodeFence(strings.TrimSpace(string(raw)))
	if body == "" {
		return nil, ErrEmptyOutput
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: null document", ErrMalformedOutput)
	}

	result := &domain.NLUResult{
		Intent:  domain.IntentOther,
		Filled:  map[string]string{},
		Missing: []string{},
		Reply:   defaultReply,
	}

	if intent, ok := doc["intent"].(string); ok {
		if intent = strings.ToLower(strings.TrimSpace(intent)); intent != "" {
			result.Intent = intent
		}
	}

	if reply, ok := doc["reply"].(string); ok {
		if reply = strings.TrimSpace(reply); reply != "" {
			result.Reply = reply
		}
	}

	// Поле filled неверного типа считается отсутствующим
	if filled, ok := doc["filled"].(map[string]interface{}); ok {
		for slot, value := range filled {
			if !required.Contains(slot) {
				continue
			}
			text, ok := value.(string)
			if !ok {
				continue
			}
			if text = strings.TrimSpace(text); text != "" {
				result.Filled[slot] = text
			}
		}
	}

	if missing, ok := doc["missing"].([]interface{}); ok {
		seen := make(map[string]struct{}, len(missing))
		for _, item := range missing {
			slot, ok := item.(string)
			if !ok || !required.Contains(slot) {
				continue
			}
			if _, dup := seen[slot]; dup {
				continue
			}
			seen[slot] = struct{}{}
			result.Missing = append(result.Missing, slot)
		}
	}

	// Придуманные моделью имена слотов не должны скрывать реальные пробелы
	if len(result.Missing) == 0 {
		known := make(map[string]string, len(contextFilled)+len(result.Filled))
		for k, v := range contextFilled {
			known[k] = v
		}
		for k, v := range result.Filled {
			known[k] = v
		}
		result.Missing = required.Missing(known)
	}

	return result, nil
}

// stripCodeFence снимает обертку ```json ... ```, которую модели иногда добавляют
func stripCodeFence(body string) string {
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```")
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
