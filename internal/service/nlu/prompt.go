package nlu

import (
	"fmt"
	"os"
	"strings"
)

// DefaultSystemPrompt инструкция модели по умолчанию
const DefaultSystemPrompt = `You are the front desk assistant of a beauty salon that books appointments over chat.

You receive a JSON document with the customer's latest "message" and a "context" object:
- "filled": slot values already collected in this conversation
- "required": the slot names needed to complete a booking

Respond with a single JSON object and nothing else:
{
  "intent": "booking" | "question" | "greeting" | "other",
  "filled": { "<slot>": "<value>" },
  "missing": ["<slot>", ...],
  "reply": "<short friendly reply to the customer>"
}

Rules:
- Use "booking" whenever the customer wants to make or continue an appointment.
- Put in "filled" only slots from "required" that this message provides or corrects. Values are plain strings.
- Never invent values. Leave a slot out when you are not sure.
- "missing" lists required slots still unknown after this message.
- "reply" answers questions briefly and, while booking, asks for what is missing.`

// LoadSystemPrompt читает инструкцию из файла; пустой путь означает инструкцию по умолчанию
func LoadSystemPrompt(path string) (string, error) {
	if path == "" {
		return DefaultSystemPrompt, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("nlu: read system prompt %s: %w", path, err)
	}

	prompt := strings.TrimSpace(string(raw))
	if prompt == "" {
		return "", fmt.Errorf("nlu: system prompt file %s is empty", path)
	}

	return prompt, nil
}
