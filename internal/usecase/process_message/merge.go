package process_message

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

// MergeSlots объединяет сохраненные слоты с разобранными из нового сообщения
// Новое непустое значение заменяет старое; пустое значение ничего не стирает
func MergeSlots(current, parsed map[string]string) map[string]string {
	merged := make(map[string]string, len(current)+len(parsed))
	for slot, value := range current {
		if value != "" {
			merged[slot] = value
		}
	}
	for slot, value := range parsed {
		if value != "" {
			merged[slot] = value
		}
	}
	return merged
}

// BuildNudge формирует просьбу прислать недостающие слоты
func BuildNudge(missing []string) string {
	return fmt.Sprintf(domain.NudgeTemplate, strings.Join(missing, ", "))
}

// RenderConfirmation подставляет значения слотов в шаблон подтверждения
// Слоты, которых нет в шаблоне, дописываются в конец как " {slot}: {value}."
func RenderConfirmation(template string, required domain.RequiredSlots, merged map[string]string) string {
	if template == "" {
		template = domain.DefaultConfirmTemplate
	}

	var tail strings.Builder
	replacements := make([]string, 0, len(required)*2)
	for _, slot := range required {
		placeholder := "{" + slot + "}"
		if strings.Contains(template, placeholder) {
			replacements = append(replacements, placeholder, merged[slot])
			continue
		}
		fmt.Fprintf(&tail, " %s: %s.", slot, merged[slot])
	}

	return strings.NewReplacer(replacements...).Replace(template) + tail.String()
}
