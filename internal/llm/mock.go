package llm

import (
	"context"
	"strings"

	"github.com/EugenyBaz/ChekhovAgent/internal/logger"
)

const MOCK_PREFIX = "[MOCK]"

// Mock отвечает шаблоном: повторяет раздел с данными из запроса.
// Нужен для тестов и запуска без ключа модели.
type Mock struct{}

func (Mock) Generate(_ context.Context, _, userPrompt string) (string, error) {
	facts := section(userPrompt, FACTS_HEADER, RULES_HEADER)
	if facts == "" {
		facts = strings.TrimSpace(userPrompt)
	}

	logger.Debug("[MOCK] формируем ответ")
	return MOCK_PREFIX + " Вот что я нашла:\n" + facts, nil
}

// section - текст между заголовками from и to
func section(text, from, to string) string {
	i := strings.Index(text, from)
	if i < 0 {
		return ""
	}
	rest := text[i+len(from):]
	if j := strings.Index(rest, to); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}
