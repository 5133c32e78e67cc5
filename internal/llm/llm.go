// Package llm - генерация ответа по подготовленному запросу.
package llm

import "context"

// заголовки разделов запроса, по ним Mock находит данные из таблиц
const (
	FACTS_HEADER = "Данные из таблиц:"
	RULES_HEADER = "Правила ответа:"
)

// Generator - одна попытка получить ответ модели, без стриминга и повторов
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
