package assistant

import (
	"fmt"
	"strings"

	"github.com/EugenyBaz/ChekhovAgent/internal/cache"
	"github.com/EugenyBaz/ChekhovAgent/internal/database"
	"github.com/EugenyBaz/ChekhovAgent/internal/intent"
	"github.com/EugenyBaz/ChekhovAgent/internal/llm"
)

func renderPrompt(stage string, in intent.Intent, history []cache.Turn, facts string, rules []string) string {
	b := &strings.Builder{}

	fmt.Fprintf(b, "Этап диалога: %s\n", stage)
	fmt.Fprintf(b, "Намерение пользователя: %s\n\n", in)

	b.WriteString("История диалога:\n")
	for _, turn := range history {
		fmt.Fprintf(b, "%s: %s\n", roleLabel(turn.Role), turn.Content)
	}

	b.WriteString("\n" + llm.FACTS_HEADER + "\n")
	b.WriteString(strings.TrimSpace(facts))
	b.WriteString("\n\n" + llm.RULES_HEADER + "\n")
	for _, rule := range rules {
		fmt.Fprintf(b, "- %s\n", rule)
	}

	return b.String()
}

func roleLabel(role string) string {
	switch role {
	case database.ROLE_USER:
		return "Пользователь"
	case database.ROLE_ASSISTANT:
		return "Ассистент"
	default:
		return role
	}
}
