// Package intent определяет, о чем спрашивает пользователь: о занятии,
// о клубе или о списке тренировок.
package intent

import "strings"

type Intent string

const (
	ClubsByClass   Intent = "CLUBS_BY_CLASS"
	ClassesByClub  Intent = "CLASSES_BY_CLUB"
	ListAllClasses Intent = "LIST_ALL_CLASSES"
	Unknown        Intent = "UNKNOWN"
)

// DefaultStems - основы слов "тренировки" и "занятия"
var DefaultStems = []string{"тренировк", "занятия"}

type Result struct {
	Intent Intent
	// название занятия или клуба из справочника, пусто если не найдено
	Entity string
}

// HasEntity - найдено ли конкретное занятие или клуб
func (r Result) HasEntity() bool {
	return r.Entity != "" && (r.Intent == ClubsByClass || r.Intent == ClassesByClub)
}

type Detector struct {
	clubs   []string
	classes []string
	stems   []string
}

// NewDetector - детектор по справочникам клубов и занятий.
// Без stems используются DefaultStems.
func NewDetector(clubs, classes []string, stems ...string) *Detector {
	if len(stems) == 0 {
		stems = DefaultStems
	}
	return &Detector{
		clubs:   clubs,
		classes: classes,
		stems:   lowerAll(stems),
	}
}

// Detect проверяет по порядку: занятие, клуб, ключевые слова.
// Занятие важнее клуба: "йога в Chekhov Sport" - вопрос о клубах с йогой.
func (d *Detector) Detect(text string) Result {
	lower := strings.ToLower(text)

	if name, ok := firstContained(d.classes, lower); ok {
		return Result{Intent: ClubsByClass, Entity: name}
	}
	if name, ok := firstContained(d.clubs, lower); ok {
		return Result{Intent: ClassesByClub, Entity: name}
	}
	for _, stem := range d.stems {
		if stem != "" && strings.Contains(lower, stem) {
			return Result{Intent: ListAllClasses}
		}
	}

	return Result{Intent: Unknown}
}

// firstContained - первое название из справочника, входящее в текст
func firstContained(names []string, lowerText string) (string, bool) {
	for _, name := range names {
		// пустое название входит в любой текст
		if strings.TrimSpace(name) == "" {
			continue
		}
		if strings.Contains(lowerText, strings.ToLower(name)) {
			return name, true
		}
	}
	return "", false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
