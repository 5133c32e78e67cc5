package cache

import "sync"

type (
	// реплика диалога
	Turn struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	// набор данных привязываемые к пользователю бота
	State struct {
		// текущий этап диалога
		Stage string `json:"stage"`
		// выбранный клуб, пусто если не выбран
		SelectedClub string `json:"selected_club,omitempty"`
		// предпочтительное время занятий
		TimePreference string `json:"time_preference,omitempty"`
		// последние реплики, не больше database.HISTORY_LIMIT
		History []Turn `json:"history"`

		// очередность ходов одного пользователя
		mu sync.Mutex
	}
)

// Lock - занять состояние на время обработки хода
func (s *State) Lock() { s.mu.Lock() }

func (s *State) Unlock() { s.mu.Unlock() }

// LastTurns - копия последних n реплик
func (s *State) LastTurns(n int) []Turn {
	start := 0
	if len(s.History) > n {
		start = len(s.History) - n
	}
	out := make([]Turn, len(s.History)-start)
	copy(out, s.History[start:])
	return out
}
