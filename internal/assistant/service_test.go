package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/EugenyBaz/ChekhovAgent/internal/botconfig_parser"
	"github.com/EugenyBaz/ChekhovAgent/internal/cache"
	"github.com/EugenyBaz/ChekhovAgent/internal/database"
	"github.com/EugenyBaz/ChekhovAgent/internal/intent"
	"github.com/EugenyBaz/ChekhovAgent/internal/llm"
	"github.com/EugenyBaz/ChekhovAgent/internal/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clubsSheet = "all_departments"

type fakeSource struct {
	mu     sync.Mutex
	sheets map[string][][]string
	err    error
}

func (f *fakeSource) Values(_ context.Context, _, sheet string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.sheets[sheet], nil
}

// recorder запоминает последний запрос и отвечает как Mock
type recorder struct {
	mu     sync.Mutex
	system string
	prompt string
	calls  int
	err    error
	wait   bool
}

func (r *recorder) Generate(ctx context.Context, system, prompt string) (string, error) {
	r.mu.Lock()
	r.system, r.prompt = system, prompt
	r.calls++
	err, wait := r.err, r.wait
	r.mu.Unlock()

	if wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	return llm.Mock{}.Generate(ctx, system, prompt)
}

func (r *recorder) lastPrompt() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prompt
}

func defaultSheets() map[string][][]string {
	return map[string][][]string{
		clubsSheet: {
			{"Name", "address", "phone", "Notes", "district"},
			{"Chekhov Sport", "г.Ташкент, ул. Фидокор, 40/1", "998 90 929-20-00", "", "Мирабад + Юнусабад (север)"},
			{"Alpha", "ул. Первая, 1, Ташкент", "111", "бассейн", "Чиланзар"},
			{"Beta", "ул. Вторая, 2, Самарканд", "222", "", ""},
		},
		sheets.CLASSES_SHEET: {
			{"Name", "description", "Time", "paid", "Chekhov Sport", "Alpha", "Beta"},
			{"Йога", "растяжка и дыхание", "10:00", "Нет", "Нет", "Да", "Да"},
			{"Бокс", "", "19:00", "Да", "Да", "Нет", "Нет"},
		},
	}
}

type fixture struct {
	svc   *Service
	store *cache.Store
	src   *fakeSource
	gen   *recorder
	texts botconfig_parser.Texts
}

func newFixture(t *testing.T, data map[string][][]string) *fixture {
	t.Helper()

	store, err := cache.NewStore(context.Background(), time.Hour, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	src := &fakeSource{sheets: data}
	g := sheets.New(src, "spreadsheet")
	gen := &recorder{}
	texts := botconfig_parser.Default()

	svc := New(store, g, sheets.NewGroupClasses(g), gen, botconfig_parser.NewHolder(texts), Options{
		ClubsSheet: clubsSheet,
		Timeout:    time.Second,
	})
	return &fixture{svc: svc, store: store, src: src, gen: gen, texts: texts}
}

// facts - раздел запроса с данными из таблиц
func facts(prompt string) string {
	i := strings.Index(prompt, llm.FACTS_HEADER)
	j := strings.Index(prompt, llm.RULES_HEADER)
	if i < 0 || j < i {
		return ""
	}
	return prompt[i+len(llm.FACTS_HEADER) : j]
}

func TestReplyClubByName(t *testing.T) {
	f := newFixture(t, defaultSheets())

	answer := f.svc.Reply(context.Background(), 1, "Chekhov Sport")

	assert.Contains(t, answer, "Chekhov Sport")
	assert.Contains(t, answer, "Ташкент")
	assert.Contains(t, answer, llm.MOCK_PREFIX)

	prompt := f.gen.lastPrompt()
	assert.Contains(t, prompt, "Намерение пользователя: "+string(intent.ClassesByClub))
	block := facts(prompt)
	assert.Contains(t, block, "Адрес: г.Ташкент, ул. Фидокор, 40/1")
	assert.Contains(t, block, "Телефон: 998 90 929-20-00")
	assert.Contains(t, block, "Групповые занятия в клубе: Бокс")

	st, _ := f.store.Get(1)
	assert.Equal(t, "Chekhov Sport", st.SelectedClub)
	assert.Equal(t, database.NEED_CLUB, st.Stage)
}

func TestReplyBroadContext(t *testing.T) {
	f := newFixture(t, defaultSheets())

	f.svc.Reply(context.Background(), 1, "Здравствуйте, подскажите абонемент")

	prompt := f.gen.lastPrompt()
	assert.Contains(t, prompt, "Намерение пользователя: "+string(intent.Unknown))
	block := facts(prompt)
	assert.Contains(t, block, "Районы Ташкента, где есть клубы: Мирабад, Чиланзар, Юнусабад\n")
	assert.Contains(t, block, "Другие города: Бухара, Самарканд\n")
	assert.Contains(t, block, "Клубы: Chekhov Sport, Alpha, Beta\n")
	assert.Contains(t, block, "Групповые занятия: Йога, Бокс\n")
}

func TestReplyClubsByClass(t *testing.T) {
	f := newFixture(t, defaultSheets())

	f.svc.Reply(context.Background(), 1, "где есть ЙОГА в Chekhov Sport?")

	prompt := f.gen.lastPrompt()
	assert.Contains(t, prompt, "Намерение пользователя: "+string(intent.ClubsByClass))
	block := facts(prompt)
	assert.Contains(t, block, "Занятие: Йога")
	assert.Contains(t, block, "Описание: растяжка и дыхание")
	assert.Contains(t, block, "- Alpha: адрес ул. Первая, 1, Ташкент, телефон 111")
	assert.Contains(t, block, "- Beta: адрес ул. Вторая, 2, Самарканд, телефон 222")
	assert.NotContains(t, block, "- Chekhov Sport")
}

func TestReplyClubsByClassUnknownColumn(t *testing.T) {
	data := defaultSheets()
	data[sheets.CLASSES_SHEET] = [][]string{
		{"Name", "description", "Time", "paid", "Закрытый клуб"},
		{"Йога", "", "", "", "Да"},
	}
	f := newFixture(t, data)

	f.svc.Reply(context.Background(), 1, "йога")

	assert.Contains(t, facts(f.gen.lastPrompt()), "- Закрытый клуб: нет данных")
}

func TestReplyListAllClasses(t *testing.T) {
	f := newFixture(t, defaultSheets())

	f.svc.Reply(context.Background(), 1, "Какие у вас тренировки?")

	prompt := f.gen.lastPrompt()
	assert.Contains(t, prompt, "Намерение пользователя: "+string(intent.ListAllClasses))
	assert.Equal(t, "\nГрупповые занятия: Йога, Бокс\n\n", facts(prompt))
}

func TestReplyClubWithoutClasses(t *testing.T) {
	data := defaultSheets()
	data[clubsSheet] = append(data[clubsSheet], []string{"Atlas", "ул. Третья, 3, Ташкент"})
	f := newFixture(t, data)

	f.svc.Reply(context.Background(), 1, "расскажите про atlas")

	block := facts(f.gen.lastPrompt())
	assert.Contains(t, block, "Клуб: Atlas")
	assert.Contains(t, block, "Телефон: нет данных")
	assert.Contains(t, block, "Групповые занятия в клубе: нет данных")
}

func TestReplySanitizesClubFields(t *testing.T) {
	data := map[string][][]string{
		clubsSheet: {
			{"Name", "address", "phone"},
			{"«Atlas»\nGym", "ул. \"Новая\",\n5", " 333 "},
		},
		sheets.CLASSES_SHEET: {
			{"Name", "description", "Time", "paid", "«Atlas»\nGym"},
			{"Йога", "", "", "", "Да"},
		},
	}
	f := newFixture(t, data)

	f.svc.Reply(context.Background(), 1, "что есть в atlas gym")
	block := facts(f.gen.lastPrompt())
	assert.Contains(t, block, "Клуб: Atlas Gym\n")
	assert.Contains(t, block, "Адрес: ул. Новая, 5\n")
	assert.Contains(t, block, "Телефон: 333\n")
	assert.Contains(t, block, "Групповые занятия в клубе: Йога")
	assert.NotContains(t, block, "«")
	assert.NotContains(t, block, `"`)

	f.svc.Reply(context.Background(), 2, "йога")
	assert.Contains(t, facts(f.gen.lastPrompt()), "- Atlas Gym: адрес ул. Новая, 5, телефон 333")
}

func TestReplyEmptySheets(t *testing.T) {
	f := newFixture(t, map[string][][]string{})
	f.src.err = errors.New("sheets unavailable")

	answer := f.svc.Reply(context.Background(), 1, "Chekhov Sport")
	assert.Contains(t, answer, llm.MOCK_PREFIX)

	block := facts(f.gen.lastPrompt())
	assert.Contains(t, block, "Районы Ташкента, где есть клубы: нет данных")
	assert.Contains(t, block, "Клубы: нет данных")
}

func TestReplyGenerationFailure(t *testing.T) {
	f := newFixture(t, defaultSheets())
	f.gen.err = errors.New("503")

	answer := f.svc.Reply(context.Background(), 1, "привет")
	assert.Equal(t, f.texts.ErrorMessages.Generation, answer)

	st, ok := f.store.Get(1)
	require.True(t, ok)
	require.Len(t, st.History, 1)
	assert.Equal(t, database.ROLE_USER, st.History[0].Role)
	assert.Equal(t, "привет", st.History[0].Content)
}

func TestReplyGenerationTimeout(t *testing.T) {
	f := newFixture(t, defaultSheets())
	f.svc.timeout = 50 * time.Millisecond
	f.gen.wait = true

	start := time.Now()
	answer := f.svc.Reply(context.Background(), 1, "привет")
	assert.Equal(t, f.texts.ErrorMessages.Generation, answer)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestReplyKeepsBoundedHistory(t *testing.T) {
	f := newFixture(t, defaultSheets())

	for i := 0; i < 5; i++ {
		f.svc.Reply(context.Background(), 1, fmt.Sprintf("вопрос %d", i))
	}

	st, _ := f.store.Get(1)
	require.Len(t, st.History, database.HISTORY_LIMIT)
	assert.Equal(t, "вопрос 2", st.History[0].Content)
	assert.Equal(t, database.ROLE_ASSISTANT, st.History[5].Role)

	prompt := f.gen.lastPrompt()
	assert.NotContains(t, prompt, "вопрос 1")
	assert.Contains(t, prompt, "Пользователь: вопрос 4")
	assert.Contains(t, prompt, "Пользователь: вопрос 2")
}

func TestReplyPromptLayout(t *testing.T) {
	f := newFixture(t, defaultSheets())

	f.svc.Reply(context.Background(), 1, "привет")
	f.svc.Reply(context.Background(), 1, "Какие тренировки?")

	prompt := f.gen.lastPrompt()
	assert.True(t, strings.HasPrefix(prompt, "Этап диалога: NEED_CLUB\n"))
	assert.Contains(t, prompt, "Пользователь: привет\nАссистент: "+llm.MOCK_PREFIX)
	for _, rule := range f.texts.Rules {
		assert.Contains(t, prompt, "- "+rule)
	}
	assert.Equal(t, f.texts.SystemPrompt, f.gen.system)
}

func TestReplySerializesSameUser(t *testing.T) {
	f := newFixture(t, defaultSheets())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.svc.Reply(context.Background(), 1, fmt.Sprintf("сообщение %d", i))
		}(i)
	}
	wg.Wait()

	st, _ := f.store.Get(1)
	require.Len(t, st.History, database.HISTORY_LIMIT)
	for i, turn := range st.History {
		want := database.ROLE_USER
		if i%2 == 1 {
			want = database.ROLE_ASSISTANT
		}
		assert.Equal(t, want, turn.Role, "turn %d", i)
	}
}

func TestStart(t *testing.T) {
	f := newFixture(t, defaultSheets())

	assert.Equal(t, f.texts.GreetingMessage, f.svc.Start(5))
	st, ok := f.store.Get(5)
	require.True(t, ok)
	assert.Empty(t, st.History)
	assert.Zero(t, f.gen.calls)
}

func TestCatalog(t *testing.T) {
	data := defaultSheets()
	data[clubsSheet][1][1] = "ул. Фидокор, 40/1, Ташкент"
	f := newFixture(t, data)

	c := f.svc.Catalog(context.Background())
	assert.Equal(t, []string{"Мирабад", "Чиланзар", "Юнусабад"}, c.Districts)
	assert.Equal(t, []string{"Самарканд"}, c.Cities)
	assert.Equal(t, []string{"Chekhov Sport", "Alpha", "Beta"}, c.Clubs)
	assert.Equal(t, []string{"Йога", "Бокс"}, c.Classes)
	assert.True(t, c.Join.OK())
}

func TestCheckJoin(t *testing.T) {
	data := defaultSheets()
	data[sheets.CLASSES_SHEET][0][4] = "Chekhov Sport "
	f := newFixture(t, data)

	report := f.svc.CheckJoin(context.Background())
	assert.Equal(t, []string{"Chekhov Sport "}, report.UnknownColumns)
	assert.Equal(t, []string{"Chekhov Sport"}, report.ClubsWithoutColumn)
}

func TestResolveName(t *testing.T) {
	names := []string{"Chekhov Sport", "Chekhov Sport Chilanzar", "Atlas"}

	tests := []struct {
		entity string
		want   string
		ok     bool
	}{
		{"chekhov sport", "Chekhov Sport", true},
		{"CHILANZAR", "Chekhov Sport Chilanzar", true},
		{"atl", "Atlas", true},
		{"Unknown", "", false},
		{"  ", "", false},
	}
	for _, tt := range tests {
		got, ok := resolveName(names, tt.entity)
		assert.Equal(t, tt.ok, ok, tt.entity)
		assert.Equal(t, tt.want, got, tt.entity)
	}
}
