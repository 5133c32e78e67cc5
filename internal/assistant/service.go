// Package assistant собирает ответ на сообщение пользователя: определяет
// намерение, достает данные из таблиц и передает их модели вместе с историей.
package assistant

import (
	"context"
	"time"

	"github.com/EugenyBaz/ChekhovAgent/internal/botconfig_parser"
	"github.com/EugenyBaz/ChekhovAgent/internal/cache"
	"github.com/EugenyBaz/ChekhovAgent/internal/database"
	"github.com/EugenyBaz/ChekhovAgent/internal/intent"
	"github.com/EugenyBaz/ChekhovAgent/internal/llm"
	"github.com/EugenyBaz/ChekhovAgent/internal/logger"
	"github.com/EugenyBaz/ChekhovAgent/internal/sheets"

	"github.com/google/uuid"
)

// Clubs - справочник клубов
type Clubs interface {
	LoadRows(ctx context.Context, sheet string) []sheets.Record
	ListDistricts(ctx context.Context, sheet string) []string
	ListCities(ctx context.Context, sheet string) []string
}

// Classes - справочник групповых занятий
type Classes interface {
	ListAll(ctx context.Context) []sheets.Record
	ClassesOfferedBy(ctx context.Context, clubName string) []string
	ClubsOffering(ctx context.Context, className string) []string
	CheckJoin(ctx context.Context, clubNames []string) sheets.JoinReport
}

type Service struct {
	store     *cache.Store
	clubs     Clubs
	classes   Classes
	generator llm.Generator
	texts     *botconfig_parser.Holder

	clubsSheet string
	timeout    time.Duration
}

type Options struct {
	ClubsSheet string
	// ограничение на ответ модели
	Timeout time.Duration
}

func New(store *cache.Store, clubs Clubs, classes Classes, generator llm.Generator, texts *botconfig_parser.Holder, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Service{
		store:      store,
		clubs:      clubs,
		classes:    classes,
		generator:  generator,
		texts:      texts,
		clubsSheet: opts.ClubsSheet,
		timeout:    opts.Timeout,
	}
}

// Start создает состояние пользователя и возвращает приветствие
func (s *Service) Start(userID int64) string {
	s.store.Ensure(userID)
	return s.texts.Current().GreetingMessage
}

// Reply обрабатывает один ход диалога. Ошибка модели не возвращается:
// пользователь получает извинение, а в историю не попадает ответ ассистента.
func (s *Service) Reply(ctx context.Context, userID int64, text string) string {
	turnID := uuid.NewString()
	texts := s.texts.Current()

	st := s.store.Ensure(userID)
	st.Lock()
	defer st.Unlock()

	s.store.AppendHistory(userID, database.ROLE_USER, text)

	catalog := s.loadCatalog(ctx)
	detected := intent.NewDetector(catalog.clubNames(), catalog.classNames(), texts.KeywordStems...).Detect(text)
	if detected.HasEntity() {
		detected.Entity = catalog.resolve(detected)
	}
	logger.Info(turnID, "user", userID, "intent", detected.Intent, detected.Entity)

	var facts string
	switch detected.Intent {
	case intent.ClubsByClass:
		facts = s.clubsByClassFacts(ctx, catalog, detected.Entity, texts.NoData)
	case intent.ClassesByClub:
		if club, ok := catalog.club(detected.Entity); ok {
			st.SelectedClub = club.Name
		}
		facts = s.classesByClubFacts(ctx, catalog, detected.Entity, texts.NoData)
	case intent.ListAllClasses:
		facts = listAllClassesFacts(catalog, texts.NoData)
	default:
		facts = s.broadFacts(ctx, catalog, texts)
	}

	prompt := renderPrompt(st.Stage, detected.Intent, st.LastTurns(database.HISTORY_LIMIT), facts, texts.Rules)
	logger.Debug(turnID, "prompt:", prompt)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.generator.Generate(genCtx, texts.SystemPrompt, prompt)
	if err != nil {
		logger.Warning(turnID, "Ошибка при обращении к модели:", err)
		return texts.ErrorMessages.Generation
	}

	s.store.AppendHistory(userID, database.ROLE_ASSISTANT, answer)
	return answer
}

// Catalog - сводка по справочникам для проверки данных
type Catalog struct {
	Districts []string          `json:"districts"`
	Cities    []string          `json:"cities"`
	Clubs     []string          `json:"clubs"`
	Classes   []string          `json:"classes"`
	Join      sheets.JoinReport `json:"join"`
}

func (s *Service) Catalog(ctx context.Context) Catalog {
	clubs := sheets.Names(s.clubs.LoadRows(ctx, s.clubsSheet))
	return Catalog{
		Districts: s.clubs.ListDistricts(ctx, s.clubsSheet),
		Cities:    s.clubs.ListCities(ctx, s.clubsSheet),
		Clubs:     clubs,
		Classes:   sheets.Names(s.classes.ListAll(ctx)),
		Join:      s.classes.CheckJoin(ctx, clubs),
	}
}

// CheckJoin пишет в лог расхождения между листом занятий и справочником клубов.
// Расхождения не мешают работе, но такие клубы не найдутся по занятиям.
func (s *Service) CheckJoin(ctx context.Context) sheets.JoinReport {
	report := s.classes.CheckJoin(ctx, sheets.Names(s.clubs.LoadRows(ctx, s.clubsSheet)))
	if !report.OK() {
		logger.Warning("Колонки листа занятий не совпадают с клубами:",
			"неизвестные колонки", report.UnknownColumns,
			"клубы без колонки", report.ClubsWithoutColumn)
	}
	return report
}
