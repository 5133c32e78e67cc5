package assistant

import (
	"context"
	"sort"
	"strings"

	"github.com/EugenyBaz/ChekhovAgent/internal/intent"
	"github.com/EugenyBaz/ChekhovAgent/internal/sheets"
)

// club - очищенные поля клуба. RawName - название как в таблице,
// по нему ищется колонка клуба в листе занятий.
type club struct {
	Name    string
	RawName string
	Address string
	Phone   string
	Notes   string
}

type class struct {
	Name        string
	RawName     string
	Description string
	Time        string
	Paid        string
}

// catalog - снимок справочников на один ход
type catalog struct {
	clubs   []club
	classes []class
}

func (s *Service) loadCatalog(ctx context.Context) catalog {
	var c catalog

	for _, r := range s.clubs.LoadRows(ctx, s.clubsSheet) {
		name := sheets.Sanitize(r.Name())
		if name == "" {
			continue
		}
		c.clubs = append(c.clubs, club{
			Name:    name,
			RawName: r.Name(),
			Address: sheets.Sanitize(r.Address()),
			Phone:   sheets.Sanitize(r.Phone()),
			Notes:   sheets.Sanitize(r.Notes()),
		})
	}

	for _, r := range s.classes.ListAll(ctx) {
		name := sheets.Sanitize(r.Name())
		if name == "" {
			continue
		}
		c.classes = append(c.classes, class{
			Name:        name,
			RawName:     r.Name(),
			Description: sheets.Sanitize(r.Get(sheets.FIELD_DESCRIPTION)),
			Time:        sheets.Sanitize(r.Get(sheets.FIELD_TIME)),
			Paid:        sheets.Sanitize(r.Get(sheets.FIELD_PAID)),
		})
	}

	return c
}

func (c catalog) clubNames() []string {
	names := make([]string, len(c.clubs))
	for i, cl := range c.clubs {
		names[i] = cl.Name
	}
	return names
}

func (c catalog) classNames() []string {
	names := make([]string, len(c.classes))
	for i, cl := range c.classes {
		names[i] = cl.Name
	}
	return names
}

// club - первый клуб с таким названием, дубликаты пропускаются
func (c catalog) club(name string) (club, bool) {
	for _, cl := range c.clubs {
		if cl.Name == name {
			return cl, true
		}
	}
	return club{}, false
}

// clubByColumn - клуб по заголовку колонки листа занятий
func (c catalog) clubByColumn(column string) (club, bool) {
	for _, cl := range c.clubs {
		if cl.RawName == column {
			return cl, true
		}
	}
	return c.club(sheets.Sanitize(column))
}

func (c catalog) class(name string) (class, bool) {
	for _, cl := range c.classes {
		if cl.Name == name {
			return cl, true
		}
	}
	return class{}, false
}

// resolve приводит найденное название к написанию из справочника:
// сначала точное совпадение без учета регистра, затем название из справочника,
// содержащее найденное. Если ничего не подошло, название остается как есть.
func (c catalog) resolve(res intent.Result) string {
	names := c.clubNames()
	if res.Intent == intent.ClubsByClass {
		names = c.classNames()
	}
	if canonical, ok := resolveName(names, res.Entity); ok {
		return canonical
	}
	return res.Entity
}

func resolveName(names []string, entity string) (string, bool) {
	entity = strings.TrimSpace(entity)
	if entity == "" {
		return "", false
	}
	for _, name := range names {
		if strings.EqualFold(name, entity) {
			return name, true
		}
	}

	lower := strings.ToLower(entity)
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), lower) {
			return name, true
		}
	}
	return "", false
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func sanitizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = sheets.Sanitize(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
