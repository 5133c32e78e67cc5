package sheets

import (
	"context"
	"strings"
)

const (
	// лист групповых занятий
	CLASSES_SHEET = "group_classes"
	// значение в колонке клуба: занятие проводится в этом клубе
	MARKER_YES = "Да"
)

// зарезервированные колонки листа занятий, остальные колонки - клубы
var reservedClassFields = map[string]bool{
	FIELD_NAME:        true,
	FIELD_DESCRIPTION: true,
	FIELD_TIME:        true,
	FIELD_PAID:        true,
}

// GroupClasses - справочник групповых занятий. Для каждого клуба в листе
// есть колонка с его названием, "Да" в ней означает что занятие там проводится.
type GroupClasses struct {
	g *Gateway
}

func NewGroupClasses(g *Gateway) *GroupClasses {
	return &GroupClasses{g: g}
}

func (c *GroupClasses) ListAll(ctx context.Context) []Record {
	return c.g.LoadRows(ctx, CLASSES_SHEET)
}

// ClassesOfferedBy - занятия клуба. Название клуба должно точно совпадать с заголовком колонки.
func (c *GroupClasses) ClassesOfferedBy(ctx context.Context, clubName string) []string {
	names := []string{}
	for _, row := range c.ListAll(ctx) {
		if row.Get(clubName) == MARKER_YES {
			names = append(names, row.Name())
		}
	}
	return names
}

// ClubsOffering - клубы, где проходит занятие, в порядке колонок листа.
// Название занятия сравнивается без учета регистра.
func (c *GroupClasses) ClubsOffering(ctx context.Context, className string) []string {
	headers, rows := c.g.load(ctx, CLASSES_SHEET)
	for _, r := range rows {
		if !strings.EqualFold(r.Name(), className) {
			continue
		}

		clubs := []string{}
		for _, h := range headers {
			if reservedClassFields[h] {
				continue
			}
			if r[h] == MARKER_YES {
				clubs = append(clubs, h)
			}
		}
		return clubs
	}

	return []string{}
}

// JoinReport - расхождения между колонками листа занятий и справочником клубов
type JoinReport struct {
	// колонки-клубы, которых нет в справочнике клубов
	UnknownColumns []string `json:"unknown_columns"`
	// клубы без своей колонки в листе занятий
	ClubsWithoutColumn []string `json:"clubs_without_column"`
}

func (r JoinReport) OK() bool {
	return len(r.UnknownColumns) == 0 && len(r.ClubsWithoutColumn) == 0
}

// CheckJoin сверяет заголовки колонок листа занятий с названиями клубов.
// Сравнение точное: лишний пробел в названии уже ломает связь.
func (c *GroupClasses) CheckJoin(ctx context.Context, clubNames []string) JoinReport {
	report := JoinReport{UnknownColumns: []string{}, ClubsWithoutColumn: []string{}}

	headers, _ := c.g.load(ctx, CLASSES_SHEET)
	if len(headers) == 0 {
		return report
	}

	columns := make(map[string]bool)
	for _, h := range headers {
		if !reservedClassFields[h] {
			columns[h] = true
		}
	}

	known := make(map[string]bool, len(clubNames))
	for _, name := range clubNames {
		known[name] = true
		if !columns[name] {
			report.ClubsWithoutColumn = append(report.ClubsWithoutColumn, name)
		}
	}
	for _, h := range headers {
		if columns[h] && !known[h] {
			report.UnknownColumns = append(report.UnknownColumns, h)
		}
	}

	return report
}
