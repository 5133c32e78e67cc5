package sheets

import (
	"context"
	"sort"
	"strings"

	"github.com/EugenyBaz/ChekhovAgent/internal/logger"
)

// Gateway читает листы одной таблицы. Ошибки чтения не возвращаются:
// они пишутся в лог, а вызывающий получает пустой результат.
type Gateway struct {
	src           Source
	spreadsheetID string
}

func New(src Source, spreadsheetID string) *Gateway {
	return &Gateway{src: src, spreadsheetID: spreadsheetID}
}

// LoadRows - строки листа, сопоставленные с заголовками по позиции.
// Короткая строка дает запись без последних полей.
func (g *Gateway) LoadRows(ctx context.Context, sheet string) []Record {
	_, records := g.load(ctx, sheet)
	return records
}

// load - заголовки листа в исходном порядке и записи
func (g *Gateway) load(ctx context.Context, sheet string) ([]string, []Record) {
	values, err := g.src.Values(ctx, g.spreadsheetID, sheet)
	if err != nil {
		logger.Warning("Ошибка чтения листа", sheet, err)
		return nil, []Record{}
	}
	if len(values) == 0 {
		logger.Warning("Лист пустой:", sheet)
		return nil, []Record{}
	}

	headers := values[0]
	records := make([]Record, 0, len(values)-1)
	for _, row := range values[1:] {
		records = append(records, zip(headers, row))
	}

	logger.Debug("Прочитан лист", sheet, len(records))
	return headers, records
}

func zip(headers, row []string) Record {
	r := make(Record, len(headers))
	for i, h := range headers {
		if i >= len(row) {
			break
		}
		r[h] = row[i]
	}
	return r
}

// ListDistricts - районы из колонки district: ячейка делится по "+",
// уточнение в скобках отбрасывается.
func (g *Gateway) ListDistricts(ctx context.Context, sheet string) []string {
	set := make(map[string]struct{})
	for _, r := range g.LoadRows(ctx, sheet) {
		cell := r.District()
		if cell == "" {
			continue
		}
		for _, part := range strings.Split(cell, "+") {
			part = strings.TrimSpace(part)
			if i := strings.Index(part, "("); i >= 0 {
				part = strings.TrimSpace(part[:i])
			}
			if part != "" {
				set[part] = struct{}{}
			}
		}
	}

	return sortedKeys(set)
}

// ListCities - города из адресов (часть после последней запятой), кроме Ташкента
func (g *Gateway) ListCities(ctx context.Context, sheet string) []string {
	set := make(map[string]struct{})
	for _, r := range g.LoadRows(ctx, sheet) {
		cell := r.Address()
		if cell == "" {
			continue
		}
		city := cell
		if i := strings.LastIndex(cell, ","); i >= 0 {
			city = cell[i+1:]
		}
		city = strings.TrimSpace(city)
		if city == "" || strings.EqualFold(city, HOME_CITY) {
			continue
		}
		set[city] = struct{}{}
	}

	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
