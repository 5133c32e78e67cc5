package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/EugenyBaz/ChekhovAgent/internal/botconfig_parser"
	"github.com/EugenyBaz/ChekhovAgent/internal/sheets"
)

func (s *Service) clubsByClassFacts(ctx context.Context, c catalog, className, noData string) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "Занятие: %s\n", className)

	raw := className
	if cl, ok := c.class(className); ok {
		raw = cl.RawName
		writeOptional(b, "Описание", cl.Description)
		writeOptional(b, "Время", cl.Time)
		writeOptional(b, "Платное", cl.Paid)
	}

	columns := s.classes.ClubsOffering(ctx, raw)
	if len(columns) == 0 {
		fmt.Fprintf(b, "Клубы, где проходит занятие: %s\n", noData)
		return b.String()
	}

	b.WriteString("Клубы, где проходит занятие:\n")
	for _, column := range columns {
		cl, ok := c.clubByColumn(column)
		if !ok {
			fmt.Fprintf(b, "- %s: %s\n", sheets.Sanitize(column), noData)
			continue
		}
		fmt.Fprintf(b, "- %s: адрес %s, телефон %s\n", cl.Name, orNoData(cl.Address, noData), orNoData(cl.Phone, noData))
	}
	return b.String()
}

func (s *Service) classesByClubFacts(ctx context.Context, c catalog, clubName, noData string) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "Клуб: %s\n", clubName)

	cl, ok := c.club(clubName)
	if !ok {
		fmt.Fprintf(b, "Адрес: %s\nТелефон: %s\n", noData, noData)
		fmt.Fprintf(b, "Групповые занятия в клубе: %s\n", noData)
		return b.String()
	}

	fmt.Fprintf(b, "Адрес: %s\n", orNoData(cl.Address, noData))
	fmt.Fprintf(b, "Телефон: %s\n", orNoData(cl.Phone, noData))
	writeOptional(b, "Примечания", cl.Notes)

	classes := s.classes.ClassesOfferedBy(ctx, cl.RawName)
	fmt.Fprintf(b, "Групповые занятия в клубе: %s\n", joinOrNoData(sanitizeAll(classes), noData))
	return b.String()
}

func listAllClassesFacts(c catalog, noData string) string {
	return fmt.Sprintf("Групповые занятия: %s\n", joinOrNoData(c.classNames(), noData))
}

// broadFacts - общий контекст, когда непонятно о чем вопрос
func (s *Service) broadFacts(ctx context.Context, c catalog, texts botconfig_parser.Texts) string {
	b := &strings.Builder{}
	districts := s.clubs.ListDistricts(ctx, s.clubsSheet)

	fmt.Fprintf(b, "Районы Ташкента, где есть клубы: %s\n", joinOrNoData(districts, texts.NoData))
	fmt.Fprintf(b, "Другие города: %s\n", joinOrNoData(sortedCopy(texts.FallbackCities), texts.NoData))
	fmt.Fprintf(b, "Клубы: %s\n", joinOrNoData(c.clubNames(), texts.NoData))
	fmt.Fprintf(b, "Групповые занятия: %s\n", joinOrNoData(c.classNames(), texts.NoData))
	return b.String()
}

func writeOptional(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}
}

func orNoData(value, noData string) string {
	if value == "" {
		return noData
	}
	return value
}

func joinOrNoData(values []string, noData string) string {
	if len(values) == 0 {
		return noData
	}
	return strings.Join(values, ", ")
}
