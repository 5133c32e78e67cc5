package sheets

import "strings"

// названия колонок в таблицах клубов и групповых занятий
const (
	FIELD_NAME        = "Name"
	FIELD_ADDRESS     = "address"
	FIELD_PHONE       = "phone"
	FIELD_NOTES       = "Notes"
	FIELD_DISTRICT    = "district"
	FIELD_DESCRIPTION = "description"
	FIELD_TIME        = "Time"
	FIELD_PAID        = "paid"
)

// HOME_CITY - город, районы которого перечислены в колонке district
const HOME_CITY = "Ташкент"

// Record - строка таблицы: заголовок колонки -> значение ячейки
type Record map[string]string

func (r Record) Get(field string) string { return r[field] }

func (r Record) Name() string     { return r[FIELD_NAME] }
func (r Record) Address() string  { return r[FIELD_ADDRESS] }
func (r Record) Phone() string    { return r[FIELD_PHONE] }
func (r Record) Notes() string    { return r[FIELD_NOTES] }
func (r Record) District() string { return r[FIELD_DISTRICT] }

var quoteReplacer = strings.NewReplacer(
	`"`, "",
	`'`, "",
	"«", "",
	"»", "",
	"“", "",
	"”", "",
	"„", "",
)

// Sanitize убирает кавычки, склеивает переносы строк в пробел и обрезает пробелы.
// Значения ячеек проходят через нее перед сравнением и подстановкой в запрос к модели.
func Sanitize(s string) string {
	return strings.Join(strings.Fields(quoteReplacer.Replace(s)), " ")
}

// Names - значения колонки Name в порядке строк
func Names(records []Record) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		if name := r.Name(); name != "" {
			names = append(names, name)
		}
	}
	return names
}
