package sheets

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Source отдает значения листа таблицы как есть: первая строка - заголовки.
type Source interface {
	Values(ctx context.Context, spreadsheetID, sheet string) ([][]string, error)
}

// GoogleSource - чтение через Google Sheets API от имени сервисного аккаунта
type GoogleSource struct {
	srv *gsheets.Service
}

func NewGoogleSource(ctx context.Context, credentialsPath string) (*GoogleSource, error) {
	srv, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(gsheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "init google sheets service")
	}

	return &GoogleSource{srv: srv}, nil
}

func (s *GoogleSource) Values(ctx context.Context, spreadsheetID, sheet string) ([][]string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", sheet)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		rows = append(rows, cells)
	}

	return rows, nil
}
