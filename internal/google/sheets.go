package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"prokat/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrRowNotFound строки с таким ID аренды нет в журнале
var ErrRowNotFound = errors.New("rental row not found")

var ledgerHeader = []interface{}{
	"ID аренды", "ID инвентаря", "Инвентарь", "Клиент", "Телефон", "Начало", "Окончание", "Стоимость",
}

// SheetsService пишет журнал аренд в Google Sheets.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string

	// rentalID -> номер строки (1-based)
	rowCache map[int64]int
	cacheMu  sync.RWMutex
}

func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*SheetsService, error) {
	// Читаем файл учетных данных сервисного аккаунта
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return newService(srv, spreadsheetID, sheetName), nil
}

func newService(srv *sheets.Service, spreadsheetID, sheetName string) *SheetsService {
	return &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		rowCache:      make(map[int64]int),
	}
}

func (s *SheetsService) rangeOf(cells string) string {
	return s.sheetName + "!" + cells
}

// TestConnection проверяет подключение к таблице
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeOf("A1")).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// EnsureHeader записывает заголовок, если лист пустой.
func (s *SheetsService) EnsureHeader(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeOf("A1:H1")).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{ledgerHeader}}
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, s.rangeOf("A1:H1"), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// AppendRental добавляет аренду в журнал. Повторная запись той же аренды
// (например после ретрая воркера) пропускается.
func (s *SheetsService) AppendRental(ctx context.Context, record *models.LedgerRecord) error {
	if record == nil || record.RentalID == 0 {
		return fmt.Errorf("rental id is required")
	}

	if _, err := s.FindRentalRow(ctx, record.RentalID); err == nil {
		return nil
	} else if !errors.Is(err, ErrRowNotFound) {
		return err
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{rentalRowValues(record)}}
	resp, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, s.rangeOf("A:H"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append rental %d: %w", record.RentalID, err)
	}

	if resp != nil && resp.Updates != nil {
		if row, ok := parseRowFromRange(resp.Updates.UpdatedRange); ok {
			s.setCachedRow(record.RentalID, row)
		}
	}
	return nil
}

// FindRentalRow ищет строку аренды по колонке A.
func (s *SheetsService) FindRentalRow(ctx context.Context, rentalID int64) (int, error) {
	if row, ok := s.getCachedRow(rentalID); ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeOf("A:A")).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read rental ids: %w", err)
	}

	want := strconv.FormatInt(rentalID, 10)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		var match bool
		switch v := row[0].(type) {
		case float64:
			match = int64(v) == rentalID
		case string:
			match = v == want
		}
		if match {
			rowIdx := i + 1 // Values are zero-based; sheet rows are 1-based
			s.setCachedRow(rentalID, rowIdx)
			return rowIdx, nil
		}
	}

	return 0, ErrRowNotFound
}

// ServiceAccountEmail возвращает email сервисного аккаунта из файла ключа
func ServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

func (s *SheetsService) getCachedRow(id int64) (int, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *SheetsService) setCachedRow(id int64, row int) {
	s.cacheMu.Lock()
	s.rowCache[id] = row
	s.cacheMu.Unlock()
}

func rentalRowValues(r *models.LedgerRecord) []interface{} {
	return []interface{}{
		r.RentalID,
		r.ItemID,
		r.ItemLabel,
		r.Client,
		r.Phone,
		r.Start.Format(time.DateTime),
		r.End.Format(time.DateTime),
		strconv.FormatFloat(r.TotalCost, 'f', 2, 64),
	}
}

// parseRowFromRange достает номер строки из "Rentals!A5:H5".
func parseRowFromRange(updated string) (int, bool) {
	i := len(updated)
	for i > 0 && updated[i-1] >= '0' && updated[i-1] <= '9' {
		i--
	}
	if i == len(updated) {
		return 0, false
	}
	row, err := strconv.Atoi(updated[i:])
	if err != nil || row <= 0 {
		return 0, false
	}
	return row, true
}
