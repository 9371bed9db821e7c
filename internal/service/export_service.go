package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"prokat/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	sheetRevenue   = "Выручка"
	sheetInventory = "Инвентарь"
	sheetPopular   = "Популярное"
)

// ReportSource is the subset of RentalService the exporter reads.
type ReportSource interface {
	ReportRevenue(ctx context.Context, start, end time.Time) (*models.RevenueReport, error)
	ReportInventoryByStatus(ctx context.Context) ([]models.InventoryCount, error)
	ReportPopular(ctx context.Context) ([]models.PopularItem, error)
}

type ExportService struct {
	reports ReportSource
	dir     string
	logger  *zerolog.Logger
}

func NewExportService(reports ReportSource, dir string, logger *zerolog.Logger) *ExportService {
	return &ExportService{
		reports: reports,
		dir:     dir,
		logger:  logger,
	}
}

// ExportReports пишет три отчета в один xlsx и возвращает путь к файлу.
func (s *ExportService) ExportReports(ctx context.Context, start, end time.Time) (string, error) {
	revenue, err := s.reports.ReportRevenue(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("revenue report: %w", err)
	}
	inventory, err := s.reports.ReportInventoryByStatus(ctx)
	if err != nil {
		return "", fmt.Errorf("inventory report: %w", err)
	}
	popular, err := s.reports.ReportPopular(ctx)
	if err != nil {
		return "", fmt.Errorf("popular report: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return "", fmt.Errorf("error creating style: %w", err)
	}

	if err := writeRevenueSheet(f, header, revenue); err != nil {
		return "", err
	}
	if err := writeTable(f, sheetInventory, header,
		[]string{"Тип", "Статус", "Количество"}, len(inventory),
		func(i int) []interface{} {
			r := inventory[i]
			return []interface{}{r.Type, r.Status, r.Count}
		}); err != nil {
		return "", err
	}
	if err := writeTable(f, sheetPopular, header,
		[]string{"№", "ID", "Позиция", "Аренд"}, len(popular),
		func(i int) []interface{} {
			p := popular[i]
			return []interface{}{i + 1, p.ItemID, p.Type + " " + p.Brand, p.Rentals}
		}); err != nil {
		return "", err
	}

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetRevenue); err == nil {
		f.SetActiveSheet(idx)
	}

	fileName := fmt.Sprintf("reports_%s_to_%s_%s.xlsx",
		start.Format(models.DateLayout),
		end.Format(models.DateLayout),
		time.Now().Format("150405"))
	filePath := filepath.Join(s.dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	s.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

func writeRevenueSheet(f *excelize.File, header int, r *models.RevenueReport) error {
	if _, err := f.NewSheet(sheetRevenue); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	var total interface{} = "нет данных"
	if r.Total != nil {
		total = *r.Total
	}

	rows := [][]interface{}{
		{"Период", r.Start.Format(models.DateLayout) + " - " + r.End.Format(models.DateLayout)},
		{"Выручка, руб.", total},
		{"Количество аренд", r.Count},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetRevenue, cell, &row); err != nil {
			return fmt.Errorf("error writing revenue: %w", err)
		}
	}
	_ = f.SetCellStyle(sheetRevenue, "A1", "A3", header)
	_ = f.SetColWidth(sheetRevenue, "A", "B", 25)
	return nil
}

func writeTable(f *excelize.File, sheet string, header int, headers []string, n int, row func(i int) []interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	for col, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", last, header)

	for i := 0; i < n; i++ {
		values := row(i)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("error writing %s: %w", sheet, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheet, "A", lastCol, 18)
	return nil
}
