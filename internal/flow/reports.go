package flow

import (
	"context"
	"fmt"
	"strings"

	"prokat/internal/models"
)

func (e *Engine) reportMenu() Reply {
	rows := [][]Button{
		{{Label: labelReportFinance, Data: CallbackReport + ReportFinance}},
		{{Label: labelReportInventory, Data: CallbackReport + ReportInventory}},
		{{Label: labelReportPopular, Data: CallbackReport + ReportPopular}},
	}
	if e.exporter != nil {
		rows = append(rows, []Button{{Label: labelReportExport, Data: CallbackReport + ReportExport}})
	}
	return Reply{Text: msgChooseReport, Inline: rows}
}

func (e *Engine) report(ctx context.Context, in Inbound, kind string) []Reply {
	var (
		reply Reply
		err   error
	)

	switch kind {
	case ReportFinance:
		reply, err = e.financeReport(ctx)
	case ReportInventory:
		reply, err = e.inventoryReport(ctx)
	case ReportPopular:
		reply, err = e.popularReport(ctx)
	case ReportExport:
		if e.exporter == nil {
			return []Reply{plain(msgUnknownReport)}
		}
		reply, err = e.exportReport(ctx)
	default:
		return []Reply{plain(msgUnknownReport)}
	}

	if err != nil {
		e.logger.Error().Err(err).Int64("user_id", in.UserID).Str("report", kind).Msg("report failed")
		return []Reply{plain(msgReportFailed)}
	}
	return []Reply{reply}
}

func (e *Engine) financeReport(ctx context.Context) (Reply, error) {
	r, err := e.rentals.FinanceReport(ctx)
	if err != nil {
		return Reply{}, err
	}
	if r.Total == nil {
		return plain(msgFinanceEmpty), nil
	}
	return plain(fmt.Sprintf(msgFinance, formatRub(*r.Total), r.Count)), nil
}

func (e *Engine) inventoryReport(ctx context.Context) (Reply, error) {
	rows, err := e.rentals.ReportInventoryByStatus(ctx)
	if err != nil {
		return Reply{}, err
	}
	if len(rows) == 0 {
		return plain(msgInventoryEmpty), nil
	}

	var b strings.Builder
	b.WriteString(msgInventoryHeader)
	for _, row := range rows {
		b.WriteString("\n")
		fmt.Fprintf(&b, msgInventoryLine, row.Type, row.Count, row.Status)
	}
	return plain(b.String()), nil
}

func (e *Engine) popularReport(ctx context.Context) (Reply, error) {
	items, err := e.rentals.ReportPopular(ctx)
	if err != nil {
		return Reply{}, err
	}
	if len(items) == 0 {
		return plain(msgPopularEmpty), nil
	}

	var b strings.Builder
	b.WriteString(msgPopularHeader)
	for i, item := range items {
		b.WriteString("\n")
		label := strings.TrimSpace(item.Type + " " + item.Brand)
		fmt.Fprintf(&b, msgPopularLine, i+1, item.ItemID, label, item.Rentals)
	}
	return plain(b.String()), nil
}

func (e *Engine) exportReport(ctx context.Context) (Reply, error) {
	start, end, err := e.rentals.FinancePeriod()
	if err != nil {
		return Reply{}, err
	}
	path, err := e.exporter.ExportReports(ctx, start, end)
	if err != nil {
		return Reply{}, err
	}
	return Reply{
		Text:     fmt.Sprintf(msgExportCaption, start.Format(models.DateLayout), end.Format(models.DateLayout)),
		Document: path,
	}, nil
}
