package flow

import "prokat/internal/service"

// Inbound is one user event as the transport delivered it.
// Text is set for messages, Data for inline button callbacks.
type Inbound struct {
	UserID    int64
	ChatID    int64
	FirstName string
	Text      string
	Data      string
}

type Button struct {
	Label string
	Data  string
}

// Reply is a transport-neutral outgoing message.
type Reply struct {
	Text string
	// Keyboard строки reply-клавиатуры, nil оставляет текущую
	Keyboard       [][]string
	OneTime        bool
	RemoveKeyboard bool
	Inline         [][]Button
	// Document путь к файлу, который нужно отправить вместо текста
	Document string
}

const (
	LabelRent         = "🔄 Арендовать"
	LabelHelp         = "ℹ️ Помощь"
	LabelReports      = "📊 Отчеты"
	LabelAddInventory = "➕ Добавить инвентарь"
)

const (
	CommandStart  = "/start"
	CommandCancel = "/cancel"
	CommandHelp   = "/help"
)

// Префиксы callback data
const (
	CallbackRent   = "rent_"
	CallbackReport = "report_"
)

const (
	ReportFinance   = "finance"
	ReportInventory = "inventory"
	ReportPopular   = "popular"
	ReportExport    = "export"
)

var actionLabels = map[service.Action]string{
	service.ActionRent:         LabelRent,
	service.ActionHelp:         LabelHelp,
	service.ActionReports:      LabelReports,
	service.ActionAddInventory: LabelAddInventory,
}

func actionByLabel(text string) (service.Action, bool) {
	for action, label := range actionLabels {
		if label == text {
			return action, true
		}
	}
	return "", false
}

// menuKeyboard: первые два действия в одной строке, остальные по одному.
func menuKeyboard(actions []service.Action) [][]string {
	var rows [][]string
	var first []string
	for i, action := range actions {
		label := actionLabels[action]
		if i < 2 {
			first = append(first, label)
			continue
		}
		rows = append(rows, []string{label})
	}
	if len(first) > 0 {
		rows = append([][]string{first}, rows...)
	}
	return rows
}

func columnKeyboard(labels []string) [][]string {
	rows := make([][]string, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, []string{l})
	}
	return rows
}

func plain(msg string) Reply {
	return Reply{Text: msg}
}
