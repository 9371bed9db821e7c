package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"prokat/internal/config"
	"prokat/internal/domain"
	"prokat/internal/models"
	"prokat/internal/service"

	"github.com/rs/zerolog"
)

// Engine advances per-user conversations. Every event of one user runs
// under that user's session lock; different users proceed in parallel.
type Engine struct {
	rentals  domain.RentalService
	users    domain.UserService
	sessions domain.StateManager
	exporter domain.ExportService
	policy   *service.AccessPolicy
	cfg      config.RentalConfig
	logger   *zerolog.Logger
}

// NewEngine builds the conversation engine. exporter may be nil, then the
// Excel export button is not offered.
func NewEngine(
	rentals domain.RentalService,
	users domain.UserService,
	sessions domain.StateManager,
	exporter domain.ExportService,
	cfg config.RentalConfig,
	logger *zerolog.Logger,
) *Engine {
	l := logger.With().Str("component", "flow").Logger()
	return &Engine{
		rentals:  rentals,
		users:    users,
		sessions: sessions,
		exporter: exporter,
		policy:   service.NewAccessPolicy(),
		cfg:      cfg,
		logger:   &l,
	}
}

// HandleMessage processes a text message.
func (e *Engine) HandleMessage(ctx context.Context, in Inbound) []Reply {
	unlock := e.sessions.Lock(in.UserID)
	defer unlock()

	msg := strings.TrimSpace(in.Text)

	switch msg {
	case CommandStart:
		return e.start(ctx, in)
	case CommandCancel:
		return e.cancel(ctx, in)
	case CommandHelp:
		msg = LabelHelp
	}

	// Кнопки меню прерывают незавершенный мастер
	if action, ok := actionByLabel(msg); ok {
		e.clear(ctx, in.UserID)
		return e.menuAction(ctx, in, action)
	}

	session, err := e.sessions.Get(ctx, in.UserID)
	if err != nil {
		return []Reply{plain(msgGenericError)}
	}
	if session != nil && !session.Valid() {
		e.logger.Warn().Int64("user_id", in.UserID).Str("kind", string(session.Kind)).Msg("dropping malformed session")
		e.clear(ctx, in.UserID)
		session = nil
	}

	if session != nil {
		switch session.Kind {
		case models.FlowRoleSelection:
			return e.selectRole(ctx, in, msg)
		case models.FlowRental:
			return e.advanceRental(ctx, in, session, msg)
		case models.FlowInventory:
			return e.advanceInventory(ctx, in, session, msg)
		}
	}

	role, err := e.users.GetRole(ctx, in.UserID)
	if err != nil {
		return e.failure(in, err, "get role")
	}
	if role == "" {
		return e.beginRegistration(ctx, in)
	}
	return []Reply{{Text: msgUnknownCommand, Keyboard: e.menu(role)}}
}

// HandleCallback processes an inline button press.
func (e *Engine) HandleCallback(ctx context.Context, in Inbound) []Reply {
	unlock := e.sessions.Lock(in.UserID)
	defer unlock()

	role, err := e.users.GetRole(ctx, in.UserID)
	if err != nil {
		return e.failure(in, err, "get role")
	}
	if role == "" {
		return e.beginRegistration(ctx, in)
	}

	switch {
	case strings.HasPrefix(in.Data, CallbackRent):
		itemID, err := strconv.ParseInt(strings.TrimPrefix(in.Data, CallbackRent), 10, 64)
		if err != nil || itemID <= 0 {
			return []Reply{plain(msgItemNotFound)}
		}
		return e.beginRental(ctx, in, itemID)
	case strings.HasPrefix(in.Data, CallbackReport):
		if !e.policy.Allowed(role, service.ActionReports) {
			return []Reply{{Text: msgAccessDenied, Keyboard: e.menu(role)}}
		}
		return e.report(ctx, in, strings.TrimPrefix(in.Data, CallbackReport))
	default:
		e.logger.Debug().Int64("user_id", in.UserID).Str("data", in.Data).Msg("unknown callback")
		return nil
	}
}

func (e *Engine) start(ctx context.Context, in Inbound) []Reply {
	e.clear(ctx, in.UserID)

	role, err := e.users.GetRole(ctx, in.UserID)
	if err != nil {
		return e.failure(in, err, "get role")
	}
	if role == "" {
		return e.beginRegistration(ctx, in)
	}
	return []Reply{{
		Text:     fmt.Sprintf(msgWelcomeBack, e.cfg.RoleLabel(role)),
		Keyboard: e.menu(role),
	}}
}

func (e *Engine) cancel(ctx context.Context, in Inbound) []Reply {
	e.clear(ctx, in.UserID)

	role, err := e.users.GetRole(ctx, in.UserID)
	if err != nil {
		return e.failure(in, err, "get role")
	}
	if role == "" {
		return e.beginRegistration(ctx, in)
	}
	return []Reply{{Text: msgCancelled, Keyboard: e.menu(role)}}
}

func (e *Engine) menuAction(ctx context.Context, in Inbound, action service.Action) []Reply {
	role, err := e.users.GetRole(ctx, in.UserID)
	if err != nil {
		return e.failure(in, err, "get role")
	}
	if role == "" {
		return e.beginRegistration(ctx, in)
	}
	if !e.policy.Allowed(role, action) {
		return []Reply{{Text: msgAccessDenied, Keyboard: e.menu(role)}}
	}

	switch action {
	case service.ActionRent:
		return e.listItems(ctx, in)
	case service.ActionHelp:
		return []Reply{plain(e.helpText(role))}
	case service.ActionReports:
		return []Reply{e.reportMenu()}
	case service.ActionAddInventory:
		return e.beginInventory(ctx, in)
	}
	return nil
}

func (e *Engine) listItems(ctx context.Context, in Inbound) []Reply {
	items, err := e.rentals.ListAvailable(ctx)
	if err != nil {
		return e.failure(in, err, "list available")
	}
	if len(items) == 0 {
		return []Reply{plain(msgNoItems)}
	}

	rows := make([][]Button, 0, len(items))
	for _, item := range items {
		rows = append(rows, []Button{{
			Label: item.Label(),
			Data:  fmt.Sprintf("%s%d", CallbackRent, item.ID),
		}})
	}
	return []Reply{{Text: msgChooseItem, Inline: rows}}
}

func (e *Engine) helpText(role string) string {
	lines := []string{msgHelpHeader}
	for _, action := range e.policy.Actions(role) {
		switch action {
		case service.ActionRent:
			lines = append(lines, msgHelpRent)
		case service.ActionHelp:
			lines = append(lines, msgHelpHelp)
		case service.ActionReports:
			lines = append(lines, msgHelpReports)
		case service.ActionAddInventory:
			lines = append(lines, msgHelpAddInventory)
		}
	}
	return strings.Join(lines, "\n")
}

// menu возвращает постоянную клавиатуру роли. Без роли только базовые действия.
func (e *Engine) menu(role string) [][]string {
	if role == "" {
		role = models.RoleBuyer
	}
	return menuKeyboard(e.policy.Actions(role))
}

func (e *Engine) clear(ctx context.Context, userID int64) {
	if err := e.sessions.Clear(ctx, userID); err != nil {
		e.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear session")
	}
}

func (e *Engine) failure(in Inbound, err error, op string) []Reply {
	e.logger.Error().Err(err).Int64("user_id", in.UserID).Str("op", op).Msg("request failed")
	return []Reply{plain(msgGenericError)}
}

func formatRub(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
