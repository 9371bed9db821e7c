package flow

import (
	"context"
	"errors"
	"fmt"

	"prokat/internal/models"
	"prokat/internal/service"
)

func (e *Engine) beginRegistration(ctx context.Context, in Inbound) []Reply {
	if err := e.sessions.Save(ctx, models.NewRoleSelectionSession(in.UserID)); err != nil {
		return e.failure(in, err, "save session")
	}
	return []Reply{e.rolePrompt(msgChooseRole)}
}

// selectRole повторяет вопрос, пока не будет выбрана существующая роль.
func (e *Engine) selectRole(ctx context.Context, in Inbound, label string) []Reply {
	role, ok := e.cfg.RoleByLabel(label)
	if !ok {
		return []Reply{e.rolePrompt(msgInvalidRole)}
	}

	defer e.clear(ctx, in.UserID)

	err := e.users.RegisterRole(ctx, in.UserID, role)
	switch {
	case err == nil:
		return []Reply{{
			Text:     fmt.Sprintf(msgRegistered, label),
			Keyboard: e.menu(role),
		}}
	case errors.Is(err, service.ErrAlreadyRegistered):
		return []Reply{{Text: msgRegisterFailed, Keyboard: e.menu("")}}
	default:
		return e.failure(in, err, "register role")
	}
}

func (e *Engine) rolePrompt(msg string) Reply {
	return Reply{
		Text:     msg,
		Keyboard: columnKeyboard(e.cfg.RoleLabels()),
		OneTime:  true,
	}
}
