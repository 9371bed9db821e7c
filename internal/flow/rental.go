package flow

import (
	"context"
	"errors"
	"fmt"

	"prokat/internal/models"
	"prokat/internal/service"
)

// beginRental заменяет любой незавершенный мастер новым.
func (e *Engine) beginRental(ctx context.Context, in Inbound, itemID int64) []Reply {
	if err := e.sessions.Save(ctx, models.NewRentalSession(in.UserID, itemID)); err != nil {
		return e.failure(in, err, "save session")
	}
	return []Reply{plain(msgAskHours)}
}

func (e *Engine) advanceRental(ctx context.Context, in Inbound, session *models.Session, msg string) []Reply {
	switch session.Rental.Step {
	case models.RentalAwaitingDuration:
		return e.rentalDuration(ctx, in, session, msg)
	case models.RentalAwaitingPhone:
		return e.rentalPhone(ctx, in, session, msg)
	}
	e.clear(ctx, in.UserID)
	return []Reply{plain(msgGenericError)}
}

// rentalDuration: ошибка ввода сбрасывает мастер без повтора.
func (e *Engine) rentalDuration(ctx context.Context, in Inbound, session *models.Session, msg string) []Reply {
	hours, err := service.ParseHours(msg)
	if err != nil {
		e.clear(ctx, in.UserID)
		return []Reply{plain(invalidHours())}
	}

	cost, err := e.rentals.QuoteRental(ctx, session.Rental.ItemID, hours)
	if err != nil {
		e.clear(ctx, in.UserID)
		return e.rentalError(in, err)
	}

	session.Rental.Step = models.RentalAwaitingPhone
	session.Rental.Hours = hours
	session.Rental.Cost = cost
	if err := e.sessions.Save(ctx, session); err != nil {
		e.clear(ctx, in.UserID)
		return e.failure(in, err, "save session")
	}
	return []Reply{{Text: fmt.Sprintf(msgAskPhone, formatRub(cost)), RemoveKeyboard: true}}
}

// rentalPhone принимает любой текст как телефон. Сессия удаляется при любом исходе.
func (e *Engine) rentalPhone(ctx context.Context, in Inbound, session *models.Session, phone string) (replies []Reply) {
	defer e.clear(ctx, in.UserID)

	role, err := e.users.GetRole(ctx, in.UserID)
	if err != nil {
		e.logger.Error().Err(err).Int64("user_id", in.UserID).Msg("role lookup failed, showing default menu")
	}
	menu := e.menu(role)

	flow := session.Rental
	rental, err := e.rentals.BookRental(ctx, in.FirstName, phone, flow.ItemID, flow.Hours)
	if err != nil {
		replies = e.rentalError(in, err)
		replies[len(replies)-1].Keyboard = menu
		return replies
	}

	return []Reply{{
		Text:     fmt.Sprintf(msgRentalDone, rental.ID, rental.Hours(), formatRub(rental.TotalCost)),
		Keyboard: menu,
	}}
}

func (e *Engine) rentalError(in Inbound, err error) []Reply {
	switch {
	case errors.Is(err, service.ErrInvalidDuration):
		return []Reply{plain(invalidHours())}
	case errors.Is(err, service.ErrItemNotFound):
		return []Reply{plain(msgItemNotFound)}
	case errors.Is(err, service.ErrItemNotAvailable):
		return []Reply{plain(msgItemNotAvailable)}
	case errors.Is(err, service.ErrDuplicatePhone):
		// нарушение целостности: пользователю общий текст
		e.logger.Warn().Err(err).Int64("user_id", in.UserID).Msg("rental rejected: phone already registered")
		return []Reply{plain(msgRentalFailed)}
	}
	e.logger.Error().Err(err).Int64("user_id", in.UserID).Msg("rental failed")
	return []Reply{plain(msgRentalFailed)}
}

func invalidHours() string {
	return fmt.Sprintf(msgInvalidHours, models.MaxRentalHours)
}
