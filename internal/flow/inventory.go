package flow

import (
	"context"
	"errors"
	"fmt"

	"prokat/internal/models"
	"prokat/internal/service"
)

// beginInventory доступен только продавцу, роль проверяет menuAction.
func (e *Engine) beginInventory(ctx context.Context, in Inbound) []Reply {
	if err := e.sessions.Save(ctx, models.NewInventorySession(in.UserID)); err != nil {
		return e.failure(in, err, "save session")
	}
	return []Reply{{
		Text:     msgChooseType,
		Keyboard: columnKeyboard(e.cfg.InventoryTypes),
		OneTime:  true,
	}}
}

func (e *Engine) advanceInventory(ctx context.Context, in Inbound, session *models.Session, msg string) []Reply {
	flow := session.Inventory

	switch flow.Step {
	case models.InventoryAwaitingType:
		if !e.cfg.IsInventoryType(msg) {
			e.clear(ctx, in.UserID)
			return e.backToMenu(ctx, in, plain(msgInvalidType))
		}
		flow.Type = msg
		flow.Step = models.InventoryAwaitingBrand
		return e.saveInventory(ctx, in, session, Reply{Text: msgAskBrand, RemoveKeyboard: true})

	case models.InventoryAwaitingBrand:
		if msg == "" {
			e.clear(ctx, in.UserID)
			return e.backToMenu(ctx, in, plain(msgEmptyBrand))
		}
		flow.Brand = msg
		flow.Step = models.InventoryAwaitingSize
		return e.saveInventory(ctx, in, session, plain(fmt.Sprintf(msgAskSize, e.cfg.NoSizeSentinel)))

	case models.InventoryAwaitingSize:
		flow.Size = msg
		flow.Step = models.InventoryAwaitingPrice
		return e.saveInventory(ctx, in, session, plain(msgAskPrice))

	case models.InventoryAwaitingPrice:
		return e.inventoryPrice(ctx, in, flow, msg)
	}

	e.clear(ctx, in.UserID)
	return []Reply{plain(msgGenericError)}
}

// inventoryPrice последний шаг: сессия удаляется и меню возвращается при любом исходе.
func (e *Engine) inventoryPrice(ctx context.Context, in Inbound, flow *models.InventoryFlow, msg string) (replies []Reply) {
	defer func() {
		e.clear(ctx, in.UserID)
		replies = e.backToMenu(ctx, in, replies...)
	}()

	price, err := service.ParsePrice(msg)
	if err != nil {
		return []Reply{plain(msgInvalidPrice)}
	}

	item, err := e.rentals.AddItem(ctx, flow.Type, flow.Brand, flow.Size, price)
	switch {
	case err == nil:
		return []Reply{plain(fmt.Sprintf(msgItemAdded, item.ID))}
	case errors.Is(err, service.ErrInvalidType):
		return []Reply{plain(msgInvalidType)}
	case errors.Is(err, service.ErrEmptyBrand):
		return []Reply{plain(msgEmptyBrand)}
	case errors.Is(err, service.ErrInvalidPrice):
		return []Reply{plain(msgInvalidPrice)}
	default:
		e.logger.Error().Err(err).Int64("user_id", in.UserID).Msg("add item failed")
		return []Reply{plain(msgAddFailed)}
	}
}

func (e *Engine) saveInventory(ctx context.Context, in Inbound, session *models.Session, next Reply) []Reply {
	if err := e.sessions.Save(ctx, session); err != nil {
		e.clear(ctx, in.UserID)
		return e.failure(in, err, "save session")
	}
	return []Reply{next}
}

func (e *Engine) backToMenu(ctx context.Context, in Inbound, replies ...Reply) []Reply {
	role, err := e.users.GetRole(ctx, in.UserID)
	if err != nil {
		e.logger.Error().Err(err).Int64("user_id", in.UserID).Msg("get role")
	}
	return append(replies, Reply{Text: msgBackToMenu, Keyboard: e.menu(role)})
}
