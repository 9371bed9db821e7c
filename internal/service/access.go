package service

import "prokat/internal/models"

type Action string

const (
	ActionRent         Action = "rent"
	ActionHelp         Action = "help"
	ActionReports      Action = "reports"
	ActionAddInventory Action = "add_inventory"
)

// AccessPolicy maps a role to the actions shown in its menu.
type AccessPolicy struct {
	actions map[string][]Action
}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{
		actions: map[string][]Action{
			models.RoleBuyer:  {ActionRent, ActionHelp},
			models.RoleSeller: {ActionRent, ActionHelp, ActionReports, ActionAddInventory},
		},
	}
}

// Actions возвращает действия роли в порядке показа; неизвестная роль ничего не получает.
func (p *AccessPolicy) Actions(role string) []Action {
	return append([]Action(nil), p.actions[role]...)
}

func (p *AccessPolicy) Allowed(role string, action Action) bool {
	for _, a := range p.actions[role] {
		if a == action {
			return true
		}
	}
	return false
}
