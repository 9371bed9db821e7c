package models

type User struct {
	ID         int64  `json:"id"`
	TelegramID int64  `json:"telegram_id"`
	Role       string `json:"role"`
}

func (u *User) IsSeller() bool {
	return u != nil && u.Role == RoleSeller
}
