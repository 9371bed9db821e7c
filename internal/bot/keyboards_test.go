package bot

import (
	"testing"

	"prokat/internal/config"
	"prokat/internal/flow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyKeyboard(t *testing.T) {
	kb := replyKeyboard([][]string{{flow.LabelRent, flow.LabelHelp}, {flow.LabelReports}}, false)

	require.Len(t, kb.Keyboard, 2)
	assert.Len(t, kb.Keyboard[0], 2)
	assert.Equal(t, flow.LabelReports, kb.Keyboard[1][0].Text)
	assert.False(t, kb.OneTimeKeyboard)
	assert.True(t, kb.ResizeKeyboard)
}

func TestInlineKeyboard(t *testing.T) {
	kb := inlineKeyboard([][]flow.Button{
		{{Label: "Лыжи Atomic", Data: "rent_2"}},
		{{Label: "Самокат Xiaomi", Data: "rent_3"}},
	})

	require.Len(t, kb.InlineKeyboard, 2)
	btn := kb.InlineKeyboard[1][0]
	assert.Equal(t, "Самокат Xiaomi", btn.Text)
	require.NotNil(t, btn.CallbackData)
	assert.Equal(t, "rent_3", *btn.CallbackData)
}

func TestConnect_EmptyToken(t *testing.T) {
	_, err := Connect(config.TelegramConfig{})
	assert.Error(t, err)
}
