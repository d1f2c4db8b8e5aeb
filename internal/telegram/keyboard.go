package telegram

import "github.com/go-telegram/bot/models"

// ReplyKeyboard builds a resize-enabled reply keyboard from rows of labels.
// Returns nil for empty input so callers can pass it straight to ReplyMarkup.
func ReplyKeyboard(rows [][]string) models.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	keyboard := make([][]models.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]models.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, models.KeyboardButton{Text: label})
		}
		keyboard = append(keyboard, buttons)
	}
	return &models.ReplyKeyboardMarkup{
		Keyboard:       keyboard,
		ResizeKeyboard: true,
	}
}
