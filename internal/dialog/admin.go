package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/wowserver-ru/realmbot/internal/interpret"
)

// Admin console: a menu gated on gmlevel that fans out into linear
// multi-field collectors. Privilege is re-checked right before every
// dispatch, not just at menu entry.

const (
	AdminBan     = "🔨 Бан"
	AdminUnban   = "🕊 Разбан"
	AdminMail    = "✉️ Почта"
	AdminGold    = "💰 Золото"
	AdminItems   = "🎁 Предметы"
	AdminRaw     = "💻 SOAP команда"
	AdminRestart = "♻️ Рестарт"
)

func adminKeyboard() [][]string {
	return [][]string{
		{AdminBan, AdminUnban},
		{AdminMail, AdminGold, AdminItems},
		{AdminRaw, AdminRestart},
	}
}

func (e *Engine) startAdmin(ctx context.Context, chatID int64) Reply {
	if !e.accounts.HasPrivilege(ctx, chatID, AdminPrivilege) {
		return Reply{Text: "❌ У вас нет прав."}
	}
	e.begin(chatID, StateAdminMenu)
	return Reply{Text: "Выберите действие:", Keyboard: adminKeyboard()}
}

func (e *Engine) stepAdminMenu(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	switch strings.TrimSpace(text) {
	case AdminBan:
		sess.State = StateBanCharacter
		return Reply{Text: "Введите имя персонажа:"}
	case AdminUnban:
		sess.State = StateUnbanCharacter
		return Reply{Text: "Введите имя персонажа:"}
	case AdminMail:
		sess.Fields["send"] = "mail"
		sess.State = StateSendCharacter
		return Reply{Text: "Введите имя персонажа:"}
	case AdminGold:
		sess.Fields["send"] = "money"
		sess.State = StateSendCharacter
		return Reply{Text: "Введите имя персонажа:"}
	case AdminItems:
		sess.Fields["send"] = "items"
		sess.State = StateSendCharacter
		return Reply{Text: "Введите имя персонажа:"}
	case AdminRaw:
		sess.State = StateRawCommand
		return Reply{Text: "Введите SOAP команду:"}
	case AdminRestart:
		sess.State = StateRestartDelay
		return Reply{Text: "Введите задержку в секундах:"}
	default:
		return Reply{Text: "Выберите действие:", Keyboard: adminKeyboard()}
	}
}

// Ban: character, duration in seconds, reason.

func (e *Engine) stepBanCharacter(sess *Session, text string) Reply {
	name := strings.TrimSpace(text)
	if !isSingleToken(name) {
		return Reply{Text: "❌ Имя должно быть одним словом. Введите имя персонажа:"}
	}
	sess.Fields["character"] = name
	sess.State = StateBanDuration
	return Reply{Text: "Введите длительность бана в секундах:"}
}

func (e *Engine) stepBanDuration(sess *Session, text string) Reply {
	duration := strings.TrimSpace(text)
	if !isNonNegativeInt(duration) {
		// Invalid input re-prompts; the character collected earlier stays.
		return Reply{Text: "❌ Введите неотрицательное число секунд:"}
	}
	sess.Fields["duration"] = duration
	sess.State = StateBanReason
	return Reply{Text: "Введите причину бана:"}
}

func (e *Engine) stepBanReason(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	reason := strings.TrimSpace(text)
	if reason == "" {
		return Reply{Text: "❌ Причина не может быть пустой. Введите причину бана:"}
	}
	if denied := e.requireAdmin(ctx, chatID); denied != nil {
		return *denied
	}

	name := sess.Fields["character"]
	raw, fail := e.dispatch(ctx, chatID, cmdBanCharacter(name, sess.Fields["duration"], reason))
	if fail != nil {
		return *fail
	}
	if interpret.Classify(raw) == interpret.NotFound {
		return e.finish(chatID, "❌ Персонаж не найден.")
	}
	return e.finish(chatID, fmt.Sprintf("✅ Бан выдан: %s.", name))
}

func (e *Engine) stepUnbanCharacter(ctx context.Context, chatID int64, text string) Reply {
	name := strings.TrimSpace(text)
	if !isSingleToken(name) {
		return Reply{Text: "❌ Имя должно быть одним словом. Введите имя персонажа:"}
	}
	if denied := e.requireAdmin(ctx, chatID); denied != nil {
		return *denied
	}

	raw, fail := e.dispatch(ctx, chatID, cmdUnbanCharacter(name))
	if fail != nil {
		return *fail
	}
	if interpret.Classify(raw) == interpret.NotFound {
		return e.finish(chatID, "❌ Персонаж не найден.")
	}
	return e.finish(chatID, fmt.Sprintf("✅ Разбан выполнен: %s.", name))
}

// Mail, gold and items share the character/subject/body collectors and only
// differ in the final payload.

func (e *Engine) stepSendCharacter(sess *Session, text string) Reply {
	name := strings.TrimSpace(text)
	if !isSingleToken(name) {
		return Reply{Text: "❌ Имя должно быть одним словом. Введите имя персонажа:"}
	}
	sess.Fields["character"] = name
	sess.State = StateSendSubject
	return Reply{Text: "Введите тему письма:"}
}

func (e *Engine) stepSendSubject(sess *Session, text string) Reply {
	subject := strings.TrimSpace(text)
	if subject == "" {
		return Reply{Text: "❌ Тема не может быть пустой. Введите тему письма:"}
	}
	sess.Fields["subject"] = subject
	sess.State = StateSendBody
	return Reply{Text: "Введите текст письма:"}
}

func (e *Engine) stepSendBody(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	body := strings.TrimSpace(text)
	if body == "" {
		return Reply{Text: "❌ Текст не может быть пустым. Введите текст письма:"}
	}
	sess.Fields["body"] = body

	switch sess.Fields["send"] {
	case "money":
		sess.State = StateSendGoldAmount
		return Reply{Text: "Введите количество золота:"}
	case "items":
		sess.State = StateSendItemList
		return Reply{Text: "Введите список предметов:"}
	default:
		return e.dispatchSend(ctx, chatID, sess)
	}
}

func (e *Engine) stepSendGoldAmount(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	amount := strings.TrimSpace(text)
	if !isPositiveInt(amount) {
		return Reply{Text: "❌ Введите положительное число:"}
	}
	sess.Fields["amount"] = amount
	return e.dispatchSend(ctx, chatID, sess)
}

func (e *Engine) stepSendItemList(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	items := strings.TrimSpace(text)
	if items == "" {
		return Reply{Text: "❌ Список не может быть пустым. Введите список предметов:"}
	}
	sess.Fields["items"] = items
	return e.dispatchSend(ctx, chatID, sess)
}

func (e *Engine) dispatchSend(ctx context.Context, chatID int64, sess *Session) Reply {
	if denied := e.requireAdmin(ctx, chatID); denied != nil {
		return *denied
	}

	name := sess.Fields["character"]
	subject := sess.Fields["subject"]
	body := sess.Fields["body"]

	var command string
	switch sess.Fields["send"] {
	case "money":
		command = cmdSendMoney(name, subject, body, sess.Fields["amount"])
	case "items":
		command = cmdSendItems(name, subject, body, sess.Fields["items"])
	default:
		command = cmdSendMail(name, subject, body)
	}

	raw, fail := e.dispatch(ctx, chatID, command)
	if fail != nil {
		return *fail
	}
	if interpret.Classify(raw) == interpret.NotFound {
		return e.finish(chatID, "❌ Персонаж не найден.")
	}
	return e.finish(chatID, fmt.Sprintf("✅ Отправлено персонажу %s.", name))
}

// Restart: delay, then exit code. The exit code is the one integer field
// that does not re-prompt: invalid input falls back to "0" and the flow
// proceeds.

func (e *Engine) stepRestartDelay(sess *Session, text string) Reply {
	delay := strings.TrimSpace(text)
	if !isNonNegativeInt(delay) {
		return Reply{Text: "❌ Введите неотрицательное число секунд:"}
	}
	sess.Fields["delay"] = delay
	sess.State = StateRestartExitCode
	return Reply{Text: "Введите код выхода (по умолчанию 0):"}
}

func (e *Engine) stepRestartExitCode(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	code := strings.TrimSpace(text)
	if !isInt(code) {
		code = "0"
	}
	if denied := e.requireAdmin(ctx, chatID); denied != nil {
		return *denied
	}

	raw, fail := e.dispatch(ctx, chatID, cmdServerRestart(sess.Fields["delay"], code))
	if fail != nil {
		return *fail
	}
	if raw == "" {
		return e.finish(chatID, fmt.Sprintf("♻️ Рестарт запланирован через %s сек.", sess.Fields["delay"]))
	}
	return e.finish(chatID, raw)
}

// Raw passthrough: the line goes to the console as typed, save for line
// breaks that would break the single-line protocol.

func (e *Engine) stepRawCommand(ctx context.Context, chatID int64, text string) Reply {
	command := sanitize(text)
	if command == "" {
		return Reply{Text: "❌ Команда не может быть пустой. Введите SOAP команду:"}
	}
	if denied := e.requireAdmin(ctx, chatID); denied != nil {
		return *denied
	}

	raw, fail := e.dispatch(ctx, chatID, command)
	if fail != nil {
		return *fail
	}
	if raw == "" {
		return e.finish(chatID, "✅ Команда выполнена.")
	}
	return e.finish(chatID, raw)
}
