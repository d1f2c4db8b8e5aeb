package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wowserver-ru/realmbot/internal/interpret"
)

// Registration: login prompt, then password prompt, then one "account create"
// dispatch plus the session binding write.

func (e *Engine) startRegister(ctx context.Context, chatID int64) Reply {
	if login, ok := e.accounts.AccountForSession(ctx, chatID); ok {
		return Reply{Text: fmt.Sprintf("🔐 Вы уже зарегистрированы под логином %s.", login)}
	}
	e.begin(chatID, StateRegisterLogin)
	return Reply{Text: "Введите логин:"}
}

func (e *Engine) stepRegisterLogin(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	login := strings.TrimSpace(text)
	if !isSingleToken(login) {
		return Reply{Text: "❌ Логин не должен быть пустым или содержать пробелы. Введите логин:"}
	}
	if e.accounts.AccountExists(ctx, login) {
		return Reply{Text: "❌ Логин уже занят. Введите другой логин:"}
	}
	if existing, ok := e.accounts.AccountForSession(ctx, chatID); ok {
		// The chat got bound from elsewhere while the flow was open.
		return e.finish(chatID, fmt.Sprintf("🔐 Вы уже зарегистрированы под логином %s.", existing))
	}
	sess.Fields["login"] = login
	sess.State = StateRegisterPassword
	return Reply{Text: "Введите пароль:"}
}

func (e *Engine) stepRegisterPassword(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	password := strings.TrimSpace(text)
	if !isSingleToken(password) {
		return Reply{Text: "❌ Пароль не должен быть пустым или содержать пробелы. Введите пароль:"}
	}
	login := sess.Fields["login"]

	raw, fail := e.dispatch(ctx, chatID, cmdAccountCreate(login, password))
	if fail != nil {
		return *fail
	}
	if err := e.accounts.BindSession(ctx, login, chatID); err != nil {
		slog.Error("bind session after account create", "error", err, "chat_id", chatID)
		return e.finish(chatID, "❌ Аккаунт создан, но привязка не удалась. Обратитесь к администратору.")
	}
	e.notify.NotifyRegistration(chatID, login)

	created := interpret.CreatedAccount(raw)
	return e.finish(chatID, fmt.Sprintf("✅ Аккаунт создан: %s", created))
}

// Password change: a single new-password prompt. Entry requires an existing
// binding; the binding is resolved again at dispatch time.

func (e *Engine) startPasswordChange(ctx context.Context, chatID int64) Reply {
	if _, ok := e.accounts.AccountForSession(ctx, chatID); !ok {
		return Reply{Text: "❌ Сначала зарегистрируйтесь."}
	}
	e.begin(chatID, StateNewPassword)
	return Reply{Text: "Введите новый пароль:"}
}

func (e *Engine) stepNewPassword(ctx context.Context, chatID int64, text string) Reply {
	password := strings.TrimSpace(text)
	if !isSingleToken(password) {
		return Reply{Text: "❌ Пароль не должен быть пустым или содержать пробелы. Введите новый пароль:"}
	}
	login, ok := e.accounts.AccountForSession(ctx, chatID)
	if !ok {
		return e.finish(chatID, "❌ Сначала зарегистрируйтесь.")
	}

	raw, fail := e.dispatch(ctx, chatID, cmdSetPassword(login, password))
	if fail != nil {
		return *fail
	}
	if interpret.Classify(raw) == interpret.PasswordChanged {
		return e.finish(chatID, "✅ Пароль успешно изменён.")
	}
	return e.finish(chatID, raw)
}

// Server info is the only single-turn action: one dispatch, three lines in a
// fixed order with placeholders for whatever the server left out.

func (e *Engine) serverInfo(ctx context.Context, chatID int64) Reply {
	raw, fail := e.dispatch(ctx, chatID, cmdServerInfo)
	if fail != nil {
		return *fail
	}
	return Reply{Text: renderServerInfo(interpret.ParseServerInfo(raw))}
}

func renderServerInfo(info interpret.ServerInfo) string {
	players := "❓ Игроки: ?"
	if info.Players != "" {
		players = "👥 Онлайн игроков: " + info.Players
	}
	chars := "❓ Персонажи: ?"
	if info.Characters != "" {
		chars = "🌍 Персонажей в мире: " + info.Characters
	}
	uptime := "❓ Аптайм: ?"
	if info.Uptime != "" {
		uptime = "⏱ Аптайм: " + info.Uptime
	}
	return players + "\n" + chars + "\n" + uptime
}
