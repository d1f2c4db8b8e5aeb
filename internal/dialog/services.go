package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/wowserver-ru/realmbot/internal/interpret"
)

// Character services: pick one of the chat's own characters, then one of four
// fixed services. Ownership is validated at the choice step and again right
// before dispatch, because the chat-to-account binding can change in between.

const (
	SvcGender    = "🔁 Смена пола"
	SvcFaction   = "🔄 Смена фракции"
	SvcCustomize = "🧑‍🎨 Смена внешности"
	SvcTeleport  = "📍 Телепортация"
)

var serviceCommands = map[string]func(name string) string{
	SvcGender:    cmdCharacterCustomize,
	SvcFaction:   cmdCharacterChangeFaction,
	SvcCustomize: cmdCharacterCustomize,
	SvcTeleport:  cmdTeleportHome,
}

func serviceKeyboard() [][]string {
	return [][]string{
		{SvcGender, SvcFaction},
		{SvcCustomize, SvcTeleport},
	}
}

func (e *Engine) startServices(ctx context.Context, chatID int64) Reply {
	login, ok := e.accounts.AccountForSession(ctx, chatID)
	if !ok {
		return Reply{Text: "❌ Сначала зарегистрируйтесь."}
	}
	chars := e.accounts.CharactersOf(ctx, login)
	if len(chars) == 0 {
		return Reply{Text: "❌ У вас нет персонажей."}
	}

	rows := make([][]string, 0, len(chars))
	for _, c := range chars {
		rows = append(rows, []string{c.Name})
	}
	e.begin(chatID, StateServiceCharacter)
	return Reply{Text: "Выберите персонажа:", Keyboard: rows}
}

func (e *Engine) stepServiceCharacter(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	name := strings.TrimSpace(text)
	if !e.accounts.CharacterOwnedBy(ctx, name, chatID) {
		return e.finish(chatID, "❌ Персонаж не найден.")
	}
	sess.Fields["character"] = name
	sess.State = StateServiceChoice
	return Reply{Text: "Выберите услугу:", Keyboard: serviceKeyboard()}
}

func (e *Engine) stepServiceChoice(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	build, ok := serviceCommands[strings.TrimSpace(text)]
	if !ok {
		return Reply{Text: "❌ Неизвестная услуга. Выберите услугу:", Keyboard: serviceKeyboard()}
	}
	name := sess.Fields["character"]
	if !e.accounts.CharacterOwnedBy(ctx, name, chatID) {
		return e.finish(chatID, "❌ Персонаж не найден.")
	}

	raw, fail := e.dispatch(ctx, chatID, build(name))
	if fail != nil {
		return *fail
	}
	switch interpret.Classify(raw) {
	case interpret.NotFound:
		return e.finish(chatID, "❌ Персонаж не найден.")
	case interpret.ServerError:
		return e.finish(chatID, "❌ Внутренняя ошибка сервера. Попробуйте позже.")
	default:
		return e.finish(chatID, fmt.Sprintf("✅ Услуга применена к %s.", name))
	}
}
