// Package dialog implements the multi-turn conversation state machine. The
// engine consumes one line of chat text at a time, accumulates flow fields
// across turns, and dispatches assembled console commands through the
// gateway. It knows nothing about Telegram: the handler layer adapts updates
// into Handle calls and replies back into messages.
package dialog

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/wowserver-ru/realmbot/internal/domain"
	"github.com/wowserver-ru/realmbot/internal/gateway"
)

// AdminPrivilege is the minimum gmlevel required to open the admin menu.
const AdminPrivilege = 3

// Top-level menu entries. Selecting one always aborts whatever flow is in
// progress and discards its accumulated fields.
const (
	MenuRegister = "📥 Регистрация"
	MenuPassword = "🔐 Смена пароля"
	MenuOnline   = "👥 Онлайн игроки"
	MenuServices = "🛎 Услуги"
	MenuAdmin    = "🛠️ Админ панель"
)

// Gateway issues one console command and returns the raw reply text.
type Gateway interface {
	Execute(ctx context.Context, command string) (string, error)
}

// Accounts is the authorization surface the engine re-checks at point of use.
// *service.AccountService implements it.
type Accounts interface {
	AccountForSession(ctx context.Context, sessionID int64) (string, bool)
	AccountExists(ctx context.Context, login string) bool
	BindSession(ctx context.Context, login string, sessionID int64) error
	CharactersOf(ctx context.Context, login string) []domain.Character
	CharacterOwnedBy(ctx context.Context, name string, sessionID int64) bool
	HasPrivilege(ctx context.Context, sessionID int64, min int) bool
}

// Notifier receives operational events worth surfacing outside the chat that
// triggered them. The telegram log-chat logger implements it.
type Notifier interface {
	NotifyError(err error, op string)
	NotifyRegistration(sessionID int64, login string)
}

type nopNotifier struct{}

func (nopNotifier) NotifyError(error, string)        {}
func (nopNotifier) NotifyRegistration(int64, string) {}

// Reply is one outbound line, optionally with a reply keyboard suggesting the
// next inputs. A nil keyboard leaves whatever keyboard is already shown.
type Reply struct {
	Text     string
	Keyboard [][]string
}

// Deps wires the engine's collaborators.
type Deps struct {
	Store    Store
	Gateway  Gateway
	Accounts Accounts
	Notifier Notifier
}

type Engine struct {
	sessions Store
	gateway  Gateway
	accounts Accounts
	notify   Notifier

	mu    sync.Mutex
	locks map[int64]*chatLock
}

// chatLock serializes the turns of one chat. refs counts holders plus
// waiters, guarded by Engine.mu, so the map entry can be dropped once the
// last turn for the chat releases it.
type chatLock struct {
	sync.Mutex
	refs int
}

func New(deps Deps) *Engine {
	if deps.Store == nil {
		deps.Store = NewMemoryStore()
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	return &Engine{
		sessions: deps.Store,
		gateway:  deps.Gateway,
		accounts: deps.Accounts,
		notify:   deps.Notifier,
		locks:    make(map[int64]*chatLock),
	}
}

// Handle processes one inbound line for one chat. Turns of the same chat are
// serialized; unrelated chats proceed concurrently.
func (e *Engine) Handle(ctx context.Context, chatID int64, text string) Reply {
	lock := e.acquireLock(chatID)
	defer e.releaseLock(chatID, lock)

	text = strings.TrimSpace(text)

	if reply, ok := e.startFlow(ctx, chatID, text); ok {
		return reply
	}

	sess := e.sessions.Get(chatID)
	if sess == nil {
		return e.mainMenu(ctx, chatID)
	}
	return e.advance(ctx, chatID, sess, text)
}

func (e *Engine) acquireLock(chatID int64) *chatLock {
	e.mu.Lock()
	lock, ok := e.locks[chatID]
	if !ok {
		lock = &chatLock{}
		e.locks[chatID] = lock
	}
	lock.refs++
	e.mu.Unlock()

	lock.Lock()
	return lock
}

func (e *Engine) releaseLock(chatID int64, lock *chatLock) {
	lock.Unlock()

	e.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(e.locks, chatID)
	}
	e.mu.Unlock()
}

// startFlow matches the text against the top-level menu. Any match discards
// the current flow before the new one begins.
func (e *Engine) startFlow(ctx context.Context, chatID int64, text string) (Reply, bool) {
	switch text {
	case MenuRegister:
		e.sessions.Delete(chatID)
		return e.startRegister(ctx, chatID), true
	case MenuPassword:
		e.sessions.Delete(chatID)
		return e.startPasswordChange(ctx, chatID), true
	case MenuOnline:
		e.sessions.Delete(chatID)
		return e.serverInfo(ctx, chatID), true
	case MenuServices:
		e.sessions.Delete(chatID)
		return e.startServices(ctx, chatID), true
	case MenuAdmin:
		e.sessions.Delete(chatID)
		return e.startAdmin(ctx, chatID), true
	}
	return Reply{}, false
}

func (e *Engine) advance(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	switch sess.State {
	case StateRegisterLogin:
		return e.stepRegisterLogin(ctx, chatID, sess, text)
	case StateRegisterPassword:
		return e.stepRegisterPassword(ctx, chatID, sess, text)
	case StateNewPassword:
		return e.stepNewPassword(ctx, chatID, text)
	case StateServiceCharacter:
		return e.stepServiceCharacter(ctx, chatID, sess, text)
	case StateServiceChoice:
		return e.stepServiceChoice(ctx, chatID, sess, text)
	case StateAdminMenu:
		return e.stepAdminMenu(ctx, chatID, sess, text)
	case StateBanCharacter:
		return e.stepBanCharacter(sess, text)
	case StateBanDuration:
		return e.stepBanDuration(sess, text)
	case StateBanReason:
		return e.stepBanReason(ctx, chatID, sess, text)
	case StateUnbanCharacter:
		return e.stepUnbanCharacter(ctx, chatID, text)
	case StateSendCharacter:
		return e.stepSendCharacter(sess, text)
	case StateSendSubject:
		return e.stepSendSubject(sess, text)
	case StateSendBody:
		return e.stepSendBody(ctx, chatID, sess, text)
	case StateSendGoldAmount:
		return e.stepSendGoldAmount(ctx, chatID, sess, text)
	case StateSendItemList:
		return e.stepSendItemList(ctx, chatID, sess, text)
	case StateRestartDelay:
		return e.stepRestartDelay(sess, text)
	case StateRestartExitCode:
		return e.stepRestartExitCode(ctx, chatID, sess, text)
	case StateRawCommand:
		return e.stepRawCommand(ctx, chatID, text)
	default:
		slog.Error("unknown dialogue state", "state", sess.State, "chat_id", chatID)
		return e.finish(chatID, "❌ Что-то пошло не так. Начните заново.")
	}
}

// begin creates a fresh session in the given state.
func (e *Engine) begin(chatID int64, state State) *Session {
	sess := newSession(state)
	e.sessions.Put(chatID, sess)
	return sess
}

// finish clears the chat back to idle and returns a terminal one-liner.
func (e *Engine) finish(chatID int64, text string) Reply {
	e.sessions.Delete(chatID)
	return Reply{Text: text}
}

// dispatch runs one gateway call. On any transport failure the flow is
// aborted, the chat reset to idle, and the caller returns the ready-made
// error reply.
func (e *Engine) dispatch(ctx context.Context, chatID int64, command string) (string, *Reply) {
	raw, err := e.gateway.Execute(ctx, command)
	if err != nil {
		op := gateway.Verb(command)
		var terr *domain.TransportError
		if errors.As(err, &terr) {
			slog.Error("console dispatch failed",
				"op", op, "status", terr.Status, "reason", terr.Reason, "chat_id", chatID)
		} else {
			slog.Error("console dispatch failed", "op", op, "error", err, "chat_id", chatID)
		}
		e.notify.NotifyError(err, op)
		reply := e.finish(chatID, "❌ Сервер недоступен. Попробуйте позже.")
		return "", &reply
	}
	return raw, nil
}

// requireAdmin re-validates privilege immediately before a privileged
// dispatch. The earlier check at menu entry is not trusted: the binding may
// have changed between turns.
func (e *Engine) requireAdmin(ctx context.Context, chatID int64) *Reply {
	if !e.accounts.HasPrivilege(ctx, chatID, AdminPrivilege) {
		reply := e.finish(chatID, "❌ У вас нет прав.")
		return &reply
	}
	return nil
}

func (e *Engine) mainMenu(ctx context.Context, chatID int64) Reply {
	return Reply{Text: "Выберите действие:", Keyboard: e.MenuKeyboard(ctx, chatID)}
}

// MenuKeyboard returns the top-level keyboard for a chat. An unregistered
// chat only sees the registration button.
func (e *Engine) MenuKeyboard(ctx context.Context, chatID int64) [][]string {
	if _, ok := e.accounts.AccountForSession(ctx, chatID); !ok {
		return [][]string{{MenuRegister}}
	}
	return [][]string{
		{MenuPassword},
		{MenuOnline},
		{MenuServices, MenuAdmin},
	}
}

func isNonNegativeInt(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0
}

func isPositiveInt(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
