// Package service holds the authorization and ownership checks the dialogue
// engine runs before every privileged or character-scoped action.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wowserver-ru/realmbot/internal/domain"
)

// Datastore is the read-mostly slice of the game database the bot needs.
// *repository.Accounts implements it.
type Datastore interface {
	FindAccountBySession(ctx context.Context, sessionID int64) (string, error)
	AccountExists(ctx context.Context, login string) (bool, error)
	BindSessionToAccount(ctx context.Context, login string, sessionID int64) error
	CharactersOf(ctx context.Context, login string) ([]domain.Character, error)
	CharacterBelongsTo(ctx context.Context, name, login string) (bool, error)
	PrivilegeLevelOf(ctx context.Context, login string) (int, error)
}

// Superusers reports chat ids that bypass the gmlevel check.
// *config.Config implements it over the ADMIN_IDS bootstrap list.
type Superusers interface {
	IsAdmin(telegramID int64) bool
}

// AccountService answers "who is this chat", "do they own this character" and
// "are they privileged enough". Every check resolves the chat-to-account
// binding at call time: the binding can change between turns, so nothing
// cached earlier in a flow is trusted. Datastore failures degrade to
// false/none and are logged, never surfaced as success.
type AccountService struct {
	store  Datastore
	admins Superusers
}

// NewAccountService wires the datastore and the superuser directory. A nil
// directory means nobody bypasses the gmlevel check.
func NewAccountService(store Datastore, admins Superusers) *AccountService {
	return &AccountService{store: store, admins: admins}
}

func (s *AccountService) AccountForSession(ctx context.Context, sessionID int64) (string, bool) {
	login, err := s.store.FindAccountBySession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			slog.Error("account lookup failed", "error", err, "chat_id", sessionID)
		}
		return "", false
	}
	return login, true
}

func (s *AccountService) AccountExists(ctx context.Context, login string) bool {
	exists, err := s.store.AccountExists(ctx, login)
	if err != nil {
		slog.Error("account existence check failed", "error", err)
		return false
	}
	return exists
}

func (s *AccountService) BindSession(ctx context.Context, login string, sessionID int64) error {
	if err := s.store.BindSessionToAccount(ctx, login, sessionID); err != nil {
		return fmt.Errorf("bind session: %w", err)
	}
	return nil
}

func (s *AccountService) CharactersOf(ctx context.Context, login string) []domain.Character {
	chars, err := s.store.CharactersOf(ctx, login)
	if err != nil {
		slog.Error("character list failed", "error", err)
		return nil
	}
	return chars
}

// CharacterOwnedBy reports whether the character belongs to the account bound
// to this chat. An unresolved chat never owns anything.
func (s *AccountService) CharacterOwnedBy(ctx context.Context, name string, sessionID int64) bool {
	login, ok := s.AccountForSession(ctx, sessionID)
	if !ok {
		return false
	}
	owned, err := s.store.CharacterBelongsTo(ctx, name, login)
	if err != nil {
		slog.Error("ownership check failed", "error", err, "chat_id", sessionID)
		return false
	}
	return owned
}

func (s *AccountService) PrivilegeLevel(ctx context.Context, sessionID int64) int {
	login, ok := s.AccountForSession(ctx, sessionID)
	if !ok {
		return 0
	}
	level, err := s.store.PrivilegeLevelOf(ctx, login)
	if err != nil {
		slog.Error("privilege lookup failed", "error", err, "chat_id", sessionID)
		return 0
	}
	return level
}

func (s *AccountService) HasPrivilege(ctx context.Context, sessionID int64, min int) bool {
	if s.admins != nil && s.admins.IsAdmin(sessionID) {
		return true
	}
	return s.PrivilegeLevel(ctx, sessionID) >= min
}
