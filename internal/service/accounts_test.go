package service

import (
	"context"
	"errors"
	"testing"

	"github.com/wowserver-ru/realmbot/internal/config"
	"github.com/wowserver-ru/realmbot/internal/domain"
)

type fakeStore struct {
	bindings map[int64]string // chat id -> login
	existing map[string]bool
	chars    map[string][]domain.Character // login -> characters
	levels   map[string]int
	failAll  bool
}

var errDatabase = errors.New("database down")

func (f *fakeStore) FindAccountBySession(_ context.Context, id int64) (string, error) {
	if f.failAll {
		return "", errDatabase
	}
	login, ok := f.bindings[id]
	if !ok {
		return "", domain.ErrAccountNotFound
	}
	return login, nil
}

func (f *fakeStore) AccountExists(_ context.Context, login string) (bool, error) {
	if f.failAll {
		return false, errDatabase
	}
	return f.existing[login], nil
}

func (f *fakeStore) BindSessionToAccount(_ context.Context, login string, id int64) error {
	if f.failAll {
		return errDatabase
	}
	f.bindings[id] = login
	return nil
}

func (f *fakeStore) CharactersOf(_ context.Context, login string) ([]domain.Character, error) {
	if f.failAll {
		return nil, errDatabase
	}
	return f.chars[login], nil
}

func (f *fakeStore) CharacterBelongsTo(_ context.Context, name, login string) (bool, error) {
	if f.failAll {
		return false, errDatabase
	}
	for _, c := range f.chars[login] {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) PrivilegeLevelOf(_ context.Context, login string) (int, error) {
	if f.failAll {
		return 0, errDatabase
	}
	return f.levels[login], nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bindings: map[int64]string{100: "bob"},
		existing: map[string]bool{"bob": true},
		chars:    map[string][]domain.Character{"bob": {{Name: "Thrall", Level: 80}}},
		levels:   map[string]int{"bob": 1},
	}
}

func TestCharacterOwnedBy_ResolvesSessionFirst(t *testing.T) {
	s := NewAccountService(newFakeStore(), nil)
	ctx := context.Background()

	if !s.CharacterOwnedBy(ctx, "Thrall", 100) {
		t.Fatal("bound chat must own its character")
	}
	// Chat 200 has no account, so the same character is not owned.
	if s.CharacterOwnedBy(ctx, "Thrall", 200) {
		t.Fatal("unresolved chat must never own a character")
	}
}

func TestCharacterOwnedBy_TracksRebinding(t *testing.T) {
	store := newFakeStore()
	store.existing["eve"] = true
	store.chars["eve"] = nil
	s := NewAccountService(store, nil)
	ctx := context.Background()

	if !s.CharacterOwnedBy(ctx, "Thrall", 100) {
		t.Fatal("precondition: chat 100 owns Thrall via bob")
	}
	// Rebind the chat to another account between turns.
	store.bindings[100] = "eve"
	if s.CharacterOwnedBy(ctx, "Thrall", 100) {
		t.Fatal("ownership must reflect the binding at time of check")
	}
}

func TestDatastoreFailureDegradesToDenied(t *testing.T) {
	store := newFakeStore()
	store.failAll = true
	s := NewAccountService(store, nil)
	ctx := context.Background()

	if _, ok := s.AccountForSession(ctx, 100); ok {
		t.Fatal("lookup failure must read as unbound")
	}
	if s.AccountExists(ctx, "bob") {
		t.Fatal("lookup failure must read as nonexistent")
	}
	if s.CharacterOwnedBy(ctx, "Thrall", 100) {
		t.Fatal("lookup failure must read as not owned")
	}
	if s.HasPrivilege(ctx, 100, 1) {
		t.Fatal("lookup failure must read as unprivileged")
	}
	if got := s.CharactersOf(ctx, "bob"); got != nil {
		t.Fatalf("lookup failure must yield no characters, got %v", got)
	}
}

func TestHasPrivilege(t *testing.T) {
	store := newFakeStore()
	store.levels["bob"] = 3
	s := NewAccountService(store, &config.Config{AdminIDs: []int64{777}})
	ctx := context.Background()

	if !s.HasPrivilege(ctx, 100, 3) {
		t.Fatal("gmlevel 3 must pass a min of 3")
	}
	if s.HasPrivilege(ctx, 100, 4) {
		t.Fatal("gmlevel 3 must fail a min of 4")
	}
	// Superusers bypass the database entirely.
	if !s.HasPrivilege(ctx, 777, 3) {
		t.Fatal("superuser id must always pass")
	}
	if s.HasPrivilege(ctx, 200, 1) {
		t.Fatal("unbound chat has privilege level 0")
	}
}
