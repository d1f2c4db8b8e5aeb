package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wowserver-ru/realmbot/internal/domain"
)

const defaultQueryTimeout = 3 * time.Second

// Accounts reads the game server's account, account_access and characters
// tables. Every query runs under a bounded timeout so a stuck database can
// never stall a chat turn indefinitely.
type Accounts struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewAccounts(pool *pgxpool.Pool, timeout time.Duration) *Accounts {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &Accounts{pool: pool, timeout: timeout}
}

func (r *Accounts) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// FindAccountBySession returns the login bound to a chat id. The binding
// lives in the account's email column.
func (r *Accounts) FindAccountBySession(ctx context.Context, sessionID int64) (string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var login string
	err := r.pool.QueryRow(ctx,
		`SELECT username FROM account WHERE email = $1`,
		strconv.FormatInt(sessionID, 10),
	).Scan(&login)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find account by session: %w", err)
	}
	return login, nil
}

func (r *Accounts) AccountExists(ctx context.Context, login string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM account WHERE username = $1)`,
		login,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("account exists: %w", err)
	}
	return exists, nil
}

// BindSessionToAccount records the chat id in the account's email column.
// This is the repository's only write path.
func (r *Accounts) BindSessionToAccount(ctx context.Context, login string, sessionID int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx,
		`UPDATE account SET email = $1 WHERE username = $2`,
		strconv.FormatInt(sessionID, 10), login,
	)
	if err != nil {
		return fmt.Errorf("bind session to account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *Accounts) CharactersOf(ctx context.Context, login string) ([]domain.Character, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT c.name, c.level
		   FROM characters c
		   JOIN account a ON a.id = c.account
		  WHERE a.username = $1
		  ORDER BY c.level DESC, c.name`,
		login,
	)
	if err != nil {
		return nil, fmt.Errorf("characters of %q: %w", login, err)
	}
	defer rows.Close()

	var chars []domain.Character
	for rows.Next() {
		var c domain.Character
		if err := rows.Scan(&c.Name, &c.Level); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		chars = append(chars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("characters of %q: %w", login, err)
	}
	return chars, nil
}

func (r *Accounts) CharacterBelongsTo(ctx context.Context, name, login string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var owned bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1
			  FROM characters c
			  JOIN account a ON a.id = c.account
			 WHERE c.name = $1 AND a.username = $2)`,
		name, login,
	).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("character belongs to: %w", err)
	}
	return owned, nil
}

// PrivilegeLevelOf returns the account's highest gmlevel across realms, or 0
// when the account holds no access row.
func (r *Accounts) PrivilegeLevelOf(ctx context.Context, login string) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var level int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(aa.gmlevel), 0)
		   FROM account a
	  LEFT JOIN account_access aa ON aa.id = a.id
		  WHERE a.username = $1`,
		login,
	).Scan(&level)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("privilege level of %q: %w", login, err)
	}
	return level, nil
}
