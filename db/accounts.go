package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/corvomail/forwardd/consts"
)

// Account is an entry in the account directory.
type Account struct {
	ID        int64     `json:"id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAccountRequest holds parameters for account creation. Either Password
// or PasswordHash must be set; a plain password is hashed with bcrypt before
// storage.
type CreateAccountRequest struct {
	Address      string
	Password     string
	PasswordHash string
}

// Exists reports whether an account exists for the given address. It
// implements rewrite.UserDirectory.
func (db *Database) Exists(ctx context.Context, address string) (bool, error) {
	var exists bool
	err := db.timedQueryRow(ctx, "account_exists", `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE address = $1)
	`, address).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

// CreateAccount inserts a new account. Returns consts.ErrDBUniqueViolation
// when the address is already taken.
func (db *Database) CreateAccount(ctx context.Context, req CreateAccountRequest) error {
	passwordHash := req.PasswordHash
	if passwordHash == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = string(hashed)
	}

	_, err := db.timedExec(ctx, "create_account", `
		INSERT INTO accounts (address, password_hash)
		VALUES ($1, $2)
	`, req.Address, passwordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return consts.ErrDBUniqueViolation
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// DeleteAccount removes an account. Returns consts.ErrUserNotFound when no
// account exists for the address. Forward mappings on the address are left in
// place; they stop resolving to a user but remain administrable.
func (db *Database) DeleteAccount(ctx context.Context, address string) error {
	affected, err := db.timedExec(ctx, "delete_account", `
		DELETE FROM accounts WHERE address = $1
	`, address)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if affected == 0 {
		return consts.ErrUserNotFound
	}
	return nil
}

// ListAccounts returns all accounts ordered by address.
func (db *Database) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := db.timedQuery(ctx, "list_accounts", `
		SELECT id, address, created_at
		FROM accounts
		ORDER BY address
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Address, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	return accounts, nil
}

// Authenticate verifies an address/password pair against the stored bcrypt
// hash. Returns consts.ErrUserNotFound for unknown addresses.
func (db *Database) Authenticate(ctx context.Context, address, password string) error {
	var passwordHash string
	err := db.timedQueryRow(ctx, "authenticate", `
		SELECT password_hash FROM accounts WHERE address = $1
	`, address).Scan(&passwordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return consts.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
}
