package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"messhall/internal/domain/account"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	GetByRollNo(ctx context.Context, rollNo string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	CountByRole(ctx context.Context, role string) (int, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Username string
	Password string
	Role     string
	Name     string
	RollNo   string
	RoomNo   string
	Contact  string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	GenerateID   func() string
	Now          func() time.Time
}

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrRollNoTaken   = errors.New("roll number is already registered")
)

// ExecuteCreateAccount coordinates account creation.
// PRE: Valid username, password >= 12 chars, valid role
// POST: Account created with hashed password
// INVARIANT: Username and roll number must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	generateID := deps.GenerateID
	if generateID == nil {
		generateID = func() string { return uuid.New().String() }
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	acct := account.Account{
		ID:        generateID(),
		Username:  strings.TrimSpace(input.Username),
		Role:      input.Role,
		CreatedAt: now(),
		Name:      strings.TrimSpace(input.Name),
		RollNo:    strings.TrimSpace(input.RollNo),
		RoomNo:    strings.TrimSpace(input.RoomNo),
		Contact:   strings.TrimSpace(input.Contact),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}

	if _, err := deps.AccountStore.GetByUsername(ctx, acct.Username); err == nil {
		return account.Account{}, ErrUsernameTaken
	}
	if acct.RollNo != "" {
		if _, err := deps.AccountStore.GetByRollNo(ctx, acct.RollNo); err == nil {
			return account.Account{}, ErrRollNoTaken
		}
	}

	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "account_created", "username", acct.Username, "role", acct.Role)
	return acct, nil
}

// ExecuteSeedAdmin creates the admin account when no admin exists yet.
// PRE: Database is migrated
// POST: Exactly one admin exists if none did before
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, username, password string) error {
	count, err := deps.AccountStore.CountByRole(ctx, account.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Username: username,
		Password: password,
		Role:     account.RoleAdmin,
	}, deps); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "username", username)
	return nil
}
