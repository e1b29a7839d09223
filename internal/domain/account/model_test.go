package account_test

import (
	"strings"
	"testing"
	"time"

	"messhall/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr error
	}{
		{
			name:    "valid admin without profile",
			account: account.Account{ID: "1", Username: "admin", Role: account.RoleAdmin},
		},
		{
			name:    "valid student",
			account: account.Account{ID: "2", Username: "asha", Role: account.RoleStudent, Name: "Asha Rao", RollNo: "CS-101"},
		},
		{
			name:    "empty username",
			account: account.Account{ID: "3", Username: "  ", Role: account.RoleAdmin},
			wantErr: account.ErrEmptyUsername,
		},
		{
			name:    "username too long",
			account: account.Account{ID: "4", Username: strings.Repeat("u", 81), Role: account.RoleAdmin},
			wantErr: account.ErrUsernameTooLong,
		},
		{
			name:    "unknown role",
			account: account.Account{ID: "5", Username: "staff", Role: "staff"},
			wantErr: account.ErrInvalidRole,
		},
		{
			name:    "student without name",
			account: account.Account{ID: "6", Username: "ravi", Role: account.RoleStudent},
			wantErr: account.ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_Validate_FieldLengths tests the profile field length limits.
func TestAccount_Validate_FieldLengths(t *testing.T) {
	base := account.Account{ID: "1", Username: "asha", Role: account.RoleStudent, Name: "Asha"}

	long := base
	long.RoomNo = strings.Repeat("9", 11)
	if err := long.Validate(); err == nil {
		t.Error("expected error for room number over 10 characters")
	}

	long = base
	long.Contact = strings.Repeat("9", 16)
	if err := long.Validate(); err == nil {
		t.Error("expected error for contact over 15 characters")
	}
}

// TestAccount_Password tests hashing and verification.
func TestAccount_Password(t *testing.T) {
	var a account.Account
	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.PasswordHash == "" || a.PasswordHash == "correct horse battery" {
		t.Fatal("expected password to be hashed")
	}
	if err := a.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("expected password to match, got %v", err)
	}
	if err := a.CheckPassword("wrong horse battery"); err != account.ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

// TestAccount_Lockout tests that the fifth failure locks the account.
func TestAccount_Lockout(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var a account.Account
	for i := 0; i < account.MaxFailedLogins-1; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("account should not be locked before the limit")
	}
	a.RecordFailedLogin(now)
	if !a.IsLocked(now) {
		t.Fatal("account should be locked at the limit")
	}
	if a.IsLocked(now.Add(account.LockoutDuration + time.Second)) {
		t.Error("lock should expire after the lockout duration")
	}
	a.ResetFailedLogins()
	if a.FailedLogins != 0 || a.IsLocked(now) {
		t.Error("reset should clear counter and lock")
	}
}

// TestAccount_DisplayName tests the name fallback.
func TestAccount_DisplayName(t *testing.T) {
	a := account.Account{Username: "admin"}
	if got := a.DisplayName(); got != "admin" {
		t.Errorf("expected admin, got %s", got)
	}
	a.Name = "Warden"
	if got := a.DisplayName(); got != "Warden" {
		t.Errorf("expected Warden, got %s", got)
	}
}
