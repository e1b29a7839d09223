package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"messhall/internal/domain/account"
)

// AccountStoreForStudents defines the store interface needed to edit and remove students.
type AccountStoreForStudents interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	GetByRollNo(ctx context.Context, rollNo string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Delete(ctx context.Context, id string) error
}

// ManageStudentsDeps holds dependencies for student maintenance.
type ManageStudentsDeps struct {
	AccountStore AccountStoreForStudents
}

// UpdateStudentInput carries an edit of a student's account. An empty
// Password leaves the current one in place.
type UpdateStudentInput struct {
	StudentID string
	Username  string
	Name      string
	RollNo    string
	RoomNo    string
	Contact   string
	Password  string
}

var ErrStudentNotFound = errors.New("student not found")

// loadStudent fetches an account and checks it is a student. Only a missing
// row maps to ErrStudentNotFound; other lookup failures are returned wrapped.
func loadStudent(ctx context.Context, store StudentLookup, id string) (account.Account, error) {
	if id == "" {
		return account.Account{}, ErrStudentNotFound
	}
	acct, err := store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return account.Account{}, fmt.Errorf("%w: %v", ErrStudentNotFound, err)
	}
	if err != nil {
		return account.Account{}, fmt.Errorf("load student %s: %w", id, err)
	}
	if !acct.IsStudent() {
		return account.Account{}, ErrStudentNotFound
	}
	return acct, nil
}

// ExecuteUpdateStudent applies an edit to a student's profile.
// PRE: StudentID refers to a student account
// POST: Profile fields replaced; password replaced only when given
// INVARIANT: Username and roll number stay unique
func ExecuteUpdateStudent(ctx context.Context, input UpdateStudentInput, deps ManageStudentsDeps) (account.Account, error) {
	acct, err := loadStudent(ctx, deps.AccountStore, input.StudentID)
	if err != nil {
		return account.Account{}, err
	}

	username := strings.TrimSpace(input.Username)
	if username != acct.Username {
		if other, err := deps.AccountStore.GetByUsername(ctx, username); err == nil && other.ID != acct.ID {
			return account.Account{}, ErrUsernameTaken
		}
	}
	rollNo := strings.TrimSpace(input.RollNo)
	if rollNo != "" && rollNo != acct.RollNo {
		if other, err := deps.AccountStore.GetByRollNo(ctx, rollNo); err == nil && other.ID != acct.ID {
			return account.Account{}, ErrRollNoTaken
		}
	}

	acct.Username = username
	acct.Name = strings.TrimSpace(input.Name)
	acct.RollNo = rollNo
	acct.RoomNo = strings.TrimSpace(input.RoomNo)
	acct.Contact = strings.TrimSpace(input.Contact)
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if input.Password != "" {
		if err := acct.SetPassword(input.Password); err != nil {
			return account.Account{}, err
		}
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}
	slog.Info("student_event", "event", "updated", "student_id", acct.ID, "password_changed", input.Password != "")
	return acct, nil
}

// ExecuteDeleteStudent removes a student together with their meals and payments.
// PRE: studentID refers to a student account
// POST: Student and dependent rows are gone
func ExecuteDeleteStudent(ctx context.Context, studentID string, deps ManageStudentsDeps) error {
	acct, err := loadStudent(ctx, deps.AccountStore, studentID)
	if err != nil {
		return err
	}
	if err := deps.AccountStore.Delete(ctx, acct.ID); err != nil {
		return err
	}
	slog.Info("student_event", "event", "deleted", "student_id", acct.ID, "name", acct.Name)
	return nil
}
