package orchestrators

import (
	"context"

	"messhall/internal/domain/account"
)

// UpdateProfileInput carries a student's edit of their own profile.
// The username is not editable here.
type UpdateProfileInput struct {
	AccountID string
	Name      string
	RollNo    string
	RoomNo    string
	Contact   string
	Password  string
}

// ExecuteUpdateProfile lets a student change their profile and, optionally, password.
// PRE: AccountID is the logged-in student
// POST: Profile persisted
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps ManageStudentsDeps) (account.Account, error) {
	acct, err := loadStudent(ctx, deps.AccountStore, input.AccountID)
	if err != nil {
		return account.Account{}, err
	}
	return ExecuteUpdateStudent(ctx, UpdateStudentInput{
		StudentID: acct.ID,
		Username:  acct.Username,
		Name:      input.Name,
		RollNo:    input.RollNo,
		RoomNo:    input.RoomNo,
		Contact:   input.Contact,
		Password:  input.Password,
	}, deps)
}
