package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"messhall/internal/domain/account"
)

var validate = validator.New()

// RegisterStudentInput carries the self-registration form.
type RegisterStudentInput struct {
	Username string `validate:"required,max=80"`
	Password string `validate:"required"`
	Name     string `validate:"required,max=100"`
	RollNo   string `validate:"required,max=20"`
	RoomNo   string `validate:"required,max=10"`
	Contact  string `validate:"required,max=15"`
}

// ErrIncompleteRegistration wraps the first missing or oversized form field.
var ErrIncompleteRegistration = errors.New("registration form is incomplete")

// ExecuteRegisterStudent creates a student account from the public form.
// PRE: none
// POST: A student account exists with the given profile
func ExecuteRegisterStudent(ctx context.Context, input RegisterStudentInput, deps CreateAccountDeps) (account.Account, error) {
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return account.Account{}, fmt.Errorf("%w: %s is %s", ErrIncompleteRegistration, verrs[0].Field(), describeTag(verrs[0].Tag()))
		}
		return account.Account{}, err
	}

	acct, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Username: input.Username,
		Password: input.Password,
		Role:     account.RoleStudent,
		Name:     input.Name,
		RollNo:   input.RollNo,
		RoomNo:   input.RoomNo,
		Contact:  input.Contact,
	}, deps)
	if err != nil {
		return account.Account{}, err
	}

	slog.Info("student_event", "event", "registered", "student_id", acct.ID, "roll_no", acct.RollNo)
	return acct, nil
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "max":
		return "too long"
	}
	return "invalid"
}
