package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dlclark/regexp2"
)

const passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`

var errInvalidPassword = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")

type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name"`
}

func (req *SignupRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.ConfirmPassword, validation.Required, validation.In(req.Password).Error("confirm password doesn't match the password")),
		validation.Field(&req.Name, validation.Required),
	)
	if err != nil {
		return err
	}

	passwordExp := regexp2.MustCompile(passwordRegexPattern, regexp2.None)
	if ok, _ := passwordExp.MatchString(req.Password); !ok {
		return errInvalidPassword
	}

	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}
