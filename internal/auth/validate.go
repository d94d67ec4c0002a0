package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// minCredentialLength is the shortest accepted username or password.
const minCredentialLength = 3

// Credentials is the username/password pair used by Register and Login.
type Credentials struct {
	Username string
	Password string
}

// Validate reports the first field that is too short, username first.
func (c Credentials) Validate() *FieldError {
	if err := validation.Validate(c.Username,
		validation.Required.Error(msgUsernameTooShort),
		validation.RuneLength(minCredentialLength, 0).Error(msgUsernameTooShort),
	); err != nil {
		return &FieldError{Kind: KindValidation, Field: "username", Message: err.Error()}
	}

	if err := validation.Validate(c.Password,
		validation.Required.Error(msgPasswordTooShort),
		validation.RuneLength(minCredentialLength, 0).Error(msgPasswordTooShort),
	); err != nil {
		return &FieldError{Kind: KindValidation, Field: "password", Message: err.Error()}
	}

	return nil
}
