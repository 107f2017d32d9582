package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrEmailMismatch is returned when an address does not fully match the configured pattern.
var ErrEmailMismatch = errors.New("email does not match pattern")

// EmailValidator checks addresses against a configurable pattern.
type EmailValidator struct {
	re *regexp.Regexp
}

// NewEmailValidator compiles pattern anchored at both ends, so only whole-string matches pass.
func NewEmailValidator(pattern string) (*EmailValidator, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compile email pattern: %w", err)
	}
	return &EmailValidator{re: re}, nil
}

func (v *EmailValidator) Validate(email string) error {
	if !v.re.MatchString(email) {
		return ErrEmailMismatch
	}
	return nil
}
