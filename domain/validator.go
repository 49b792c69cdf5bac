package domain

import (
	"strings"

	"whysapp/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type SendRequest struct {
	Sender string `validate:"required"`
	Body   string `validate:"required"`
	Day    *Day
}

func NewRoster(a, b string) (Roster, error) {
	r := Roster{A: a, B: b}
	if err := validate.Struct(r); err != nil {
		return Roster{}, err
	}
	return r, nil
}

// ValidateSend checks a send request before it reaches the store.
// The struct tags catch structurally empty fields; the trim check
// rejects whitespace-only bodies the tags cannot see.
func ValidateSend(req SendRequest, roster Roster) error {
	if err := validate.Struct(req); err != nil {
		if strings.TrimSpace(req.Sender) == "" {
			return errors.ErrUnknownSender
		}
		return errors.ErrEmptyBody
	}
	if err := ValidateBody(req.Body); err != nil {
		return err
	}
	if !roster.Knows(req.Sender) {
		return errors.ErrUnknownSender
	}
	return nil
}

// ValidateBody rejects blank message bodies. The store calls this
// defensively on insert and edit; callers are expected to have
// checked already.
func ValidateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return errors.ErrEmptyBody
	}
	return nil
}
