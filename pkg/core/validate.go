package core

import (
	"fmt"
	"strings"
)

// ValidateCredentials checks the sign-in form.
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return &ValidationError{Field: "username", Reason: "is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Reason: "is required"}
	}
	return nil
}

// ValidateSignUp checks the sign-up form, including the confirmation field.
func ValidateSignUp(username, password, confirm string) error {
	if err := ValidateCredentials(username, password); err != nil {
		return err
	}
	if password != confirm {
		return &ValidationError{Field: "password", Reason: "does not match confirmation"}
	}
	return nil
}

// Normalize trims the draft and rejects it when the title is blank, there are
// no items, or an item is blank.
func (d Draft) Normalize() (Draft, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Draft{}, &ValidationError{Field: "title", Reason: "is required"}
	}
	if len(d.Items) == 0 {
		return Draft{}, &ValidationError{Field: "contents", Reason: "need at least one item"}
	}

	items := make([]string, 0, len(d.Items))
	for i, item := range d.Items {
		item = strings.TrimSpace(item)
		if item == "" {
			return Draft{}, &ValidationError{Field: fmt.Sprintf("contents[%d]", i), Reason: "is blank"}
		}
		items = append(items, item)
	}

	return Draft{Title: title, Items: items}, nil
}
