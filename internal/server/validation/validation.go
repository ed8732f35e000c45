// Package validation checks the shape of auth endpoint inputs and reports
// failures per field, so the API can return actionable 422 responses.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Errors maps a field name to its list of validation messages.
// It satisfies error so services can return it through error values.
type Errors map[string][]string

func (e Errors) Error() string { return "validation failed" }

func (e Errors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

var nameCharset = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// SignupInput is the decoded body of POST /api/auth/signup.
type SignupInput struct {
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Signup validates a signup request. The name is trimmed in place before
// validation. Returns nil when the input is valid.
func Signup(in *SignupInput) Errors {
	errs := Errors{}
	in.Name = strings.TrimSpace(in.Name)

	if len(in.Name) < 3 {
		errs.add("name", "Username must be at least 3 characters")
	}
	if len(in.Name) > 30 {
		errs.add("name", "Username must be 30 characters or less")
	}
	if in.Name != "" && !nameCharset.MatchString(in.Name) {
		errs.add("name", "Username can only contain letters, numbers, underscores, hyphens and dots")
	}

	if len(in.Password) < 8 {
		errs.add("password", "Password must be at least 8 characters")
	}
	if !strings.ContainsFunc(in.Password, unicode.IsUpper) {
		errs.add("password", "Password must contain at least one uppercase letter")
	}
	if !strings.ContainsFunc(in.Password, unicode.IsLower) {
		errs.add("password", "Password must contain at least one lowercase letter")
	}
	if !strings.ContainsFunc(in.Password, unicode.IsDigit) {
		errs.add("password", "Password must contain at least one number")
	}

	if in.ConfirmPassword == "" {
		errs.add("confirmPassword", "Please confirm your password")
	} else if in.Password != in.ConfirmPassword {
		errs.add("confirmPassword", "Passwords don't match")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// LoginInput is the decoded body of POST /api/auth/login.
type LoginInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Login validates a login request. Only presence is checked here; anything
// beyond that is the credential check's job.
func Login(in *LoginInput) Errors {
	errs := Errors{}
	in.Name = strings.TrimSpace(in.Name)

	if in.Name == "" {
		errs.add("name", "Username is required")
	}
	if in.Password == "" {
		errs.add("password", "Password is required")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
