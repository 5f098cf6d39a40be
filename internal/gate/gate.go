package gate

import (
	"github.com/pkg/errors"

	"github.com/Arif-miad/education-economic-dashboard/internal/session"
)

const (
	username = "admin"
	password = "admin"
)

// FailureMessage is shown on the login form after a rejected attempt.
const FailureMessage = "Incorrect username/password"

// ErrInvalidCredentials is returned by Login when the pair does not match.
var ErrInvalidCredentials = errors.New("gate: invalid credentials")

// Check reports whether the pair matches the dashboard credentials exactly.
func Check(user, pass string) bool {
	return user == username && pass == password
}

// Login marks ctx authenticated when the credentials match. On failure ctx
// is left untouched.
func Login(ctx *session.Context, user, pass string) error {
	if !Check(user, pass) {
		return ErrInvalidCredentials
	}
	ctx.Authenticated = true
	return nil
}
