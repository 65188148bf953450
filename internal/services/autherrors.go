package services

import "errors"

// Coded auth failures. Handlers map these to the fixed human-readable
// messages below; anything uncoded falls back to the raw error text.
var (
	ErrUserNotFound    = errors.New("user-not-found")
	ErrWrongPassword   = errors.New("wrong-password")
	ErrEmailInUse      = errors.New("email-already-in-use")
	ErrWeakPassword    = errors.New("weak-password")
	ErrInvalidEmail    = errors.New("invalid-email")
	ErrTooManyRequests = errors.New("too-many-requests")
	ErrNetworkFailure  = errors.New("network-request-failed")
)

var authErrorMessages = map[error]string{
	ErrUserNotFound:    "No account found with this email address.",
	ErrWrongPassword:   "Incorrect password. Please try again.",
	ErrEmailInUse:      "An account with this email already exists.",
	ErrWeakPassword:    "Password should be at least 6 characters long.",
	ErrInvalidEmail:    "Please enter a valid email address.",
	ErrTooManyRequests: "Too many failed attempts. Please try again later.",
	ErrNetworkFailure:  "Network issue. Please check your connection.",
}

// AuthErrorMessage translates an auth failure into the message shown to the
// user. Unrecognized errors pass through verbatim so nothing is swallowed.
func AuthErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	for coded, msg := range authErrorMessages {
		if errors.Is(err, coded) {
			return msg
		}
	}
	return err.Error()
}
