package auth

import "net/http"

// Kind classifies auth failures independently of the transport status the
// boundary happens to use for them.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidCredentials
	KindUnverified
	KindAlreadyExists
	KindUnauthenticated
	KindValidation
)

// Error is a typed auth failure carrying a status-like code and a
// user-facing, localized message. Collaborator failures (store, verifiers,
// mailer) are not wrapped into this type; they surface unmodified.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func notFound(status int, msg string) *Error {
	return &Error{Kind: KindNotFound, Status: status, Message: msg}
}

func invalidCredentials(msg string) *Error {
	return &Error{Kind: KindInvalidCredentials, Status: http.StatusNotFound, Message: msg}
}

func unverified(msg string) *Error {
	return &Error{Kind: KindUnverified, Status: http.StatusNotFound, Message: msg}
}

func alreadyExists(msg string) *Error {
	return &Error{Kind: KindAlreadyExists, Status: http.StatusInternalServerError, Message: msg}
}

func unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Status: http.StatusUnauthorized, Message: msg}
}
