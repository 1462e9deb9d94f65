package errx

import (
	"errors"
	"fmt"
)

// Kind classifies failures by the layer that produced them.
type Kind string

const (
	// KindNetwork means the remote could not be reached on any path.
	KindNetwork Kind = "network"
	// KindAPI means the server was reachable but rejected the request.
	KindAPI Kind = "api"
	// KindCredential means a required key was not configured.
	KindCredential Kind = "credential"
	// KindModel is a language-model specific failure.
	KindModel Kind = "model"
	// KindStorage covers credential persistence failures.
	KindStorage Kind = "storage"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "Ein unerwarteter Fehler ist aufgetreten."
	// NetworkErrorMessage is shown when neither the direct nor the proxy path works.
	NetworkErrorMessage = "Die Bundestag-API ist nicht erreichbar, weder direkt noch über den Proxy. Bitte prüfen Sie Ihre Internetverbindung."
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "Zugriff auf den Schlüsselspeicher fehlgeschlagen."
)

// Error wraps an underlying error with a kind, an optional status and a safe message.
type Error struct {
	Kind    Kind
	Err     error
	Status  int
	Cause   ModelCause
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, or the wrapped error.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) && t != nil {
		return t.Kind == e.Kind && (t.Status == 0 || t.Status == e.Status)
	}
	return errors.Is(e.Err, target)
}

// New creates a new Error with the provided information.
func New(kind Kind, err error, message string) *Error {
	return &Error{
		Kind:    kind,
		Err:     err,
		Message: message,
	}
}

// Network reports that both transports failed.
func Network(err error) *Error {
	return New(KindNetwork, err, NetworkErrorMessage)
}

// API reports a non-success HTTP status from a reachable server.
func API(status int, err error) *Error {
	e := New(KindAPI, err, apiMessage(status))
	e.Status = status
	return e
}

// Credential reports a missing key. name is the user-facing name of the key.
func Credential(name string) *Error {
	return New(KindCredential, nil, fmt.Sprintf("Kein %s hinterlegt. Bitte tragen Sie den Schlüssel in den Einstellungen ein.", name))
}

// WrapRedis wraps a Redis error with a consistent kind and message.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}
	return New(KindStorage, err, RedisErrorMessage)
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusOf returns the HTTP status carried by an API error, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// UserMessage renders err as plain German text. Raw causes are never included.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return SystemErrorMessage
}

func apiMessage(status int) string {
	switch status {
	case 401, 403:
		return fmt.Sprintf("Die Bundestag-API hat den API-Schlüssel abgelehnt (Status %d). Bitte prüfen Sie den Schlüssel.", status)
	case 404:
		return "Das angeforderte Dokument wurde nicht gefunden (Status 404)."
	case 429:
		return "Zu viele Anfragen an die Bundestag-API (Status 429). Bitte später erneut versuchen."
	}
	if status >= 500 {
		return fmt.Sprintf("Die Bundestag-API meldet einen Serverfehler (Status %d). Bitte später erneut versuchen.", status)
	}
	return fmt.Sprintf("Die Bundestag-API hat die Anfrage abgelehnt (Status %d).", status)
}
