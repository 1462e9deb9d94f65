package errx

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ModelCause is the heuristically detected reason for a model failure.
type ModelCause string

const (
	CauseUnknown        ModelCause = "unknown"
	CauseInvalidKey     ModelCause = "invalid_key"
	CauseNotFound       ModelCause = "not_found"
	CauseOverloaded     ModelCause = "overloaded"
	CauseContextTooLong ModelCause = "context_too_long"
)

// genai formats API errors as "Error 503, Message: ..., Status: UNAVAILABLE".
var statusPattern = regexp.MustCompile(`(?i)\berror (\d{3})\b`)

// Model wraps a language-model failure, classifying it from the error text.
// An error that is already an *Error is returned unchanged.
func Model(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	cause, status := ClassifyModel(err)
	m := New(KindModel, err, modelMessage(cause))
	m.Cause = cause
	m.Status = status
	return m
}

// ClassifyModel inspects the error message for the well-known Gemini failures.
func ClassifyModel(err error) (ModelCause, int) {
	if err == nil {
		return CauseUnknown, 0
	}
	msg := strings.ToLower(err.Error())

	status := 0
	if m := statusPattern.FindStringSubmatch(msg); len(m) == 2 {
		status, _ = strconv.Atoi(m[1])
	}

	switch {
	case strings.Contains(msg, "api key not valid"),
		strings.Contains(msg, "api_key_invalid"),
		strings.Contains(msg, "permission_denied"),
		strings.Contains(msg, "unauthenticated"),
		status == 401, status == 403:
		return CauseInvalidKey, status
	case strings.Contains(msg, "input token count"),
		strings.Contains(msg, "exceeds the maximum number of tokens"),
		strings.Contains(msg, "context length"),
		strings.Contains(msg, "too long"):
		return CauseContextTooLong, status
	case strings.Contains(msg, "overloaded"),
		strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "resource_exhausted"),
		status == 429, status == 503:
		return CauseOverloaded, status
	case strings.Contains(msg, "not found"),
		strings.Contains(msg, "not_found"),
		status == 404:
		return CauseNotFound, status
	}
	return CauseUnknown, status
}

// CauseOf returns the model cause carried by err, or CauseUnknown.
func CauseOf(err error) ModelCause {
	var e *Error
	if errors.As(err, &e) && e.Cause != "" {
		return e.Cause
	}
	return CauseUnknown
}

func modelMessage(cause ModelCause) string {
	switch cause {
	case CauseInvalidKey:
		return "Der Gemini-API-Schlüssel wurde abgelehnt."
	case CauseNotFound:
		return "Das angefragte Gemini-Modell ist nicht verfügbar."
	case CauseOverloaded:
		return "Das Gemini-Modell ist derzeit überlastet. Bitte später erneut versuchen."
	case CauseContextTooLong:
		return "Das Dokument ist für das Modell zu lang."
	}
	return "Die Anfrage an Gemini ist fehlgeschlagen."
}
