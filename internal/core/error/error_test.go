package errx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("search: %w", API(401, errors.New("unauthorized")))

	assert.ErrorIs(t, err, &Error{Kind: KindAPI})
	assert.ErrorIs(t, err, &Error{Kind: KindAPI, Status: 401})
	assert.NotErrorIs(t, err, &Error{Kind: KindAPI, Status: 500})
	assert.NotErrorIs(t, err, &Error{Kind: KindNetwork})
	assert.Equal(t, 401, StatusOf(err))
	assert.True(t, IsKind(err, KindAPI))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Network(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, NetworkErrorMessage, UserMessage(err))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), SystemErrorMessage},
		{"credential", Credential("Gemini-API-Schlüssel"), "Kein Gemini-API-Schlüssel hinterlegt. Bitte tragen Sie den Schlüssel in den Einstellungen ein."},
		{"redis", WrapRedis(errors.New("i/o timeout")), RedisErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}

	assert.Contains(t, UserMessage(API(403, nil)), "403")
	assert.Contains(t, UserMessage(API(502, nil)), "Serverfehler")
	assert.NotContains(t, UserMessage(Network(errors.New("secret-host:443"))), "secret-host")
}

func TestWrapRedisNil(t *testing.T) {
	assert.NoError(t, WrapRedis(nil))
}

func TestClassifyModel(t *testing.T) {
	tests := []struct {
		msg    string
		cause  ModelCause
		status int
	}{
		{"Error 400, Message: API key not valid. Please pass a valid API key., Status: INVALID_ARGUMENT", CauseInvalidKey, 400},
		{"Error 403, Message: permission denied, Status: PERMISSION_DENIED", CauseInvalidKey, 403},
		{"Error 404, Message: models/gemini-9 is not found for API version v1beta, Status: NOT_FOUND", CauseNotFound, 404},
		{"Error 503, Message: The model is overloaded. Please try again later., Status: UNAVAILABLE", CauseOverloaded, 503},
		{"Error 429, Message: quota, Status: RESOURCE_EXHAUSTED", CauseOverloaded, 429},
		{"Error 400, Message: The input token count (2100000) exceeds the maximum number of tokens allowed (1048576).", CauseContextTooLong, 400},
		{"something odd happened", CauseUnknown, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.cause)+"/"+tt.msg[:min(len(tt.msg), 12)], func(t *testing.T) {
			cause, status := ClassifyModel(errors.New(tt.msg))
			assert.Equal(t, tt.cause, cause)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestModel(t *testing.T) {
	assert.NoError(t, Model(nil))

	err := Model(errors.New("Error 503, Message: overloaded"))
	assert.Equal(t, KindModel, KindOf(err))
	assert.Equal(t, CauseOverloaded, CauseOf(err))
	assert.Equal(t, 503, StatusOf(err))
	assert.Equal(t, modelMessage(CauseOverloaded), UserMessage(err))

	cred := Credential("Gemini-API-Schlüssel")
	assert.Same(t, cred, Model(cred), "classified errors pass through")
	assert.Equal(t, CauseUnknown, CauseOf(errors.New("plain")))
}
