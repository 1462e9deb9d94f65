package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plenarlens/server/internal/agent/llm"
)

func dialTo(p llm.Provider) llm.Dialer {
	return func(context.Context, string) (*llm.Clients, error) {
		return &llm.Clients{Provider: p}, nil
	}
}

func TestVerifyKey(t *testing.T) {
	t.Run("both tiers reachable", func(t *testing.T) {
		p := &fakeProvider{}
		st := newService().VerifyKey(context.Background(), dialTo(p), "key")

		assert.Equal(t, KeyStatus{Flash: true, Pro: true}, st)
		assert.Len(t, p.requests, 2)
	})

	t.Run("rejected key on both tiers", func(t *testing.T) {
		rejected := errors.New("Error 400, Message: API key not valid. Please pass a valid API key., Status: INVALID_ARGUMENT")
		p := &fakeProvider{errs: map[string]error{"flash-test": rejected, "pro-test": rejected}}
		st := newService().VerifyKey(context.Background(), dialTo(p), "bad")

		assert.False(t, st.Flash)
		assert.False(t, st.Pro)
		assert.NotEmpty(t, st.Message)
		assert.Contains(t, st.Message, "abgelehnt")
	})

	t.Run("one tier missing", func(t *testing.T) {
		p := &fakeProvider{errs: map[string]error{"pro-test": errors.New("Error 404, Message: models/pro-test is not found")}}
		st := newService().VerifyKey(context.Background(), dialTo(p), "key")

		assert.True(t, st.Flash)
		assert.False(t, st.Pro)
		assert.Contains(t, st.Message, "pro-test")
	})

	t.Run("empty candidate counts as reachable", func(t *testing.T) {
		p := &fakeProvider{errs: map[string]error{"pro-test": llm.ErrEmptyResponse}}
		st := newService().VerifyKey(context.Background(), dialTo(p), "key")
		assert.True(t, st.Pro)
	})

	t.Run("transport failure downgrades all tiers", func(t *testing.T) {
		dial := func(context.Context, string) (*llm.Clients, error) { return nil, errors.New("dial tcp: no route") }
		st := newService().VerifyKey(context.Background(), dial, "key")

		assert.False(t, st.Flash)
		assert.False(t, st.Pro)
		assert.NotEmpty(t, st.Message)
	})

	t.Run("missing key makes no call", func(t *testing.T) {
		called := false
		dial := func(context.Context, string) (*llm.Clients, error) { called = true; return nil, nil }
		st := newService().VerifyKey(context.Background(), dial, "")

		assert.False(t, called)
		assert.NotEmpty(t, st.Message)
	})
}
