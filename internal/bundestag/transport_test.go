package bundestag

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/plenarlens/server/internal/core/error"
)

// deadURL returns the address of a server that is no longer listening.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

// proxyServer forwards the url-encoded target found in the raw query.
func proxyServer(t *testing.T, hits *atomic.Int32, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		target, err := url.QueryUnescape(r.URL.RawQuery)
		if !assert.NoError(t, err) {
			return
		}
		u, err := url.Parse(target)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, "secret", u.Query().Get("apikey"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestTransport_Fetch(t *testing.T) {
	t.Run("direct success sends key as query parameter", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		var proxyHits atomic.Int32
		proxy := proxyServer(t, &proxyHits, http.StatusOK, `{}`)
		defer proxy.Close()

		tr := NewTransportWithClient(srv.Client(), proxy.URL+"/?")
		body, err := tr.Fetch(context.Background(), srv.URL+"/x?format=json", "secret")

		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
		assert.Equal(t, int32(0), proxyHits.Load())
	})

	t.Run("non-2xx from reachable server is not retried", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"invalid key"}`))
		}))
		defer srv.Close()

		var proxyHits atomic.Int32
		proxy := proxyServer(t, &proxyHits, http.StatusOK, `{}`)
		defer proxy.Close()

		tr := NewTransportWithClient(http.DefaultClient, proxy.URL+"/?")
		_, err := tr.Fetch(context.Background(), srv.URL, "secret")

		require.Error(t, err)
		assert.True(t, errx.IsKind(err, errx.KindAPI))
		assert.Equal(t, http.StatusUnauthorized, errx.StatusOf(err))
		assert.Equal(t, int32(0), proxyHits.Load())
	})

	t.Run("network failure falls back to proxy", func(t *testing.T) {
		var proxyHits atomic.Int32
		proxy := proxyServer(t, &proxyHits, http.StatusOK, `{"via":"proxy"}`)
		defer proxy.Close()

		tr := NewTransportWithClient(http.DefaultClient, proxy.URL+"/?")
		body, err := tr.Fetch(context.Background(), deadURL(t)+"/plenarprotokoll-text?format=json", "secret")

		require.NoError(t, err)
		assert.JSONEq(t, `{"via":"proxy"}`, string(body))
		assert.Equal(t, int32(1), proxyHits.Load())
	})

	t.Run("proxy rejection surfaces as api error with status", func(t *testing.T) {
		var proxyHits atomic.Int32
		proxy := proxyServer(t, &proxyHits, http.StatusForbidden, `denied`)
		defer proxy.Close()

		tr := NewTransportWithClient(http.DefaultClient, proxy.URL+"/?")
		_, err := tr.Fetch(context.Background(), deadURL(t), "secret")

		require.Error(t, err)
		assert.True(t, errx.IsKind(err, errx.KindAPI))
		assert.Equal(t, http.StatusForbidden, errx.StatusOf(err))
	})

	t.Run("both paths unreachable yields one network error", func(t *testing.T) {
		tr := NewTransportWithClient(http.DefaultClient, deadURL(t)+"/?")
		_, err := tr.Fetch(context.Background(), deadURL(t), "secret")

		require.Error(t, err)
		assert.True(t, errx.IsKind(err, errx.KindNetwork))
		assert.Equal(t, errx.NetworkErrorMessage, errx.UserMessage(err))
	})

	t.Run("cancelled context does not try the proxy", func(t *testing.T) {
		var proxyHits atomic.Int32
		proxy := proxyServer(t, &proxyHits, http.StatusOK, `{}`)
		defer proxy.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		tr := NewTransportWithClient(http.DefaultClient, proxy.URL+"/?")
		_, err := tr.Fetch(ctx, deadURL(t), "secret")

		require.Error(t, err)
		assert.True(t, errx.IsKind(err, errx.KindNetwork))
		assert.Equal(t, int32(0), proxyHits.Load())
	})
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://example.org/a", redact("https://example.org/a?apikey=secret"))
}
