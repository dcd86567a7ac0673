package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pithecene-io/seedbank/log"
	"github.com/pithecene-io/seedbank/transport"
	"github.com/pithecene-io/seedbank/types"
)

func newClient(t *testing.T, url string) *transport.Client {
	t.Helper()
	c, err := transport.New(transport.Config{BaseURL: url})
	require.NoError(t, err)
	return c
}

func TestAuthenticate_LoginReturnsBearer(t *testing.T) {
	var got payload
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte("abc123"))
	}))
	defer ts.Close()

	a := New(newClient(t, ts.URL), log.Nop())
	headers, err := a.Authenticate(t.Context(), ModeLogin, Credentials{Email: "population@example.com", Password: "population"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc123", headers["Authorization"])
	assert.Equal(t, LoginPath, path)
	assert.Equal(t, payload{Email: "population@example.com", Username: "population@example.com", Password: "population"}, got)
}

func TestAuthenticate_RegisterUsesRegisterEndpoint(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte("tok\n"))
	}))
	defer ts.Close()

	a := New(newClient(t, ts.URL), log.Nop())
	headers, err := a.Authenticate(t.Context(), ModeRegister, Credentials{Email: "e@x", Password: "p"})
	require.NoError(t, err)

	assert.Equal(t, RegisterPath, path)
	assert.Equal(t, "Bearer tok", headers["Authorization"])
}

func TestAuthenticate_NonOKIsFatalWithoutFallback(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad credentials"))
	}))
	defer ts.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	a := New(newClient(t, ts.URL), log.FromCore(core))

	headers, err := a.Authenticate(t.Context(), ModeLogin, Credentials{Email: "e@x", Password: "p"})
	require.Error(t, err)
	assert.Nil(t, headers)
	assert.True(t, errors.Is(err, types.ErrAuth))
	assert.Equal(t, http.StatusUnauthorized, types.StatusOf(err))
	assert.Equal(t, int32(1), calls.Load(), "no retry and no fallback to register")

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	assert.Equal(t, int64(http.StatusUnauthorized), errs[0].ContextMap()["status_code"])
	assert.Equal(t, "bad credentials", errs[0].ContextMap()["response"])
}

func TestAuthenticate_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	a := New(newClient(t, url), log.Nop())
	_, err := a.Authenticate(t.Context(), ModeLogin, Credentials{Email: "e@x", Password: "p"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrAuth))
	assert.True(t, errors.Is(err, types.ErrNetwork))
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	a := New(newClient(t, ts.URL), log.Nop())
	_, err := a.Authenticate(t.Context(), ModeLogin, Credentials{Email: "e@x", Password: "p"})
	assert.True(t, errors.Is(err, types.ErrAuth))
}

func TestAuthenticate_NilLogger(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte("tok"))
	}))
	defer ts.Close()

	a := New(newClient(t, ts.URL), nil)
	headers, err := a.Authenticate(t.Context(), ModeLogin, Credentials{Email: "e@x", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", headers["Authorization"])

	status.Store(http.StatusUnauthorized)
	_, err = a.Authenticate(t.Context(), ModeLogin, Credentials{Email: "e@x", Password: "p"})
	assert.True(t, errors.Is(err, types.ErrAuth))
}

func TestAuthenticate_MissingCredentials(t *testing.T) {
	a := New(newClient(t, "http://127.0.0.1:1"), log.Nop())
	_, err := a.Authenticate(t.Context(), ModeLogin, Credentials{Email: "e@x"})
	assert.True(t, errors.Is(err, types.ErrConfig))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeLogin, m)

	m, err = ParseMode("REGISTER")
	require.NoError(t, err)
	assert.Equal(t, ModeRegister, m)
	assert.Equal(t, RegisterPath, m.Path())

	_, err = ParseMode("oauth")
	assert.True(t, errors.Is(err, types.ErrConfig))
}
