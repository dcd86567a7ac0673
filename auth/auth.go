// Package auth exchanges credentials for a bearer token.
//
// Authentication runs at most once per run. A failed login or register is
// fatal: there is no retry and no fallback to the other mode.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pithecene-io/seedbank/log"
	"github.com/pithecene-io/seedbank/transport"
	"github.com/pithecene-io/seedbank/types"
)

// Mode selects the auth endpoint.
type Mode string

const (
	// ModeLogin logs in an existing user.
	ModeLogin Mode = "login"
	// ModeRegister creates the user first.
	ModeRegister Mode = "register"
)

// Auth endpoints relative to the API URL.
const (
	LoginPath    = "/api/auth/login"
	RegisterPath = "/api/auth/register"
)

// Default credentials used by the seeding account.
const (
	DefaultEmail    = "population@example.com"
	DefaultPassword = "population"
)

// ParseMode parses a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case "", ModeLogin:
		return ModeLogin, nil
	case ModeRegister:
		return ModeRegister, nil
	default:
		return "", types.ConfigError("invalid auth mode %q (must be login or register)", s)
	}
}

// Path returns the endpoint for the mode.
func (m Mode) Path() string {
	if m == ModeRegister {
		return RegisterPath
	}
	return LoginPath
}

// Credentials identify the seeding account.
type Credentials struct {
	Email    string
	Password string
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	if c.Email == "" {
		return types.ConfigError("auth email is required")
	}
	if c.Password == "" {
		return types.ConfigError("auth password is required")
	}
	return nil
}

// payload is the body of login and register requests.
// The service uses the email as the username.
type payload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authenticator performs the login/register call.
type Authenticator struct {
	sender transport.Sender
	logger *log.Logger
}

// New creates an Authenticator. A nil logger discards output.
func New(sender transport.Sender, logger *log.Logger) *Authenticator {
	if logger == nil {
		logger = log.Nop()
	}
	return &Authenticator{sender: sender, logger: logger}
}

// Authenticate exchanges credentials for bearer headers.
// The response body is the bare token; surrounding whitespace is trimmed.
func (a *Authenticator) Authenticate(ctx context.Context, mode Mode, creds Credentials) (types.AuthHeaders, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload{
		Email:    creds.Email,
		Username: creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("auth: marshal payload: %w", err)
	}

	a.logger.Debug(progressMessage(mode, creds.Email), map[string]any{"endpoint": mode.Path()})

	res, err := a.sender.Send(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   mode.Path(),
		Body:   body,
	})
	if err != nil {
		a.logger.Error(fmt.Sprintf("Failed to %s user %q.", mode, creds.Email), map[string]any{"error": err.Error()})
		return nil, types.NewError(types.ErrAuth, string(mode), err)
	}
	if !res.OK() {
		a.logger.Error(fmt.Sprintf("Failed to %s user %q.", mode, creds.Email), map[string]any{
			"status_code": res.StatusCode,
			"response":    res.BodyText(),
		})
		return nil, types.NewStatusError(types.ErrAuth, string(mode), res)
	}

	token := strings.TrimSpace(res.BodyText())
	if token == "" {
		return nil, types.NewError(types.ErrAuth, string(mode), fmt.Errorf("empty token in response"))
	}

	a.logger.Debug(successMessage(mode, creds.Email), nil)
	return types.BearerHeaders(token), nil
}

func progressMessage(mode Mode, email string) string {
	if mode == ModeRegister {
		return fmt.Sprintf("Registering user %q...", email)
	}
	return fmt.Sprintf("Logging in user %q...", email)
}

func successMessage(mode Mode, email string) string {
	if mode == ModeRegister {
		return fmt.Sprintf("Successfully registered user %q.", email)
	}
	return fmt.Sprintf("Successfully logged in user %q.", email)
}
