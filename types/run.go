// Package types defines core domain types for the seedbank pipeline.
//
//nolint:revive // types is a common Go package naming convention
package types

import (
	"errors"
	"maps"

	"github.com/google/uuid"
)

// RunMeta identifies a single seeding run in logs and completion events.
type RunMeta struct {
	// RunID is a random identifier generated once per process.
	RunID string
	// Command is the CLI command that started the run (activities, reactions, questions).
	Command string
}

// NewRunMeta creates run metadata with a fresh run ID.
func NewRunMeta(command string) RunMeta {
	return RunMeta{
		RunID:   uuid.NewString(),
		Command: command,
	}
}

// Validate checks that the run identity is usable.
func (r RunMeta) Validate() error {
	if r.RunID == "" {
		return errors.New("run_id must be non-empty")
	}
	if r.Command == "" {
		return errors.New("command must be non-empty")
	}
	return nil
}

// AuthHeaders holds the headers attached to every authenticated request.
// Produced once per run and never mutated afterwards. A nil or empty value
// means authentication is disabled.
type AuthHeaders map[string]string

// BearerHeaders returns AuthHeaders carrying the given bearer token.
func BearerHeaders(token string) AuthHeaders {
	return AuthHeaders{"Authorization": "Bearer " + token}
}

// Clone returns a copy that callers may modify freely.
func (h AuthHeaders) Clone() AuthHeaders {
	if h == nil {
		return nil
	}
	return maps.Clone(h)
}

// UploadResult is the normalized outcome of one transport call.
type UploadResult struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *UploadResult) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// BodyText returns the response body as a string.
func (r *UploadResult) BodyText() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}
