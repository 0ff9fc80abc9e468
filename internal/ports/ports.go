// Package ports defines interfaces for the collaborators around the
// job-tracking core. Implementations live in internal/adapters and
// internal/data; orchestration in internal/service.
package ports

import (
	"context"
	"encoding/json"
	"time"

	domainauth "github.com/inkwell-ai/inkwell-api/internal/domain/auth"
	"github.com/inkwell-ai/inkwell-api/internal/domain/model"
)

// JobStore is the concurrent registry tracking outsourced work.
//
// Operations are non-suspending (in-memory, lock-protected, short critical
// sections) and therefore take no context. All methods are safe for
// concurrent use.
type JobStore interface {
	// Create inserts a new record in processing state. A duplicate id is an
	// internal invariant violation, not a user error.
	Create(id string, kind model.JobKind) error

	// Update overwrites status/result/error and the update timestamp for an
	// existing id. It reports false when the id is absent (evicted before the
	// background task finished), which callers log as an anomaly.
	Update(id string, status model.JobStatus, result json.RawMessage, errMsg string) bool

	// Get returns the current record for an id, or a NotFound error.
	Get(id string) (model.Job, error)

	// Sweep deletes every record created before now-maxAge, regardless of
	// status, and returns the number removed.
	Sweep(maxAge time.Duration) int

	// Len reports the number of live records, for metrics.
	Len() int
}

// MLClient calls the external ML service. Implementations bound each call
// with the context deadline supplied by the caller and map any non-2xx
// response, transport error, or deadline breach to an error.
type MLClient interface {
	Analyze(ctx context.Context, req model.AnalyzeRequest) (json.RawMessage, error)
	Generate(ctx context.Context, req model.GenerateRequest) (json.RawMessage, error)
}

// UserRepository persists registered accounts and their reset-token state.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, userID string) error
	GetByResetToken(ctx context.Context, tokenHash string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// Mailer delivers transactional mail (password reset links).
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
