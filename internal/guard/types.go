package guard

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNoSession           = errors.New("no authenticated session")
	ErrProfileLookupFailed = errors.New("user profile could not be resolved")
	ErrUnprovisioned       = errors.New("user is not assigned to an agent yet")
	ErrForbidden           = errors.New("role not permitted for this page")
)

// Session is the authenticated identity behind a request. The guard never mutates it.
type Session struct {
	ID     string
	UserID uuid.UUID
	Email  string
}

// UserProfile is the application-level identity resolved for a session.
type UserProfile struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	Role    Role      `json:"role"`
	AgentID *string   `json:"agent_id"`
}

// Provisioned reports whether the profile has both a role and an agent assignment.
func (p *UserProfile) Provisioned() bool {
	return p.Role != "" && p.AgentID != nil && *p.AgentID != ""
}

// Agent returns the agent id, or "" when unassigned.
func (p *UserProfile) Agent() string {
	if p.AgentID == nil {
		return ""
	}
	return *p.AgentID
}

// SessionStore holds the current session for the context's request.
type SessionStore interface {
	// GetSession returns nil, nil when no session is present.
	GetSession(ctx context.Context) (*Session, error)
	SignOut(ctx context.Context) error
}

// RoleDirectory maps an authenticated identity to its role and agent.
type RoleDirectory interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
}

type Outcome int

const (
	Authorized Outcome = iota
	Unauthenticated
	Unprovisioned
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Authorized:
		return "authorized"
	case Unauthenticated:
		return "unauthenticated"
	case Unprovisioned:
		return "unprovisioned"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision is the result of one guard evaluation. Profile is set only when
// Outcome is Authorized; Redirect is set for every other outcome.
type Decision struct {
	Outcome   Outcome
	Profile   *UserProfile
	Redirect  string
	Reason    error
	Notice    string
	SignedOut bool
}

func (d Decision) Allowed() bool {
	return d.Outcome == Authorized
}
