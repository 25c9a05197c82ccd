package guard

import (
	"context"
	"fmt"
	"log/slog"
)

const DefaultDeniedNotice = "You do not have permission to access this page."

// Destinations are where the guard sends visitors it turns away.
type Destinations struct {
	Login   string
	Pending string
	Landing string
}

// Guard decides, once per protected page load, whether the visitor may proceed.
// Every failure is terminal for the request; nothing is retried.
type Guard struct {
	sessions  SessionStore
	directory RoleDirectory
	dest      Destinations
	notice    string
}

type Option func(*Guard)

// WithDeniedNotice overrides the message shown when a role is not permitted.
func WithDeniedNotice(msg string) Option {
	return func(g *Guard) {
		if msg != "" {
			g.notice = msg
		}
	}
}

func New(sessions SessionStore, directory RoleDirectory, dest Destinations, opts ...Option) *Guard {
	g := &Guard{
		sessions:  sessions,
		directory: directory,
		dest:      dest,
		notice:    DefaultDeniedNotice,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize runs the guard. With no required roles any provisioned role is accepted.
func (g *Guard) Authorize(ctx context.Context, required ...Role) Decision {
	sess, err := g.resolveSession(ctx)
	if err != nil {
		return g.unauthenticated(err, false)
	}

	profile, err := g.resolveUser(ctx, sess)
	if err != nil {
		slog.WarnContext(ctx, "profile lookup failed, signing out",
			"user_id", sess.UserID.String(), "error", err)
		if serr := g.sessions.SignOut(ctx); serr != nil {
			slog.ErrorContext(ctx, "sign out after failed lookup",
				"user_id", sess.UserID.String(), "action", "guard.sign_out", "error", serr)
		}
		return g.unauthenticated(err, true)
	}

	if !profile.Provisioned() {
		return Decision{
			Outcome:  Unprovisioned,
			Redirect: g.dest.Pending,
			Reason:   ErrUnprovisioned,
		}
	}

	if len(required) > 0 && !hasRole(profile.Role, required) {
		return Decision{
			Outcome:  Forbidden,
			Redirect: g.dest.Landing,
			Reason:   fmt.Errorf("%w: %s", ErrForbidden, profile.Role),
			Notice:   g.notice,
		}
	}

	return Decision{Outcome: Authorized, Profile: profile}
}

func (g *Guard) resolveSession(ctx context.Context) (*Session, error) {
	sess, err := g.sessions.GetSession(ctx)
	if err != nil {
		slog.WarnContext(ctx, "session lookup failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}

// resolveUser folds every lookup failure, including a panicking directory,
// into ErrProfileLookupFailed.
func (g *Guard) resolveUser(ctx context.Context, sess *Session) (profile *UserProfile, err error) {
	defer func() {
		if r := recover(); r != nil {
			profile = nil
			err = fmt.Errorf("%w: %v", ErrProfileLookupFailed, r)
		}
	}()

	found, err := g.directory.GetProfile(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileLookupFailed, err)
	}
	if found == nil {
		return nil, fmt.Errorf("%w: no profile row", ErrProfileLookupFailed)
	}

	return &UserProfile{
		ID:      sess.UserID,
		Email:   sess.Email,
		Role:    found.Role,
		AgentID: found.AgentID,
	}, nil
}

func (g *Guard) unauthenticated(reason error, signedOut bool) Decision {
	return Decision{
		Outcome:   Unauthenticated,
		Redirect:  g.dest.Login,
		Reason:    reason,
		SignedOut: signedOut,
	}
}
