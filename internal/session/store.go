// Package session issues and validates browser sessions: an HS256 token in a
// cookie, backed by a revocable row in the sessions table.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type tokenKey struct{}

// WithToken attaches the raw session token of the current request to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

type Store struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStore(db *gorm.DB, secret string, ttl time.Duration) *Store {
	return &Store{
		db:     db,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

var _ guard.SessionStore = (*Store)(nil)

// Issue records a new session for the user and returns its signed token.
func (s *Store) Issue(ctx context.Context, userID uuid.UUID, email string) (string, time.Time, error) {
	now := s.now()
	row := models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", time.Time{}, fmt.Errorf("failed to store session: %w", err)
	}

	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        row.ID.String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(row.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, row.ExpiresAt, nil
}

// GetSession returns nil, nil for a missing, invalid, expired or revoked token.
// Only storage failures are reported as errors.
func (s *Store) GetSession(ctx context.Context) (*guard.Session, error) {
	raw := TokenFrom(ctx)
	if raw == "" {
		return nil, nil
	}

	c, err := s.parse(raw)
	if err != nil {
		slog.DebugContext(ctx, "rejected session token", "error", err)
		return nil, nil
	}
	jti, err := uuid.Parse(c.ID)
	if err != nil {
		return nil, nil
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, nil
	}

	var row models.Session
	err = s.db.WithContext(ctx).Where("id = ? AND revoked = ?", jti, false).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if row.UserID != userID || !s.now().Before(row.ExpiresAt) {
		return nil, nil
	}

	return &guard.Session{ID: c.ID, UserID: userID, Email: c.Email}, nil
}

// SignOut revokes the session of the context's token. Expired tokens can still be
// signed out; a context without a token is a no-op.
func (s *Store) SignOut(ctx context.Context) error {
	raw := TokenFrom(ctx)
	if raw == "" {
		return nil
	}

	c, err := s.parse(raw, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	jti, err := uuid.Parse(c.ID)
	if err != nil {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", jti).
		Update("revoked", true).Error; err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// PurgeExpired deletes revoked sessions and sessions that expired before t.
func (s *Store) PurgeExpired(ctx context.Context, t time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ? OR revoked = ?", t, true).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

func (s *Store) parse(raw string, opts ...jwt.ParserOption) (*claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	tok, err := jwt.ParseWithClaims(raw, &claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*claims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return c, nil
}

// StartPurge removes dead sessions every interval until done is closed.
func StartPurge(store *Store, interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := store.PurgeExpired(context.Background(), time.Now())
				if err != nil {
					slog.Error("session purge failed", "action", "session.purge", "error", err)
				} else if n > 0 {
					slog.Info("expired sessions purged", "deleted", n)
				}
			case <-done:
				return
			}
		}
	}()
}
