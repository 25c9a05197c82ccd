package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/depot"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("user role not found")
	ErrUnknownAgent    = errors.New("unknown agent")
)

// Directory resolves user roles and agent assignments from the user_roles table.
type Directory struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

var _ guard.RoleDirectory = (*Directory)(nil)

// GetProfile looks up the single user_roles row for userID. An empty role is
// returned as-is; a role outside the known set is reported as a malformed row.
func (d *Directory) GetProfile(ctx context.Context, userID uuid.UUID) (*guard.UserProfile, error) {
	var row models.UserRole
	err := d.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user role: %w", err)
	}

	var role guard.Role
	if strings.TrimSpace(row.Role) != "" {
		role, err = guard.ParseRole(row.Role)
		if err != nil {
			return nil, fmt.Errorf("malformed user role row: %w", err)
		}
	}

	return &guard.UserProfile{
		ID:      row.UserID,
		Email:   row.Email,
		Role:    role,
		AgentID: row.AgentID,
	}, nil
}

// Register creates the role row for a fresh signup. The account stays
// unprovisioned until an agent is assigned.
func (d *Directory) Register(ctx context.Context, tx *gorm.DB, userID uuid.UUID, email string, role guard.Role) error {
	db := d.db
	if tx != nil {
		db = tx
	}
	row := models.UserRole{UserID: userID, Email: email, Role: string(role)}
	return db.WithContext(ctx).Create(&row).Error
}

// Provision assigns role and agent to userID, creating the row if needed.
func (d *Directory) Provision(ctx context.Context, depots *depot.Registry, userID uuid.UUID, email string, role guard.Role, agentID string) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	if depots != nil && !depots.Exists(agentID) {
		return fmt.Errorf("%w: %s", ErrUnknownAgent, agentID)
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.UserRole
		err := tx.First(&row, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.UserRole{UserID: userID, Email: email, Role: string(role), AgentID: &agentID}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&row).Updates(map[string]interface{}{
			"role":     string(role),
			"agent_id": agentID,
		}).Error
	})
}

// Members lists every user assigned to agentID.
func (d *Directory) Members(ctx context.Context, agentID string) ([]models.UserRole, error) {
	var rows []models.UserRole
	err := d.db.WithContext(ctx).
		Scopes(depot.ForAgent(agentID)).
		Order("email").
		Find(&rows).Error
	return rows, err
}
