package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/depot"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/format"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNoSerials = errors.New("at least one serial number is required")

// DuplicateSerialsError lists serial numbers that are already recorded.
type DuplicateSerialsError struct {
	Serials []string
}

func (e *DuplicateSerialsError) Error() string {
	return "duplicate serial numbers: " + strings.Join(e.Serials, ", ")
}

type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// DuplicateSerials returns the serials already stored, ignoring those of
// excludeJobID when set. Lookup errors are logged and reported as no duplicates.
func (s *InventoryService) DuplicateSerials(ctx context.Context, serials []string, excludeJobID *uint) []string {
	if len(serials) == 0 {
		return []string{}
	}

	q := s.db.WithContext(ctx).Model(&models.Serial{}).Where("serial_number IN ?", serials)
	if excludeJobID != nil {
		q = q.Where("job_id <> ?", *excludeJobID)
	}

	var found []string
	if err := q.Order("serial_number").Pluck("serial_number", &found).Error; err != nil {
		slog.ErrorContext(ctx, "duplicate serial check failed", "action", "inventory.check_serials", "error", err)
		return []string{}
	}
	if found == nil {
		found = []string{}
	}
	return found
}

type CreateBoxInput struct {
	AgentID   string
	Client    string
	JobID     uint
	Serials   []string
	CreatedBy uuid.UUID
}

const boxNumberAttempts = 3

var ErrBoxNumberTaken = errors.New("box number was taken by a concurrent entry")

// CreateBox records a box and its serials under the next box number for the
// agent and client code. A number claimed concurrently is retried.
func (s *InventoryService) CreateBox(ctx context.Context, in CreateBoxInput) (*models.Box, error) {
	serials, repeated := cleanSerials(in.Serials)
	if len(serials) == 0 {
		return nil, ErrNoSerials
	}
	dups := append(repeated, s.DuplicateSerials(ctx, serials, nil)...)
	if len(dups) > 0 {
		return nil, &DuplicateSerialsError{Serials: dups}
	}

	client := strings.TrimSpace(in.Client)
	for attempt := 1; attempt <= boxNumberAttempts; attempt++ {
		box := models.Box{
			AgentID:    in.AgentID,
			Client:     client,
			ClientCode: format.ClientCode(client),
			CreatedBy:  in.CreatedBy,
		}
		for _, sn := range serials {
			box.Serials = append(box.Serials, models.Serial{SerialNumber: sn, JobID: in.JobID})
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var last int64
			if err := tx.Model(&models.Box{}).
				Scopes(depot.ForAgent(in.AgentID)).
				Where("client_code = ?", box.ClientCode).
				Select("COALESCE(MAX(CAST(box_number AS INTEGER)), 0)").
				Scan(&last).Error; err != nil {
				return err
			}
			box.BoxNumber = format.PadBoxNumber(int(last) + 1)
			return tx.Create(&box).Error
		})
		if err == nil {
			return &box, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create box: %w", err)
		}
		// Either a serial or the box number was claimed in the meantime.
		if dups := s.DuplicateSerials(ctx, serials, nil); len(dups) > 0 {
			return nil, &DuplicateSerialsError{Serials: dups}
		}
		slog.WarnContext(ctx, "box number conflict, retrying",
			"action", "inventory.create_box",
			"agent_id", in.AgentID,
			"client_code", box.ClientCode,
			"box_number", box.BoxNumber,
			"attempt", attempt)
	}
	return nil, fmt.Errorf("failed to create box: %w", ErrBoxNumberTaken)
}

func (s *InventoryService) ListBoxes(ctx context.Context, agentID string) ([]models.Box, error) {
	var boxes []models.Box
	err := s.db.WithContext(ctx).
		Scopes(depot.ForAgent(agentID)).
		Preload("Serials").
		Order("created_at DESC").Order("id DESC").
		Find(&boxes).Error
	return boxes, err
}

// ListShifts returns the agent's shifts, newest first. A non-zero since keeps
// only shifts started at or after it.
func (s *InventoryService) ListShifts(ctx context.Context, agentID string, since time.Time) ([]models.Shift, error) {
	q := s.db.WithContext(ctx).Scopes(depot.ForAgent(agentID))
	if !since.IsZero() {
		q = q.Where("started_at >= ?", since)
	}
	var shifts []models.Shift
	err := q.Order("started_at DESC").Find(&shifts).Error
	return shifts, err
}

// cleanSerials trims and drops blank entries. Entries repeated within the
// input are returned separately.
func cleanSerials(in []string) (unique, repeated []string) {
	seen := make(map[string]bool, len(in))
	for _, raw := range in {
		sn := strings.TrimSpace(raw)
		if sn == "" {
			continue
		}
		if seen[sn] {
			repeated = append(repeated, sn)
			continue
		}
		seen[sn] = true
		unique = append(unique, sn)
	}
	return unique, repeated
}
