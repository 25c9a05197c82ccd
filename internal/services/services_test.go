package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/directory"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/format"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/models"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuth(t *testing.T) (*AuthService, *session.Store, *directory.Directory, *gorm.DB) {
	db := dbtest.Open(t)
	store := session.NewStore(db, "secret", time.Hour)
	dir := directory.New(db)
	return NewAuthService(db, store, dir, guard.RoleMerchant), store, dir, db
}

func TestSignupCreatesPendingAccount(t *testing.T) {
	auth, store, dir, _ := newAuth(t)
	ctx := context.Background()

	res, err := auth.Signup(ctx, " New@Example.com ", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	sess, err := store.GetSession(session.WithToken(ctx, res.Token))
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "new@example.com", sess.Email)

	p, err := dir.GetProfile(ctx, res.UserID)
	require.NoError(t, err)
	assert.Equal(t, guard.RoleMerchant, p.Role)
	assert.False(t, p.Provisioned())
}

func TestSignupValidation(t *testing.T) {
	auth, _, _, _ := newAuth(t)
	ctx := context.Background()

	_, err := auth.Signup(ctx, "a@example.com", "short")
	assert.ErrorIs(t, err, ErrWeakCredentials)

	_, err = auth.Signup(ctx, "a@example.com", "long-enough")
	require.NoError(t, err)
	_, err = auth.Signup(ctx, "A@example.com", "long-enough")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginAndLogout(t *testing.T) {
	auth, store, _, _ := newAuth(t)
	ctx := context.Background()
	_, err := auth.Signup(ctx, "tech@example.com", "long-enough")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "tech@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, "nobody@example.com", "long-enough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := auth.Login(ctx, "TECH@example.com", "long-enough")
	require.NoError(t, err)

	reqCtx := session.WithToken(ctx, res.Token)
	require.NoError(t, auth.Logout(reqCtx))
	sess, err := store.GetSession(reqCtx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestCreateBoxNumbersPerClient(t *testing.T) {
	inv := NewInventoryService(dbtest.Open(t))
	ctx := context.Background()
	user := uuid.New()

	b1, err := inv.CreateBox(ctx, CreateBoxInput{AgentID: "A1", Client: "Telstra", JobID: 1, Serials: []string{"SN1", " SN2 ", ""}, CreatedBy: user})
	require.NoError(t, err)
	assert.Equal(t, "001", b1.BoxNumber)
	assert.Len(t, b1.Serials, 2)

	b2, err := inv.CreateBox(ctx, CreateBoxInput{AgentID: "A1", Client: "Telstra", JobID: 2, Serials: []string{"SN3"}, CreatedBy: user})
	require.NoError(t, err)
	assert.Equal(t, "002", b2.BoxNumber)

	b3, err := inv.CreateBox(ctx, CreateBoxInput{AgentID: "B2", Client: "Telstra", JobID: 3, Serials: []string{"SN4"}, CreatedBy: user})
	require.NoError(t, err)
	assert.Equal(t, "001", b3.BoxNumber)

	boxes, err := inv.ListBoxes(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, boxes, 2)
	assert.Equal(t, b2.ID, boxes[0].ID)
	assert.Len(t, boxes[1].Serials, 2)
}

func TestCreateBoxNumbersPerClientCode(t *testing.T) {
	db := dbtest.Open(t)
	inv := NewInventoryService(db)
	ctx := context.Background()

	telstra, err := inv.CreateBox(ctx, CreateBoxInput{AgentID: "A1", Client: "Telstra", JobID: 1, Serials: []string{"SN1"}})
	require.NoError(t, err)
	telco, err := inv.CreateBox(ctx, CreateBoxInput{AgentID: "A1", Client: "Telco", JobID: 2, Serials: []string{"SN2"}})
	require.NoError(t, err)

	assert.Equal(t, "TEL", telco.ClientCode)
	assert.Equal(t, "002", telco.BoxNumber)
	assert.NotEqual(t,
		format.BoxID(telstra.AgentID, telstra.Client, telstra.BoxNumber),
		format.BoxID(telco.AgentID, telco.Client, telco.BoxNumber))

	// Numbering continues past the highest number, not the row count.
	require.NoError(t, db.Create(&models.Box{AgentID: "A1", Client: "Telstra", ClientCode: "TEL", BoxNumber: "010"}).Error)
	next, err := inv.CreateBox(ctx, CreateBoxInput{AgentID: "A1", Client: "telstra", JobID: 3, Serials: []string{"SN3"}})
	require.NoError(t, err)
	assert.Equal(t, "011", next.BoxNumber)
}

func TestBoxNumberIsUniquePerClientCode(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, db.Create(&models.Box{AgentID: "A1", Client: "Telstra", ClientCode: "TEL", BoxNumber: "001"}).Error)
	err := db.Create(&models.Box{AgentID: "A1", Client: "Telco", ClientCode: "TEL", BoxNumber: "001"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, db.Create(&models.Box{AgentID: "B2", Client: "Telco", ClientCode: "TEL", BoxNumber: "001"}).Error)
}

func TestCreateBoxRejectsDuplicates(t *testing.T) {
	inv := NewInventoryService(dbtest.Open(t))
	ctx := context.Background()

	_, err := inv.CreateBox(ctx, CreateBoxInput{AgentID: "A1", Client: "Optus", JobID: 1, Serials: []string{"SN1"}})
	require.NoError(t, err)

	_, err = inv.CreateBox(ctx, CreateBoxInput{AgentID: "A1", Client: "Optus", JobID: 2, Serials: []string{"SN9", "SN1", "SN9"}})
	var dupErr *DuplicateSerialsError
	require.True(t, errors.As(err, &dupErr))
	assert.ElementsMatch(t, []string{"SN1", "SN9"}, dupErr.Serials)

	_, err = inv.CreateBox(ctx, CreateBoxInput{AgentID: "A1", Client: "Optus", Serials: []string{" "}})
	assert.ErrorIs(t, err, ErrNoSerials)
}

func TestDuplicateSerials(t *testing.T) {
	db := dbtest.Open(t)
	inv := NewInventoryService(db)
	ctx := context.Background()
	require.NoError(t, db.Create(&[]models.Serial{
		{SerialNumber: "SN1", JobID: 7},
		{SerialNumber: "SN2", JobID: 8},
	}).Error)

	assert.Equal(t, []string{"SN1", "SN2"}, inv.DuplicateSerials(ctx, []string{"SN1", "SN2", "SN3"}, nil))

	job := uint(7)
	assert.Equal(t, []string{"SN2"}, inv.DuplicateSerials(ctx, []string{"SN1", "SN2"}, &job))
	assert.Equal(t, []string{}, inv.DuplicateSerials(ctx, nil, nil))
}

func TestDuplicateSerialsSwallowsErrors(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, db.Migrator().DropTable(&models.Serial{}))

	inv := NewInventoryService(db)
	assert.Equal(t, []string{}, inv.DuplicateSerials(context.Background(), []string{"SN1"}, nil))
}

func TestListShifts(t *testing.T) {
	db := dbtest.Open(t)
	inv := NewInventoryService(db)
	start := time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	require.NoError(t, db.Create(&[]models.Shift{
		{UserID: uuid.New(), AgentID: "A1", StartedAt: start, EndedAt: &end, Jobs: 5},
		{UserID: uuid.New(), AgentID: "A1", StartedAt: start.Add(24 * time.Hour)},
		{UserID: uuid.New(), AgentID: "B2", StartedAt: start},
	}).Error)

	shifts, err := inv.ListShifts(context.Background(), "A1", time.Time{})
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Nil(t, shifts[0].EndedAt)
	assert.Equal(t, 8*time.Hour, shifts[1].Duration())

	shifts, err = inv.ListShifts(context.Background(), "A1", start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Nil(t, shifts[0].EndedAt)
}
