package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/services/dto"
	"github.com/jafrydeep2/offmarket-sub000/pkg/apperrors"
)

func TestAlertCreate_RejectsInvertedBudget(t *testing.T) {
	t.Parallel()
	svc := NewAlertService(newFakeAlertRepo())

	_, err := svc.Create("u-1", dto.CreateAlertRequest{
		TransactionType: models.ListingTypeSale,
		Category:        models.AlertCategoryApartment,
		MinBudget:       floatPtr(500_000),
		MaxBudget:       floatPtr(400_000),
	})
	assert.ErrorIs(t, err, apperrors.ErrBudgetRange)
}

func TestAlertCreate_DefaultsToActive(t *testing.T) {
	t.Parallel()
	svc := NewAlertService(newFakeAlertRepo())

	alert, err := svc.Create("u-1", dto.CreateAlertRequest{
		TransactionType: models.ListingTypeRent,
		Category:        models.AlertCategoryHouse,
	})
	require.NoError(t, err)
	assert.True(t, alert.IsActive)
	assert.Equal(t, "u-1", alert.UserID)
}

func TestAlertCreate_EnforcesSavedAlertCap(t *testing.T) {
	t.Parallel()
	svc := NewAlertService(newFakeAlertRepo())

	req := dto.CreateAlertRequest{
		TransactionType: models.ListingTypeSale,
		Category:        models.AlertCategoryApartment,
	}
	for i := 0; i < maxAlertsPerUser; i++ {
		_, err := svc.Create("u-1", req)
		require.NoError(t, err)
	}

	_, err := svc.Create("u-1", req)
	assert.ErrorIs(t, err, apperrors.ErrTooManyAlerts)

	// the cap is per account
	_, err = svc.Create("u-2", req)
	assert.NoError(t, err)
}

func TestAlertCreate_RejectsUnknownEnums(t *testing.T) {
	t.Parallel()
	svc := NewAlertService(newFakeAlertRepo())

	_, err := svc.Create("u-1", dto.CreateAlertRequest{
		TransactionType: "lease",
		Category:        models.AlertCategoryHouse,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidListingType)

	_, err = svc.Create("u-1", dto.CreateAlertRequest{
		TransactionType: models.ListingTypeSale,
		Category:        "penthouse",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAlertCategory)
}

func TestAlertUpdate_ValidatesMergedBudget(t *testing.T) {
	t.Parallel()
	repo := newFakeAlertRepo()
	svc := NewAlertService(repo)

	created, err := svc.Create("u-1", dto.CreateAlertRequest{
		TransactionType: models.ListingTypeSale,
		Category:        models.AlertCategoryApartment,
		MinBudget:       floatPtr(300_000),
	})
	require.NoError(t, err)

	// new max below the existing min must be refused
	_, err = svc.Update(created.ID, "u-1", false, dto.UpdateAlertRequest{
		MaxBudget: floatPtr(200_000),
	})
	assert.ErrorIs(t, err, apperrors.ErrBudgetRange)

	updated, err := svc.Update(created.ID, "u-1", false, dto.UpdateAlertRequest{
		MaxBudget: floatPtr(900_000),
	})
	require.NoError(t, err)
	assert.Equal(t, 900_000.0, *updated.MaxBudget)
	assert.Equal(t, 300_000.0, *updated.MinBudget)
}

func TestAlertOwnership(t *testing.T) {
	t.Parallel()
	svc := NewAlertService(newFakeAlertRepo())

	created, err := svc.Create("u-1", dto.CreateAlertRequest{
		TransactionType: models.ListingTypeSale,
		Category:        models.AlertCategoryVilla,
	})
	require.NoError(t, err)

	_, err = svc.GetByID(created.ID, "u-2", false)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	err = svc.Delete(created.ID, "u-2", false)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	// admins bypass ownership
	_, err = svc.GetByID(created.ID, "adm-1", true)
	assert.NoError(t, err)
}

func TestAlertToggle(t *testing.T) {
	t.Parallel()
	repo := newFakeAlertRepo()
	svc := NewAlertService(repo)

	created, err := svc.Create("u-1", dto.CreateAlertRequest{
		TransactionType: models.ListingTypeSale,
		Category:        models.AlertCategoryApartment,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(created.ID, "u-1", false, false))
	got, err := svc.GetByID(created.ID, "u-1", false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := repo.FindAllActive()
	require.NoError(t, err)
	assert.Empty(t, active, "deactivated alerts leave the fan-out set")

	require.NoError(t, svc.SetActive(created.ID, "u-1", false, true))
	active, err = repo.FindAllActive()
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
