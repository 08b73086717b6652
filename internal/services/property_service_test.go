package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/services/dto"
	"github.com/jafrydeep2/offmarket-sub000/pkg/apperrors"
)

func boolPtr(v bool) *bool { return &v }

func listingRequest() dto.CreatePropertyRequest {
	return dto.CreatePropertyRequest{
		Title:        "Bright loft near the lake",
		ListingType:  models.ListingTypeSale,
		PropertyType: models.PropertyTypeLoft,
		City:         "Geneva",
		Neighborhood: "Eaux-Vives",
		Rooms:        3.5,
		PriceText:    "CHF 1'250'000",
	}
}

func waitForFanout(t *testing.T, fanout *fakeFanout) string {
	t.Helper()
	select {
	case id := <-fanout.calls:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("fan-out was not dispatched")
		return ""
	}
}

func TestPropertyCreate_PublishedTriggersFanout(t *testing.T) {
	t.Parallel()
	fanout := newFakeFanout()
	svc := NewPropertyService(newFakePropertyRepo(), fanout, nil)

	resp, err := svc.Create(context.Background(), "owner-1", listingRequest())
	require.NoError(t, err)
	assert.True(t, resp.IsPublished)

	assert.Equal(t, resp.ID, waitForFanout(t, fanout))
}

func TestPropertyUpdate_MergesFields(t *testing.T) {
	t.Parallel()
	repo := newFakePropertyRepo()
	svc := NewPropertyService(repo, nil, nil)

	created, err := svc.Create(context.Background(), "owner-1", listingRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, "owner-1", false, dto.UpdatePropertyRequest{
		Title:     strPtr("Bright loft, price reduced"),
		PriceText: strPtr("CHF 1'150'000"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Bright loft, price reduced", updated.Title)
	assert.Equal(t, "CHF 1'150'000", updated.PriceText)
	// untouched fields survive the merge
	assert.Equal(t, "Geneva", updated.City)
	assert.Equal(t, 3.5, updated.Rooms)

	stored, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CHF 1'150'000", stored.PriceText)
}

func TestPropertyUpdate_RequiresOwnership(t *testing.T) {
	t.Parallel()
	svc := NewPropertyService(newFakePropertyRepo(), nil, nil)

	created, err := svc.Create(context.Background(), "owner-1", listingRequest())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, "intruder", false, dto.UpdatePropertyRequest{
		Title: strPtr("Hijacked listing"),
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	// admins may edit any listing
	_, err = svc.Update(context.Background(), created.ID, "adm-1", true, dto.UpdatePropertyRequest{
		Title: strPtr("Moderated title"),
	})
	assert.NoError(t, err)
}

// Publication via update behaves like a published create: the fan-out
// runs once, on the false-to-true transition only.
func TestPropertyUpdate_PublishTriggersFanoutOnce(t *testing.T) {
	t.Parallel()
	fanout := newFakeFanout()
	svc := NewPropertyService(newFakePropertyRepo(), fanout, nil)

	req := listingRequest()
	req.IsPublished = boolPtr(false)
	created, err := svc.Create(context.Background(), "owner-1", req)
	require.NoError(t, err)

	// edits to a draft never fan out
	_, err = svc.Update(context.Background(), created.ID, "owner-1", false, dto.UpdatePropertyRequest{
		PriceText: strPtr("CHF 1'200'000"),
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, "owner-1", false, dto.UpdatePropertyRequest{
		IsPublished: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, waitForFanout(t, fanout))

	// further edits to an already published listing do not re-trigger
	_, err = svc.Update(context.Background(), created.ID, "owner-1", false, dto.UpdatePropertyRequest{
		Rooms: floatPtr(4),
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fanout.calls)
}
