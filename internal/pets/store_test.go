package pets_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mkovac/go-shelter/internal/database/models"
	"github.com/mkovac/go-shelter/internal/pets"
	"github.com/mkovac/go-shelter/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_FindByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pets.NewStore(db)
	ctx := context.Background()

	owner := uuid.New()
	other := uuid.New()

	require.NoError(t, store.Create(ctx, &models.Pet{OwnerID: owner, Name: "Reks", Species: "dog"}))
	require.NoError(t, store.Create(ctx, &models.Pet{OwnerID: owner, Name: "Muca", Species: "cat"}))
	require.NoError(t, store.Create(ctx, &models.Pet{OwnerID: other, Name: "Piki", Species: "bird"}))

	found, err := store.FindByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, found, 2)
	for _, pet := range found {
		assert.Equal(t, owner, pet.OwnerID)
	}

	empty, err := store.FindByOwner(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_DeleteByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pets.NewStore(db)
	ctx := context.Background()

	owner := uuid.New()
	other := uuid.New()

	require.NoError(t, store.Create(ctx, &models.Pet{OwnerID: owner, Name: "Reks"}))
	require.NoError(t, store.Create(ctx, &models.Pet{OwnerID: other, Name: "Piki"}))

	require.NoError(t, store.DeleteByOwner(ctx, owner))

	gone, err := store.FindByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := store.FindByOwner(ctx, other)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	// Deleting again is a no-op
	assert.NoError(t, store.DeleteByOwner(ctx, owner))
}
