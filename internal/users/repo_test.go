package users

import (
	"context"
	"errors"
	"testing"

	"github.com/Oleksa-32/car-sharing-app/pkg/db/dbtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryFindByID(t *testing.T) {
	client := dbtest.New(t)
	seeded := dbtest.SeedUser(t, client, "Grace", "Hopper")
	repo := NewRepository(client.DB())

	got, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", got.FullName())

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryFindByIDs(t *testing.T) {
	client := dbtest.New(t)
	a := dbtest.SeedUser(t, client, "Alan", "Turing")
	b := dbtest.SeedUser(t, client, "Barbara", "Liskov")
	repo := NewRepository(client.DB())

	got, err := repo.FindByIDs(context.Background(), []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Liskov", got[b.ID].LastName)

	empty, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
