package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactStore(t *testing.T) {
	ctx := context.Background()
	db := InitializeTestDb(t)
	users := NewUserStore(db, TestLogger())
	store := NewContactStore(db, TestLogger())

	owner, err := users.Create(ctx, "spider", "web@avengers.com")
	assert.Nil(t, err)

	strange, err := store.Create(ctx, "doctor strange", "supreme@avengers.com", "+32345678900", owner.ID)
	assert.Nil(t, err, "Should create contact for 'owner'")
	assert.NotEmpty(t, strange.ID)

	t.Run("Should reject duplicate emails at the store", func(t *testing.T) {
		_, err := store.Create(ctx, "wong", "supreme@avengers.com", "+1", owner.ID)
		assert.True(t, IsUniqueViolation(err), "Expected a unique violation, got %v", err)
	})

	t.Run("Should reject contacts for absent users at the store", func(t *testing.T) {
		_, err := store.Create(ctx, "wong", "wong@avengers.com", "+1", "missing")
		assert.True(t, IsForeignKeyViolation(err), "Expected a foreign key violation, got %v", err)
	})

	t.Run("Should update email only", func(t *testing.T) {
		email := "sorcerer@avengers.com"
		updated, err := store.Update(ctx, strange.ID, ContactFields{Email: &email})
		assert.Nil(t, err)
		assert.Equal(t, "sorcerer@avengers.com", updated.Email)
		assert.Equal(t, "doctor strange", updated.Name)
		assert.Equal(t, "+32345678900", updated.Phone)
		assert.Equal(t, owner.ID, updated.UserID)
	})

	t.Run("Should list contacts by owner", func(t *testing.T) {
		contacts, err := store.FindAllByOwner(ctx, owner.ID)
		assert.Nil(t, err)
		assert.Len(t, contacts, 1)

		contacts, err = store.FindAllByOwner(ctx, "missing")
		assert.Nil(t, err)
		assert.Empty(t, contacts)
	})

	t.Run("Should drop contacts when their owner is removed", func(t *testing.T) {
		_, err := users.Remove(ctx, owner.ID)
		assert.Nil(t, err)

		contacts, err := store.FindAllByOwner(ctx, owner.ID)
		assert.Nil(t, err)
		assert.Empty(t, contacts)

		_, err = store.Remove(ctx, strange.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}
