package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreevms/subscription-tracker/internal/models"
)

func TestStorage_SubscriptionCRUD(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	uid := factory.CreateUser(t, "testuser", "test@example.com", "hashedpassword", "user")
	verification.VerifyUserExists(t, uid)

	t.Run("create returns id", func(t *testing.T) {
		sub := GetTestSubscriptionData("testuser", uid)

		id, err := storage.CreateSubscription(ctx, sub)
		require.NoError(t, err)
		assert.Positive(t, id)
		verification.VerifySubscriptionCount(t, id, 1)
	})

	t.Run("read returns own subscription", func(t *testing.T) {
		sub := GetTestSubscriptionData("testuser", uid)
		sub.Name = "Spotify"
		sub.Cost = decimal.NewFromFloat(9.99)
		id := factory.CreateSubscription(t, sub)

		got, err := storage.ReadSubscription(ctx, id, "testuser")
		require.NoError(t, err)
		assert.Equal(t, "Spotify", got.Name)
		assert.True(t, got.Cost.Equal(decimal.NewFromFloat(9.99)),
			"expected cost 9.99, got %s", got.Cost)
		assert.Equal(t, models.BillingMonthly, got.BillingFrequency)
		assert.Equal(t, "testuser", got.Username)
	})

	t.Run("read scoped to owner", func(t *testing.T) {
		factory.CreateUser(t, "otheruser", "other@example.com", "hashedpassword", "user")

		sub := GetTestSubscriptionData("testuser", uid)
		id := factory.CreateSubscription(t, sub)

		_, err := storage.ReadSubscription(ctx, id, "otheruser")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("update changes fields and reports rows", func(t *testing.T) {
		sub := GetTestSubscriptionData("testuser", uid)
		id := factory.CreateSubscription(t, sub)

		sub.Name = "Netflix Premium"
		sub.Cost = decimal.NewFromFloat(19.99)
		sub.UsageFrequency = models.UsageDaily

		count, err := storage.UpdateSubscription(ctx, sub, id, "testuser")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		got, err := storage.ReadSubscription(ctx, id, "testuser")
		require.NoError(t, err)
		assert.Equal(t, "Netflix Premium", got.Name)
		assert.Equal(t, models.UsageDaily, got.UsageFrequency)
	})

	t.Run("update of foreign subscription affects nothing", func(t *testing.T) {
		sub := GetTestSubscriptionData("testuser", uid)
		id := factory.CreateSubscription(t, sub)

		count, err := storage.UpdateSubscription(ctx, sub, id, "otheruser")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("remove deletes row", func(t *testing.T) {
		sub := GetTestSubscriptionData("testuser", uid)
		id := factory.CreateSubscription(t, sub)

		count, err := storage.RemoveSubscription(ctx, id, "testuser")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		verification.VerifySubscriptionCount(t, id, 0)
	})

	t.Run("remove of missing id affects nothing", func(t *testing.T) {
		count, err := storage.RemoveSubscription(ctx, 99999, "testuser")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("non-positive cost rejected by schema", func(t *testing.T) {
		sub := GetTestSubscriptionData("testuser", uid)
		sub.Cost = decimal.Zero

		_, err := storage.CreateSubscription(ctx, sub)
		require.Error(t, err)
	})
}

func TestStorage_ListSubscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "listuser", "list@example.com", "hashedpassword", "user")

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	names := []string{"Third", "First", "Second"}
	offsets := []int{20, 0, 10}
	for i, name := range names {
		sub := GetTestSubscriptionData("listuser", uid)
		sub.Name = name
		sub.NextBillingDate = base.AddDate(0, 0, offsets[i])
		factory.CreateSubscription(t, sub)
	}

	t.Run("ordered by next billing date", func(t *testing.T) {
		got, err := storage.ListSubscriptions(ctx, "listuser", 10, 0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "First", got[0].Name)
		assert.Equal(t, "Second", got[1].Name)
		assert.Equal(t, "Third", got[2].Name)
	})

	t.Run("limit and offset", func(t *testing.T) {
		got, err := storage.ListSubscriptions(ctx, "listuser", 1, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Second", got[0].Name)
	})

	t.Run("empty for unknown user", func(t *testing.T) {
		got, err := storage.ListSubscriptions(ctx, "nobody", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("full snapshot without pagination", func(t *testing.T) {
		got, err := storage.ListUserSubscriptions(ctx, "listuser")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "First", got[0].Name)
	})
}

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("register and fetch by email", func(t *testing.T) {
		uid, err := storage.RegisterUser(ctx, models.User{
			Email:        "new@example.com",
			Username:     "newuser",
			PasswordHash: "hashedpassword",
			Role:         "user",
		})
		require.NoError(t, err)
		require.NotEmpty(t, uid)

		got, err := storage.GetUserByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		assert.Equal(t, uid, got.UID)
		assert.Equal(t, "newuser", got.Username)
		assert.Equal(t, "hashedpassword", got.PasswordHash)
		assert.Equal(t, "user", got.Role)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := storage.RegisterUser(ctx, models.User{
			Email:        "new@example.com",
			Username:     "anothername",
			PasswordHash: "hashedpassword",
			Role:         "user",
		})
		require.Error(t, err)
	})

	t.Run("unknown email returns ErrNotFound", func(t *testing.T) {
		_, err := storage.GetUserByEmail(ctx, "missing@example.com")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("deleting user cascades to subscriptions", func(t *testing.T) {
		factory := NewTestDataFactory(storage)
		verification := NewTestVerification(storage)

		uid := factory.CreateUser(t, "cascadeuser", "cascade@example.com", "hashedpassword", "user")
		id := factory.CreateSubscription(t, GetTestSubscriptionData("cascadeuser", uid))
		verification.VerifySubscriptionCount(t, id, 1)

		_, err := storage.DB.Exec("DELETE FROM users WHERE uid = $1", uid)
		require.NoError(t, err)
		verification.VerifySubscriptionCount(t, id, 0)
	})
}
