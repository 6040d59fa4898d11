package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"store-rating/internal/cache"
	"store-rating/internal/common"
	"store-rating/internal/database"
	"store-rating/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestSubmitRatingUpsertsOnePair(t *testing.T) {
	m := newMemStore(t)
	ctx := context.Background()
	owner := m.seedUser(t, "Owner", model.RoleStoreOwner, model.StatusApproved, "pw")
	user := m.seedUser(t, "Nick", model.RoleNormalUser, model.StatusApproved, "pw")
	shop := m.seedStore(t, "Cafe", "Main St", owner.ID)

	r, created, err := SubmitRating(ctx, nil, nil, requester(user), shop.ID, 2)
	require.NoError(t, err)
	require.True(t, created)
	firstID := r.ID

	for _, v := range []int{5, 1, 4} {
		r, created, err = SubmitRating(ctx, nil, nil, requester(user), shop.ID, v)
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, firstID, r.ID)
	}

	require.Equal(t, 1, m.ratingCount())
	sum, err := AverageFor(ctx, nil, nil, shop.ID)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Count)
	require.Equal(t, "4.00", sum.Display())
}

func TestSubmitRatingRejects(t *testing.T) {
	m := newMemStore(t)
	ctx := context.Background()
	owner := m.seedUser(t, "Owner", model.RoleStoreOwner, model.StatusApproved, "pw")
	admin := m.seedUser(t, "Admin", model.RoleAdmin, model.StatusApproved, "pw")
	user := m.seedUser(t, "Nick", model.RoleNormalUser, model.StatusApproved, "pw")
	shop := m.seedStore(t, "Cafe", "Main St", owner.ID)

	for _, v := range []int{0, 6, -1} {
		_, _, err := SubmitRating(ctx, nil, nil, requester(user), shop.ID, v)
		require.ErrorIs(t, err, common.ErrValidation, "value %d", v)
	}

	_, _, err := SubmitRating(ctx, nil, nil, requester(owner), shop.ID, 5)
	require.ErrorIs(t, err, common.ErrForbidden)
	_, _, err = SubmitRating(ctx, nil, nil, requester(admin), shop.ID, 5)
	require.ErrorIs(t, err, common.ErrForbidden)

	_, _, err = SubmitRating(ctx, nil, nil, requester(user), 999, 5)
	require.ErrorIs(t, err, common.ErrNotFound)
	require.Equal(t, "store not found", common.MessageFromError(err))

	require.Zero(t, m.ratingCount())
}

func TestSubmitRatingByDeletedAccount(t *testing.T) {
	m := newMemStore(t)
	ctx := context.Background()
	owner := m.seedUser(t, "Owner", model.RoleStoreOwner, model.StatusApproved, "pw")
	user := m.seedUser(t, "Nick", model.RoleNormalUser, model.StatusApproved, "pw")
	shop := m.seedStore(t, "Cafe", "Main St", owner.ID)
	req := requester(user)

	require.NoError(t, m.deleteUser(ctx, nil, user.ID))

	_, _, err := SubmitRating(ctx, nil, nil, req, shop.ID, 4)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.Equal(t, "account no longer exists", common.MessageFromError(err))
	require.Zero(t, m.ratingCount())
}

func TestAverageFor(t *testing.T) {
	m := newMemStore(t)
	ctx := context.Background()
	owner := m.seedUser(t, "Owner", model.RoleStoreOwner, model.StatusApproved, "pw")
	shop := m.seedStore(t, "Cafe", "Main St", owner.ID)

	sum, err := AverageFor(ctx, nil, nil, shop.ID)
	require.NoError(t, err)
	require.Nil(t, sum.Average)
	require.Equal(t, model.NoRatings, sum.Display())

	for i, v := range []int{3, 4, 5} {
		u := m.seedUser(t, "Rater"+string(rune('A'+i)), model.RoleNormalUser, model.StatusApproved, "pw")
		_, _, err := SubmitRating(ctx, nil, nil, requester(u), shop.ID, v)
		require.NoError(t, err)
	}
	sum, err = AverageFor(ctx, nil, nil, shop.ID)
	require.NoError(t, err)
	require.Equal(t, 3, sum.Count)
	require.Equal(t, "4.00", sum.Display())
}

func TestRatingSummariesCache(t *testing.T) {
	t.Cleanup(restore)
	ctx := context.Background()
	avg := 3.5
	cached, _ := json.Marshal(model.RatingSummary{Count: 2, Average: &avg})

	t.Run("hit", func(t *testing.T) {
		getRatingSummary = func(context.Context, database.DB, int) (model.RatingSummary, error) {
			t.Fatal("database should not be queried on a cache hit")
			return model.RatingSummary{}, nil
		}
		c := &cache.FakeCache{GetFn: func(_ context.Context, key string) *redis.StringCmd {
			require.Equal(t, "store:7:rating", key)
			return redis.NewStringResult(string(cached), nil)
		}}
		s := &RatingSummaries{Cache: c}
		sum, err := s.Get(ctx, nil, 7)
		require.NoError(t, err)
		require.Equal(t, 2, sum.Count)
		require.Equal(t, "3.50", sum.Display())
	})

	t.Run("miss stores with ttl", func(t *testing.T) {
		getRatingSummary = func(context.Context, database.DB, int) (model.RatingSummary, error) {
			return model.SummarizeRatings([]int{4, 5}), nil
		}
		var setKey string
		var setTTL time.Duration
		c := &cache.FakeCache{
			GetFn: func(context.Context, string) *redis.StringCmd { return redis.NewStringResult("", redis.Nil) },
			SetFn: func(_ context.Context, key string, _ any, ttl time.Duration) *redis.StatusCmd {
				setKey, setTTL = key, ttl
				return redis.NewStatusResult("OK", nil)
			},
		}
		s := &RatingSummaries{Cache: c, TTL: time.Minute}
		sum, err := s.Get(ctx, nil, 9)
		require.NoError(t, err)
		require.Equal(t, "4.50", sum.Display())
		require.Equal(t, "store:9:rating", setKey)
		require.Equal(t, time.Minute, setTTL)
	})

	t.Run("cache errors fall back to database", func(t *testing.T) {
		getRatingSummary = func(context.Context, database.DB, int) (model.RatingSummary, error) {
			return model.RatingSummary{}, nil
		}
		c := &cache.FakeCache{
			GetFn: func(context.Context, string) *redis.StringCmd { return redis.NewStringResult("", errors.New("down")) },
			SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
				return redis.NewStatusResult("", errors.New("down"))
			},
		}
		sum, err := (&RatingSummaries{Cache: c}).Get(ctx, nil, 1)
		require.NoError(t, err)
		require.Nil(t, sum.Average)
	})

	t.Run("corrupt entry is recomputed", func(t *testing.T) {
		queried := false
		getRatingSummary = func(context.Context, database.DB, int) (model.RatingSummary, error) {
			queried = true
			return model.RatingSummary{}, nil
		}
		c := &cache.FakeCache{
			GetFn: func(context.Context, string) *redis.StringCmd { return redis.NewStringResult("{not json", nil) },
			SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd { return redis.NewStatusResult("OK", nil) },
		}
		_, err := (&RatingSummaries{Cache: c}).Get(ctx, nil, 1)
		require.NoError(t, err)
		require.True(t, queried)
	})

	t.Run("database error", func(t *testing.T) {
		getRatingSummary = func(context.Context, database.DB, int) (model.RatingSummary, error) {
			return model.RatingSummary{}, errors.New("db")
		}
		_, err := (*RatingSummaries)(nil).Get(ctx, nil, 1)
		require.Error(t, err)
	})
}

func TestSubmitRatingInvalidatesAndWarms(t *testing.T) {
	m := newMemStore(t)
	ctx := context.Background()
	owner := m.seedUser(t, "Owner", model.RoleStoreOwner, model.StatusApproved, "pw")
	user := m.seedUser(t, "Nick", model.RoleNormalUser, model.StatusApproved, "pw")
	shop := m.seedStore(t, "Cafe", "Main St", owner.ID)

	var deleted []string
	var stored []byte
	c := &cache.FakeCache{
		DelFn: func(_ context.Context, keys ...string) *redis.IntCmd {
			deleted = append(deleted, keys...)
			return redis.NewIntResult(1, nil)
		},
		SetFn: func(_ context.Context, _ string, v any, _ time.Duration) *redis.StatusCmd {
			stored = v.([]byte)
			return redis.NewStatusResult("OK", nil)
		},
	}
	pool := &syncPool{}
	summaries := &RatingSummaries{Cache: c, Pool: pool, TTL: time.Minute}

	_, _, err := SubmitRating(ctx, nil, summaries, requester(user), shop.ID, 5)
	require.NoError(t, err)
	require.Equal(t, []string{ratingKey(shop.ID)}, deleted)
	require.Equal(t, 1, pool.ran)

	var warmed model.RatingSummary
	require.NoError(t, json.Unmarshal(stored, &warmed))
	require.Equal(t, 1, warmed.Count)
	require.Equal(t, "5.00", warmed.Display())
}

func TestRatingsByStore(t *testing.T) {
	m := newMemStore(t)
	ctx := context.Background()
	admin := m.seedUser(t, "Admin", model.RoleAdmin, model.StatusApproved, "pw")
	alice := m.seedUser(t, "Alice", model.RoleStoreOwner, model.StatusApproved, "pw")
	bob := m.seedUser(t, "Bob", model.RoleStoreOwner, model.StatusApproved, "pw")
	nick := m.seedUser(t, "Nick", model.RoleNormalUser, model.StatusApproved, "pw")
	nora := m.seedUser(t, "Nora", model.RoleNormalUser, model.StatusApproved, "pw")
	a := m.seedStore(t, "Alpha", "A St", alice.ID)
	b := m.seedStore(t, "Beta", "B St", bob.ID)
	m.seedStore(t, "Empty", "E St", alice.ID)

	for _, step := range []struct {
		who   model.User
		store int
		value int
	}{{nick, a.ID, 4}, {nora, a.ID, 2}, {nick, b.ID, 5}} {
		_, _, err := SubmitRating(ctx, nil, nil, requester(step.who), step.store, step.value)
		require.NoError(t, err)
	}

	all, err := RatingsByStore(ctx, nil, requester(admin))
	require.NoError(t, err)
	require.Len(t, all, 3)

	own, err := RatingsByStore(ctx, nil, requester(alice))
	require.NoError(t, err)
	require.Len(t, own, 2)
	require.Equal(t, "Alpha", own[0].Store.Name)
	require.Len(t, own[0].Ratings, 2)
	require.Equal(t, "Nora", own[0].Ratings[0].Rater.Name)
	require.Equal(t, "3.00", own[0].Store.Rating.Display())
	require.Equal(t, "Empty", own[1].Store.Name)
	require.NotNil(t, own[1].Ratings)
	require.Empty(t, own[1].Ratings)
	require.Equal(t, model.NoRatings, own[1].Store.Rating.Display())

	_, err = RatingsByStore(ctx, nil, requester(nick))
	require.ErrorIs(t, err, common.ErrForbidden)

	list, err := ListRatings(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "Beta", list[0].StoreName)
}

func TestRatingsByStoreSummaryMatchesRatings(t *testing.T) {
	m := newMemStore(t)
	ctx := context.Background()
	admin := m.seedUser(t, "Admin", model.RoleAdmin, model.StatusApproved, "pw")
	owner := m.seedUser(t, "Olga", model.RoleStoreOwner, model.StatusApproved, "pw")
	nick := m.seedUser(t, "Nick", model.RoleNormalUser, model.StatusApproved, "pw")
	shop := m.seedStore(t, "Cafe", "Main St", owner.ID)
	_, _, err := SubmitRating(ctx, nil, nil, requester(nick), shop.ID, 5)
	require.NoError(t, err)

	// 商店列表先讀到較舊的摘要
	listStoreViews = func(ctx context.Context, db database.DB, f model.StoreFilter) ([]model.StoreView, error) {
		views, err := m.listStoreViews(ctx, db, f)
		for i := range views {
			views[i].Rating = model.RatingSummary{}
		}
		return views, err
	}

	got, err := RatingsByStore(ctx, nil, requester(admin))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 1, got[0].Store.Rating.Count)
	require.Equal(t, "5.00", got[0].Store.Rating.Display())
}
