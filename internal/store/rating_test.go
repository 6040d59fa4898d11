package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"store-rating/internal/common"
	"store-rating/internal/model"

	"github.com/stretchr/testify/require"
)

func TestRatingStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("UpsertRating insert", func(t *testing.T) {
		var rec recordedQuery
		r := &model.Rating{Value: 4, UserID: 1, StoreID: 2}
		created, err := UpsertRating(ctx, rowDB(&rec, fakeRow{values: []any{9, now, now, true}}), r)
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, 9, r.ID)
		require.Contains(t, rec.sql, "ON CONFLICT (user_id, store_id)")
		require.Equal(t, []any{4, 1, 2}, rec.args)
	})

	t.Run("UpsertRating update", func(t *testing.T) {
		var rec recordedQuery
		r := &model.Rating{Value: 2, UserID: 1, StoreID: 2}
		created, err := UpsertRating(ctx, rowDB(&rec, fakeRow{values: []any{9, now, now.Add(time.Minute), false}}), r)
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, 2, r.Value)
	})

	t.Run("UpsertRating unknown store", func(t *testing.T) {
		var rec recordedQuery
		_, err := UpsertRating(ctx, rowDB(&rec, fakeRow{err: pgForeignKey()}), &model.Rating{Value: 1, UserID: 1, StoreID: 404})
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("GetRatingSummary", func(t *testing.T) {
		var rec recordedQuery
		avg := 4.0
		s, err := GetRatingSummary(ctx, rowDB(&rec, fakeRow{values: []any{3, &avg}}), 2)
		require.NoError(t, err)
		require.Equal(t, 3, s.Count)
		require.Equal(t, "4.00", s.Display())

		s, err = GetRatingSummary(ctx, rowDB(&rec, fakeRow{values: []any{0, (*float64)(nil)}}), 2)
		require.NoError(t, err)
		require.Nil(t, s.Average)

		_, err = GetRatingSummary(ctx, rowDB(&rec, fakeRow{err: errors.New("x")}), 2)
		require.Error(t, err)
	})

	t.Run("ListRatingViews", func(t *testing.T) {
		var rec recordedQuery
		row := []any{1, 5, 3, 2, now, now, "Cafe", 3, "Rater", "r@x.com", model.RoleNormalUser}
		list, err := ListRatingViews(ctx, rowsDB(&rec, &fakeRows{data: [][]any{row}}, nil), 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "Cafe", list[0].StoreName)
		require.Equal(t, "Rater", list[0].Rater.Name)
		require.NotContains(t, rec.sql, "WHERE")
		require.Contains(t, rec.sql, "ORDER BY r.created_at DESC")

		_, err = ListRatingViews(ctx, rowsDB(&rec, &fakeRows{}, nil), 2)
		require.NoError(t, err)
		require.Contains(t, rec.sql, "WHERE s.owner_id = $1")
		require.Equal(t, []any{2}, rec.args)
	})

	t.Run("ListRatingValuesByUser", func(t *testing.T) {
		var rec recordedQuery
		rows := &fakeRows{data: [][]any{{2, 4}, {3, 1}}}
		values, err := ListRatingValuesByUser(ctx, rowsDB(&rec, rows, nil), 1)
		require.NoError(t, err)
		require.Equal(t, map[int]int{2: 4, 3: 1}, values)

		_, err = ListRatingValuesByUser(ctx, rowsDB(&rec, nil, errors.New("q")), 1)
		require.Error(t, err)
	})
}
