// File: internal/store/rating.go
package store

import (
	"context"

	"store-rating/internal/database"
	"store-rating/internal/model"
)

// UpsertRating 以 (user_id, store_id) 唯一索引原子地新增或覆寫評分。
// created 表示此次為新增。
func UpsertRating(ctx context.Context, db database.DB, r *model.Rating) (created bool, err error) {
	row := db.QueryRow(ctx,
		`INSERT INTO ratings (value, user_id, store_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, store_id)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		 RETURNING id, created_at, updated_at, (xmax = 0)`,
		r.Value,
		r.UserID,
		r.StoreID,
	)
	if err := row.Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &created); err != nil {
		return false, wrapErr("UpsertRating", err)
	}
	return created, nil
}

// GetRatingSummary 回傳商店的評分數與平均，無評分時 Average 為 nil
func GetRatingSummary(ctx context.Context, db database.DB, storeID int) (model.RatingSummary, error) {
	var s model.RatingSummary
	row := db.QueryRow(ctx,
		`SELECT COUNT(*), AVG(value)::float8 FROM ratings WHERE store_id = $1`,
		storeID,
	)
	if err := row.Scan(&s.Count, &s.Average); err != nil {
		return model.RatingSummary{}, wrapErr("GetRatingSummary", err)
	}
	return s, nil
}

// ListRatingViews 依建立時間新到舊列出評分；ownerID 非 0 時只列該擁有者的商店
func ListRatingViews(ctx context.Context, db database.DB, ownerID int) ([]model.RatingView, error) {
	var w whereBuilder
	if ownerID != 0 {
		w.add("s.owner_id = $%d", ownerID)
	}
	rows, err := db.Query(ctx,
		`SELECT r.id, r.value, r.user_id, r.store_id, r.created_at, r.updated_at,
		        s.name, u.id, u.name, u.email, u.role
		 FROM ratings r
		 JOIN stores s ON s.id = r.store_id
		 JOIN users u ON u.id = r.user_id`+w.String()+`
		 ORDER BY r.created_at DESC, r.id DESC`,
		w.args...,
	)
	if err != nil {
		return nil, wrapErr("ListRatingViews", err)
	}
	defer rows.Close()

	ratings := []model.RatingView{}
	for rows.Next() {
		var v model.RatingView
		if err := rows.Scan(
			&v.ID,
			&v.Value,
			&v.UserID,
			&v.StoreID,
			&v.CreatedAt,
			&v.UpdatedAt,
			&v.StoreName,
			&v.Rater.ID,
			&v.Rater.Name,
			&v.Rater.Email,
			&v.Rater.Role,
		); err != nil {
			return nil, wrapErr("ListRatingViews", err)
		}
		ratings = append(ratings, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("ListRatingViews", err)
	}
	return ratings, nil
}

// ListRatingValuesByUser 回傳使用者對各商店的評分 (store_id -> value)
func ListRatingValuesByUser(ctx context.Context, db database.DB, userID int) (map[int]int, error) {
	rows, err := db.Query(ctx, `SELECT store_id, value FROM ratings WHERE user_id = $1`, userID)
	if err != nil {
		return nil, wrapErr("ListRatingValuesByUser", err)
	}
	defer rows.Close()

	values := map[int]int{}
	for rows.Next() {
		var storeID, value int
		if err := rows.Scan(&storeID, &value); err != nil {
			return nil, wrapErr("ListRatingValuesByUser", err)
		}
		values[storeID] = value
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("ListRatingValuesByUser", err)
	}
	return values, nil
}
