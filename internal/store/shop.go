// File: internal/store/shop.go
package store

import (
	"context"

	"store-rating/internal/database"
	"store-rating/internal/model"

	"github.com/jackc/pgx/v5"
)

const storeColumns = `id, name, slug, email, address, image, owner_id, created_at, updated_at`

// storeViewSelect 商店、擁有者與評分聚合的共用查詢
const storeViewSelect = `
	SELECT s.id, s.name, s.slug, s.email, s.address, s.image, s.owner_id, s.created_at, s.updated_at,
	       u.id, u.name, u.email, u.role,
	       COUNT(r.id), AVG(r.value)::float8
	FROM stores s
	JOIN users u ON u.id = s.owner_id
	LEFT JOIN ratings r ON r.store_id = s.id`

const storeViewGroup = ` GROUP BY s.id, u.id`

func scanStore(row pgx.Row, s *model.Store) error {
	return row.Scan(
		&s.ID,
		&s.Name,
		&s.Slug,
		&s.Email,
		&s.Address,
		&s.Image,
		&s.OwnerID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}

func scanStoreView(row pgx.Row, v *model.StoreView) error {
	return row.Scan(
		&v.ID,
		&v.Name,
		&v.Slug,
		&v.Email,
		&v.Address,
		&v.Image,
		&v.OwnerID,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.Owner.ID,
		&v.Owner.Name,
		&v.Owner.Email,
		&v.Owner.Role,
		&v.Rating.Count,
		&v.Rating.Average,
	)
}

// CreateStore 新增商店，owner 不存在時回傳 common.ErrNotFound
func CreateStore(ctx context.Context, db database.DB, s *model.Store) (*model.Store, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO stores (name, slug, email, address, image, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		s.Name,
		s.Slug,
		s.Email,
		s.Address,
		s.Image,
		s.OwnerID,
	)
	if err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, wrapErr("CreateStore", err)
	}
	return s, nil
}

func GetStoreByID(ctx context.Context, db database.DB, storeID int) (*model.Store, error) {
	row := db.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, storeID)
	s := &model.Store{}
	if err := scanStore(row, s); err != nil {
		return nil, wrapErr("GetStoreByID", err)
	}
	return s, nil
}

// ListStoreViews 依名稱排序回傳符合條件的商店，不分頁
func ListStoreViews(ctx context.Context, db database.DB, f model.StoreFilter) ([]model.StoreView, error) {
	var w whereBuilder
	w.contains("s.name", f.Name)
	w.contains("s.address", f.Address)
	if f.OwnerID != 0 {
		w.add("s.owner_id = $%d", f.OwnerID)
	}

	rows, err := db.Query(ctx, storeViewSelect+w.String()+storeViewGroup+` ORDER BY s.name ASC, s.id ASC`, w.args...)
	if err != nil {
		return nil, wrapErr("ListStoreViews", err)
	}
	defer rows.Close()

	stores := []model.StoreView{}
	for rows.Next() {
		var v model.StoreView
		if err := scanStoreView(rows, &v); err != nil {
			return nil, wrapErr("ListStoreViews", err)
		}
		stores = append(stores, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("ListStoreViews", err)
	}
	return stores, nil
}

func DeleteStore(ctx context.Context, db database.DB, storeID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM stores WHERE id = $1`, storeID)
	if err != nil {
		return wrapErr("DeleteStore", err)
	}
	return requireAffected("DeleteStore", tag)
}
