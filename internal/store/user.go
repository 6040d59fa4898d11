// File: internal/store/user.go
package store

import (
	"context"

	"store-rating/internal/database"
	"store-rating/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash, address, role, status, created_at, updated_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Address,
		&u.Role,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	row := db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	u := &model.User{}
	if err := scanUser(row, u); err != nil {
		return nil, wrapErr("GetUserByID", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u := &model.User{}
	if err := scanUser(row, u); err != nil {
		return nil, wrapErr("GetUserByEmail", err)
	}
	return u, nil
}

// CreateUser 新增使用者，email 重複時回傳 common.ErrConflict
func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, address, role, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Address,
		string(u.Role),
		string(u.Status),
	)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, wrapErr("CreateUser", err)
	}
	return u, nil
}

func UpdateUserPassword(ctx context.Context, db database.DB, userID int, passwordHash string) error {
	tag, err := db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1, updated_at = now()
		 WHERE id = $2`,
		passwordHash,
		userID,
	)
	if err != nil {
		return wrapErr("UpdateUserPassword", err)
	}
	return requireAffected("UpdateUserPassword", tag)
}

func DeleteUser(ctx context.Context, db database.DB, userID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return wrapErr("DeleteUser", err)
	}
	return requireAffected("DeleteUser", tag)
}

// ApprovePendingUser 僅在狀態為 pending 時改為 approved，否則回傳 ErrNotFound
func ApprovePendingUser(ctx context.Context, db database.DB, userID int) error {
	tag, err := db.Exec(ctx,
		`UPDATE users
		 SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3`,
		string(model.StatusApproved),
		userID,
		string(model.StatusPending),
	)
	if err != nil {
		return wrapErr("ApprovePendingUser", err)
	}
	return requireAffected("ApprovePendingUser", tag)
}

// DeletePendingUser 僅刪除狀態為 pending 的使用者，否則回傳 ErrNotFound
func DeletePendingUser(ctx context.Context, db database.DB, userID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM users WHERE id = $1 AND status = $2`,
		userID,
		string(model.StatusPending),
	)
	if err != nil {
		return wrapErr("DeletePendingUser", err)
	}
	return requireAffected("DeletePendingUser", tag)
}

// ListUsers 依名稱排序回傳符合條件的使用者
func ListUsers(ctx context.Context, db database.DB, f model.UserFilter) ([]model.User, error) {
	var w whereBuilder
	w.contains("name", f.Name)
	w.contains("email", f.Email)
	w.contains("address", f.Address)
	w.contains("role", f.Role)
	return queryUsers(ctx, db, "ListUsers",
		`SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY name ASC, id ASC`, w.args...)
}

// ListUsersByStatus 依建立時間新到舊回傳指定狀態的使用者
func ListUsersByStatus(ctx context.Context, db database.DB, status model.Status) ([]model.User, error) {
	return queryUsers(ctx, db, "ListUsersByStatus",
		`SELECT `+userColumns+` FROM users WHERE status = $1 ORDER BY created_at DESC, id DESC`, string(status))
}

func queryUsers(ctx context.Context, db database.DB, op, sql string, args ...any) ([]model.User, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, wrapErr(op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return users, nil
}
