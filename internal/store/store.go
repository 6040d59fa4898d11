// Package store 以 pgx 實作資料存取，所有函式接受 database.DB
package store

import (
	"errors"
	"fmt"
	"strings"

	"store-rating/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// wrapErr 將 pgx 錯誤轉成領域錯誤並加上操作名稱
func wrapErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, common.TranslatePgError(err))
}

// requireAffected 在沒有任何列受影響時回傳 ErrNotFound
func requireAffected(op string, tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern 產生 ILIKE 子字串樣式，跳脫萬用字元
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// whereBuilder 累積 WHERE 條件與對應的參數
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereBuilder) contains(column, value string) {
	if value == "" {
		return
	}
	w.add(column+" ILIKE $%d", containsPattern(value))
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
