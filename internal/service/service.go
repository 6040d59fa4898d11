// Package service 實作帳號審核、評分聚合與商店/使用者目錄的業務規則。
// 呼叫者身分一律來自已驗證的 token（Requester），不接受請求內容指定。
package service

import (
	"strings"

	"store-rating/internal/model"
	"store-rating/internal/store"
)

// Requester 已驗證的呼叫者
type Requester struct {
	UserID int
	Role   model.Role
}

// 資料存取函式，測試時替換
var (
	getUserByID            = store.GetUserByID
	getUserByEmail         = store.GetUserByEmail
	createUser             = store.CreateUser
	deleteUser             = store.DeleteUser
	updateUserPassword     = store.UpdateUserPassword
	approvePendingUser     = store.ApprovePendingUser
	deletePendingUser      = store.DeletePendingUser
	listUsers              = store.ListUsers
	listUsersByStatus      = store.ListUsersByStatus
	createStore            = store.CreateStore
	getStoreByID           = store.GetStoreByID
	listStoreViews         = store.ListStoreViews
	deleteStore            = store.DeleteStore
	upsertRating           = store.UpsertRating
	getRatingSummary       = store.GetRatingSummary
	listRatingViews        = store.ListRatingViews
	listRatingValuesByUser = store.ListRatingValuesByUser
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func summaryOf(u *model.User) model.UserSummary {
	return model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
