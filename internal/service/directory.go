// File: internal/service/directory.go
package service

import (
	"context"
	"errors"

	"store-rating/internal/common"
	"store-rating/internal/database"
	"store-rating/internal/model"
	"store-rating/internal/obs"

	"github.com/gosimple/slug"
)

var (
	errStoreCreateRole = common.NewError(common.ErrForbidden, "only admins and store owners can create stores")
	errStoreDeleteRole = common.NewError(common.ErrForbidden, "you can only delete your own stores")
	errOwnerRequired   = common.NewError(common.ErrValidation, "owner_id is required")
	errOwnerMissing    = common.NewError(common.ErrNotFound, "owner not found")
	errOwnerRole       = common.NewError(common.ErrValidation, "owner must be an approved Store Owner")
	errUserMissing     = common.NewError(common.ErrNotFound, "user not found")
	errWrongPassword   = common.NewError(common.ErrUnauthorized, "current password is incorrect")
)

// StoreListing 商店連同呼叫者自己的評分（僅一般使用者）
type StoreListing struct {
	model.StoreView
	MyRating *int
}

// ListStores 依名稱排序回傳符合條件的商店，不分頁
func ListStores(ctx context.Context, db database.DB, req Requester, f model.StoreFilter) (result []StoreListing, err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.ListStores")
	defer func() { obs.Finish(span, err) }()

	stores, err := listStoreViews(ctx, db, f)
	if err != nil {
		return nil, err
	}
	mine, err := myRatings(ctx, db, req)
	if err != nil {
		return nil, err
	}

	result = make([]StoreListing, 0, len(stores))
	for _, s := range stores {
		result = append(result, StoreListing{StoreView: s, MyRating: ratingFor(mine, s.ID)})
	}
	return result, nil
}

// GetStore 回傳單一商店，評分摘要走快取
func GetStore(ctx context.Context, db database.DB, summaries *RatingSummaries, req Requester, storeID int) (l *StoreListing, err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.GetStore")
	defer func() { obs.Finish(span, err) }()

	s, err := getStoreByID(ctx, db, storeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errStoreMissing
		}
		return nil, err
	}
	owner, err := getUserByID(ctx, db, s.OwnerID)
	if err != nil {
		return nil, err
	}
	sum, err := summaries.Get(ctx, db, storeID)
	if err != nil {
		return nil, err
	}
	mine, err := myRatings(ctx, db, req)
	if err != nil {
		return nil, err
	}

	return &StoreListing{
		StoreView: model.StoreView{Store: *s, Owner: summaryOf(owner), Rating: sum},
		MyRating:  ratingFor(mine, storeID),
	}, nil
}

func myRatings(ctx context.Context, db database.DB, req Requester) (map[int]int, error) {
	if req.Role != model.RoleNormalUser {
		return nil, nil
	}
	return listRatingValuesByUser(ctx, db, req.UserID)
}

func ratingFor(mine map[int]int, storeID int) *int {
	v, ok := mine[storeID]
	if !ok {
		return nil
	}
	return &v
}

// NewStore 建立商店的輸入；OwnerID 只對管理員有效
type NewStore struct {
	Name    string
	Email   string
	Address string
	Image   *string
	OwnerID int
}

// CreateStore 管理員可指定任一商店擁有者，商店擁有者只能替自己建立
func CreateStore(ctx context.Context, db database.DB, req Requester, in NewStore) (v *model.StoreView, err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.CreateStore")
	defer func() { obs.Finish(span, err) }()

	ownerID := req.UserID
	switch req.Role {
	case model.RoleStoreOwner:
	case model.RoleAdmin:
		if in.OwnerID == 0 {
			return nil, errOwnerRequired
		}
		ownerID = in.OwnerID
	default:
		return nil, errStoreCreateRole
	}

	owner, err := getUserByID(ctx, db, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errOwnerMissing
		}
		return nil, err
	}
	if owner.Role != model.RoleStoreOwner || owner.Status != model.StatusApproved {
		return nil, errOwnerRole
	}

	s, err := createStore(ctx, db, &model.Store{
		Name:    in.Name,
		Slug:    slug.Make(in.Name),
		Email:   normalizeEmail(in.Email),
		Address: in.Address,
		Image:   in.Image,
		OwnerID: owner.ID,
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errOwnerMissing
		}
		return nil, err
	}
	return &model.StoreView{Store: *s, Owner: summaryOf(owner)}, nil
}

// DeleteStore 管理員可刪除任何商店，商店擁有者只能刪除自己的商店
func DeleteStore(ctx context.Context, db database.DB, summaries *RatingSummaries, req Requester, storeID int) (err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.DeleteStore")
	defer func() { obs.Finish(span, err) }()

	s, err := getStoreByID(ctx, db, storeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errStoreMissing
		}
		return err
	}
	switch {
	case req.Role == model.RoleAdmin:
	case req.Role == model.RoleStoreOwner && s.OwnerID == req.UserID:
	default:
		return errStoreDeleteRole
	}

	if err := deleteStore(ctx, db, storeID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errStoreMissing
		}
		return err
	}
	summaries.Forget(ctx, storeID)
	return nil
}

// ListUsers 依名稱排序回傳符合條件的使用者
func ListUsers(ctx context.Context, db database.DB, f model.UserFilter) ([]model.User, error) {
	ctx, span := obs.Tracer().Start(ctx, "service.ListUsers")
	defer span.End()

	return listUsers(ctx, db, f)
}

// UserDetail 使用者資料；商店擁有者另附各商店評分摘要
type UserDetail struct {
	model.User
	OwnerRatings []model.StoreView
}

// GetUserDetail 回傳使用者詳細資料
func GetUserDetail(ctx context.Context, db database.DB, userID int) (d *UserDetail, err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.GetUserDetail")
	defer func() { obs.Finish(span, err) }()

	u, err := getUserByID(ctx, db, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errUserMissing
		}
		return nil, err
	}
	d = &UserDetail{User: *u}
	if u.Role == model.RoleStoreOwner {
		d.OwnerRatings, err = listStoreViews(ctx, db, model.StoreFilter{OwnerID: u.ID})
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ChangePassword 驗證舊密碼後更新呼叫者自己的密碼
func ChangePassword(ctx context.Context, db database.DB, req Requester, oldPassword, newPassword string) (err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.ChangePassword")
	defer func() { obs.Finish(span, err) }()

	u, err := getUserByID(ctx, db, req.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errUserMissing
		}
		return err
	}
	if err := AuthenticateUser(ctx, *u, oldPassword); err != nil {
		return errWrongPassword
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return updateUserPassword(ctx, db, u.ID, hash)
}

// DeleteUser 刪除使用者，其商店與評分一併刪除，受影響商店的快取摘要同步失效
func DeleteUser(ctx context.Context, db database.DB, summaries *RatingSummaries, userID int) (err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.DeleteUser")
	defer func() { obs.Finish(span, err) }()

	rated, err := listRatingValuesByUser(ctx, db, userID)
	if err != nil {
		return err
	}
	owned, err := listStoreViews(ctx, db, model.StoreFilter{OwnerID: userID})
	if err != nil {
		return err
	}

	if err := deleteUser(ctx, db, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errUserMissing
		}
		return err
	}

	for _, s := range owned {
		summaries.Forget(ctx, s.ID)
	}
	for storeID := range rated {
		summaries.Invalidate(ctx, db, storeID)
	}
	return nil
}

// GetMe 回傳呼叫者自己的資料
func GetMe(ctx context.Context, db database.DB, req Requester) (*model.User, error) {
	ctx, span := obs.Tracer().Start(ctx, "service.GetMe")
	defer span.End()

	u, err := getUserByID(ctx, db, req.UserID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, errUserMissing
	}
	return u, err
}
