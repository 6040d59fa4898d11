// File: internal/service/account.go
package service

import (
	"context"
	"errors"
	"fmt"

	"store-rating/internal/common"
	"store-rating/internal/database"
	"store-rating/internal/model"
	"store-rating/internal/obs"
)

// Registration 建立帳號所需資料
type Registration struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     model.Role
}

var (
	errEmailExists        = common.NewError(common.ErrConflict, "email already exists")
	errAlreadyPending     = common.NewError(common.ErrConflict, "registration request already pending approval")
	errRegisterDirectly   = common.NewError(common.ErrValidation, "Normal User should register directly")
	errInvalidRole        = common.NewError(common.ErrValidation, "invalid role")
	errInvalidCredentials = common.NewError(common.ErrUnauthorized, "invalid credentials")
	errNotApproved        = common.NewError(common.ErrForbidden, "account not approved yet")
	errPendingNotFound    = common.NewError(common.ErrNotFound, "pending request not found")
)

// newAccount 雜湊密碼後寫入使用者，email 重複回傳 errEmailExists
func newAccount(ctx context.Context, db database.DB, reg Registration, role model.Role, status model.Status) (*model.User, error) {
	hash, err := HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := createUser(ctx, db, &model.User{
		Name:         reg.Name,
		Email:        normalizeEmail(reg.Email),
		PasswordHash: hash,
		Address:      reg.Address,
		Role:         role,
		Status:       status,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, errEmailExists
		}
		return nil, err
	}
	return u, nil
}

// RegisterSelf 一般使用者自行註冊，立即核准
func RegisterSelf(ctx context.Context, db database.DB, reg Registration) (u *model.User, err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.RegisterSelf")
	defer func() { obs.Finish(span, err) }()

	return newAccount(ctx, db, reg, model.RoleNormalUser, model.StatusApproved)
}

// RegisterRequest 商店擁有者或管理員提出註冊申請，需經管理員核准。
// 曾被拒絕的同 email 申請會被取代。
func RegisterRequest(ctx context.Context, db database.DB, reg Registration) (u *model.User, err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.RegisterRequest")
	defer func() { obs.Finish(span, err) }()

	switch reg.Role {
	case model.RoleStoreOwner, model.RoleAdmin:
	case model.RoleNormalUser:
		return nil, errRegisterDirectly
	default:
		return nil, errInvalidRole
	}

	existing, err := getUserByEmail(ctx, db, normalizeEmail(reg.Email))
	switch {
	case err == nil:
		switch existing.Status {
		case model.StatusPending:
			return nil, errAlreadyPending
		case model.StatusApproved:
			return nil, errEmailExists
		}
		if err := deleteUser(ctx, db, existing.ID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	return newAccount(ctx, db, reg, reg.Role, model.StatusPending)
}

// ListPendingRequests 依申請時間新到舊列出待審核帳號
func ListPendingRequests(ctx context.Context, db database.DB) ([]model.User, error) {
	ctx, span := obs.Tracer().Start(ctx, "service.ListPendingRequests")
	defer span.End()

	return listUsersByStatus(ctx, db, model.StatusPending)
}

// ApproveRequest 核准待審核帳號；非 pending 回傳 NotFound
func ApproveRequest(ctx context.Context, db database.DB, userID int) (err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.ApproveRequest")
	defer func() { obs.Finish(span, err) }()

	if err := approvePendingUser(ctx, db, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errPendingNotFound
		}
		return err
	}
	return nil
}

// RejectRequest 拒絕並刪除待審核帳號；非 pending 回傳 NotFound
func RejectRequest(ctx context.Context, db database.DB, userID int) (err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.RejectRequest")
	defer func() { obs.Finish(span, err) }()

	if err := deletePendingUser(ctx, db, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errPendingNotFound
		}
		return err
	}
	return nil
}

// Login 驗證帳密後發行存取令牌。
// 先驗證密碼再檢查狀態，密碼錯誤時不透露帳號是否待審核。
func Login(ctx context.Context, db database.DB, email, password string) (token string, u *model.User, err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.Login")
	defer func() { obs.Finish(span, err) }()

	u, err = getUserByEmail(ctx, db, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, err
	}
	if err := AuthenticateUser(ctx, *u, password); err != nil {
		return "", nil, errInvalidCredentials
	}
	if u.Status != model.StatusApproved {
		return "", nil, errNotApproved
	}

	token, err = IssueAccessToken(*u, AccessTokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// CreateUserByAdmin 管理員直接建立任一角色的帳號，立即核准
func CreateUserByAdmin(ctx context.Context, db database.DB, reg Registration) (u *model.User, err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.CreateUserByAdmin")
	defer func() { obs.Finish(span, err) }()

	if !reg.Role.Valid() {
		return nil, errInvalidRole
	}
	return newAccount(ctx, db, reg, reg.Role, model.StatusApproved)
}

// EnsureAdmin 在該 email 尚無帳號時建立已核准的管理員，回報是否有建立
func EnsureAdmin(ctx context.Context, db database.DB, name, email, password string) (bool, error) {
	_, err := getUserByEmail(ctx, db, normalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return false, err
	}
	_, err = newAccount(ctx, db, Registration{Name: name, Email: email, Password: password}, model.RoleAdmin, model.StatusApproved)
	if errors.Is(err, errEmailExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
