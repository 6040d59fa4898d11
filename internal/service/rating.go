// File: internal/service/rating.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"store-rating/internal/cache"
	"store-rating/internal/common"
	"store-rating/internal/database"
	"store-rating/internal/model"
	"store-rating/internal/obs"
	"store-rating/internal/worker"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

// warmTimeout 背景重新計算評分摘要的時限
const warmTimeout = 5 * time.Second

var (
	errRatingRange  = common.NewError(common.ErrValidation, fmt.Sprintf("rating must be an integer between %d and %d", model.MinRating, model.MaxRating))
	errRatingRole   = common.NewError(common.ErrForbidden, "only normal users can submit ratings")
	errStoreMissing = common.NewError(common.ErrNotFound, "store not found")
	errRatingsRole  = common.NewError(common.ErrForbidden, "only admins and store owners can view store ratings")
	errAccountGone  = common.NewError(common.ErrUnauthorized, "account no longer exists")
)

// RatingSummaries 以 Redis 快取各商店的評分摘要，未命中時以 SQL AVG 計算。
// 零值（無 Cache）時每次都直接查詢資料庫。
type RatingSummaries struct {
	Cache cache.Cache
	Pool  worker.Pool
	TTL   time.Duration
}

func ratingKey(storeID int) string {
	return fmt.Sprintf("store:%d:rating", storeID)
}

// Get 回傳商店的評分摘要
func (s *RatingSummaries) Get(ctx context.Context, db database.DB, storeID int) (model.RatingSummary, error) {
	if s != nil && s.Cache != nil {
		raw, err := s.Cache.Get(ctx, ratingKey(storeID)).Bytes()
		switch {
		case err == nil:
			var sum model.RatingSummary
			if err := json.Unmarshal(raw, &sum); err == nil {
				return sum, nil
			}
		case !errors.Is(err, redis.Nil):
			log.Warnf("rating cache get store %d: %v", storeID, err)
		}
	}

	sum, err := getRatingSummary(ctx, db, storeID)
	if err != nil {
		return model.RatingSummary{}, err
	}
	s.put(ctx, storeID, sum)
	return sum, nil
}

func (s *RatingSummaries) put(ctx context.Context, storeID int, sum model.RatingSummary) {
	if s == nil || s.Cache == nil {
		return
	}
	raw, err := json.Marshal(sum)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, ratingKey(storeID), raw, s.TTL).Err(); err != nil {
		log.Warnf("rating cache set store %d: %v", storeID, err)
	}
}

// Forget 同步刪除商店的快取摘要
func (s *RatingSummaries) Forget(ctx context.Context, storeIDs ...int) {
	if s == nil || s.Cache == nil || len(storeIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(storeIDs))
	for _, id := range storeIDs {
		keys = append(keys, ratingKey(id))
	}
	if err := s.Cache.Del(ctx, keys...).Err(); err != nil {
		log.Warnf("rating cache del %v: %v", keys, err)
	}
}

// Invalidate 刪除快取後交由 worker 重新計算；佇列已滿時略過，下次讀取再計算
func (s *RatingSummaries) Invalidate(ctx context.Context, db database.DB, storeID int) {
	s.Forget(ctx, storeID)
	if s == nil || s.Pool == nil {
		return
	}
	s.Pool.TrySubmit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
		defer cancel()
		sum, err := getRatingSummary(ctx, db, storeID)
		if err != nil {
			log.Warnf("rating cache warm store %d: %v", storeID, err)
			return
		}
		s.put(ctx, storeID, sum)
	})
}

// SubmitRating 新增或覆寫呼叫者對商店的評分，created 表示為首次評分
func SubmitRating(ctx context.Context, db database.DB, summaries *RatingSummaries, req Requester, storeID, value int) (r *model.Rating, created bool, err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.SubmitRating")
	defer func() { obs.Finish(span, err) }()

	if value < model.MinRating || value > model.MaxRating {
		return nil, false, errRatingRange
	}
	if req.Role != model.RoleNormalUser {
		return nil, false, errRatingRole
	}

	// token 在帳號刪除後仍有效，外鍵錯誤不可誤報為商店不存在
	if _, err := getUserByID(ctx, db, req.UserID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, false, errAccountGone
		}
		return nil, false, err
	}

	r = &model.Rating{Value: value, UserID: req.UserID, StoreID: storeID}
	created, err = upsertRating(ctx, db, r)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, false, errStoreMissing
		}
		return nil, false, err
	}
	summaries.Invalidate(ctx, db, storeID)
	return r, created, nil
}

// AverageFor 回傳商店的評分摘要，無評分時 Average 為 nil
func AverageFor(ctx context.Context, db database.DB, summaries *RatingSummaries, storeID int) (model.RatingSummary, error) {
	ctx, span := obs.Tracer().Start(ctx, "service.AverageFor")
	defer span.End()

	return summaries.Get(ctx, db, storeID)
}

// ListRatings 列出所有評分，新到舊
func ListRatings(ctx context.Context, db database.DB) ([]model.RatingView, error) {
	ctx, span := obs.Tracer().Start(ctx, "service.ListRatings")
	defer span.End()

	return listRatingViews(ctx, db, 0)
}

// StoreRatings 商店與其個別評分
type StoreRatings struct {
	Store   model.StoreView
	Ratings []model.RatingView
}

// RatingsByStore 管理員看到所有商店，商店擁有者只看到自己的商店
func RatingsByStore(ctx context.Context, db database.DB, req Requester) (result []StoreRatings, err error) {
	ctx, span := obs.Tracer().Start(ctx, "service.RatingsByStore")
	defer func() { obs.Finish(span, err) }()

	var ownerID int
	switch req.Role {
	case model.RoleAdmin:
	case model.RoleStoreOwner:
		ownerID = req.UserID
	default:
		return nil, errRatingsRole
	}

	stores, err := listStoreViews(ctx, db, model.StoreFilter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	ratings, err := listRatingViews(ctx, db, ownerID)
	if err != nil {
		return nil, err
	}

	byStore := make(map[int][]model.RatingView, len(stores))
	for _, r := range ratings {
		byStore[r.StoreID] = append(byStore[r.StoreID], r)
	}
	result = make([]StoreRatings, 0, len(stores))
	for _, s := range stores {
		rs := byStore[s.ID]
		if rs == nil {
			rs = []model.RatingView{}
		}
		// 兩次查詢之間可能有新評分，摘要以列出的評分為準
		values := make([]int, len(rs))
		for i, r := range rs {
			values[i] = r.Value
		}
		s.Rating = model.SummarizeRatings(values)
		result = append(result, StoreRatings{Store: s, Ratings: rs})
	}
	return result, nil
}
