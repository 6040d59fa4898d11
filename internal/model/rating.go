// File: internal/model/rating.go
package model

import (
	"fmt"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Rating struct {
	ID        int       `db:"id" json:"id"`
	Value     int       `db:"value" json:"rating"`
	UserID    int       `db:"user_id" json:"user_id"`
	StoreID   int       `db:"store_id" json:"store_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RatingView 評分連同評分者資訊與商店名稱
type RatingView struct {
	Rating
	StoreName string
	Rater     UserSummary
}

// RatingSummary 是一間商店的評分聚合。
// Average 為 nil 代表尚無評分，顯示為 N/A，不可當作 0。
type RatingSummary struct {
	Count   int      `json:"count"`
	Average *float64 `json:"average"`
}

// NoRatings is the text shown for a store without ratings.
const NoRatings = "N/A"

// Display 以兩位小數呈現平均，無評分時回傳 N/A
func (s RatingSummary) Display() string {
	if s.Average == nil {
		return NoRatings
	}
	return fmt.Sprintf("%.2f", *s.Average)
}

// Formatted 與 Display 相同，但無評分時回傳 nil，供 JSON 輸出 null
func (s RatingSummary) Formatted() *string {
	if s.Average == nil {
		return nil
	}
	v := s.Display()
	return &v
}

// SummarizeRatings 計算評分值的算術平均
func SummarizeRatings(values []int) RatingSummary {
	if len(values) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	avg := float64(sum) / float64(len(values))
	return RatingSummary{Count: len(values), Average: &avg}
}
