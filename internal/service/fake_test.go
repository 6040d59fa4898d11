package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"store-rating/internal/common"
	"store-rating/internal/database"
	"store-rating/internal/model"
	"store-rating/internal/store"
	"store-rating/internal/worker"

	"golang.org/x/crypto/bcrypt"
)

/* ---------- 記憶體版資料層 ---------- */

type ratingKeyPair struct{ userID, storeID int }

// memStore 以 map 模擬資料表，包含唯一索引與 cascade 行為
type memStore struct {
	mu      sync.Mutex
	seq     int
	base    time.Time
	users   map[int]model.User
	stores  map[int]model.Store
	ratings map[ratingKeyPair]model.Rating
}

func restore() {
	getUserByID = store.GetUserByID
	getUserByEmail = store.GetUserByEmail
	createUser = store.CreateUser
	deleteUser = store.DeleteUser
	updateUserPassword = store.UpdateUserPassword
	approvePendingUser = store.ApprovePendingUser
	deletePendingUser = store.DeletePendingUser
	listUsers = store.ListUsers
	listUsersByStatus = store.ListUsersByStatus
	createStore = store.CreateStore
	getStoreByID = store.GetStoreByID
	listStoreViews = store.ListStoreViews
	deleteStore = store.DeleteStore
	upsertRating = store.UpsertRating
	getRatingSummary = store.GetRatingSummary
	listRatingViews = store.ListRatingViews
	listRatingValuesByUser = store.ListRatingValuesByUser
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	timeNow = time.Now
	jwtSecret = ""
}

// newMemStore 安裝記憶體版資料層並於測試結束時還原
func newMemStore(t *testing.T) *memStore {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	m := &memStore{
		base:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:   map[int]model.User{},
		stores:  map[int]model.Store{},
		ratings: map[ratingKeyPair]model.Rating{},
	}
	t.Cleanup(restore)

	bcryptGenerateFromPassword = func(p []byte, _ int) ([]byte, error) {
		return bcrypt.GenerateFromPassword(p, bcrypt.MinCost)
	}
	getUserByID = m.getUserByID
	getUserByEmail = m.getUserByEmail
	createUser = m.createUser
	deleteUser = m.deleteUser
	updateUserPassword = m.updateUserPassword
	approvePendingUser = m.approvePendingUser
	deletePendingUser = m.deletePendingUser
	listUsers = m.listUsers
	listUsersByStatus = m.listUsersByStatus
	createStore = m.createStore
	getStoreByID = m.getStoreByID
	listStoreViews = m.listStoreViews
	deleteStore = m.deleteStore
	upsertRating = m.upsertRating
	getRatingSummary = m.getRatingSummary
	listRatingViews = m.listRatingViews
	listRatingValuesByUser = m.listRatingValuesByUser
	return m
}

func notFound(op string) error { return fmt.Errorf("%s: %w", op, common.ErrNotFound) }

// tick 回傳遞增的 id 與時間，確保排序可預期
func (m *memStore) tick() (int, time.Time) {
	m.seq++
	return m.seq, m.base.Add(time.Duration(m.seq) * time.Second)
}

func (m *memStore) getUserByID(_ context.Context, _ database.DB, id int) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, notFound("GetUserByID")
	}
	return &u, nil
}

func (m *memStore) getUserByEmail(_ context.Context, _ database.DB, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, notFound("GetUserByEmail")
}

func (m *memStore) createUser(_ context.Context, _ database.DB, u *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("CreateUser: %w", common.ErrConflict)
		}
	}
	u.ID, u.CreatedAt = m.tick()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return u, nil
}

func (m *memStore) deleteUser(_ context.Context, _ database.DB, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return notFound("DeleteUser")
	}
	delete(m.users, id)
	for sid, s := range m.stores {
		if s.OwnerID == id {
			m.dropStore(sid)
		}
	}
	for k := range m.ratings {
		if k.userID == id {
			delete(m.ratings, k)
		}
	}
	return nil
}

func (m *memStore) updateUserPassword(_ context.Context, _ database.DB, id int, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return notFound("UpdateUserPassword")
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

func (m *memStore) approvePendingUser(_ context.Context, _ database.DB, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Status != model.StatusPending {
		return notFound("ApprovePendingUser")
	}
	u.Status = model.StatusApproved
	m.users[id] = u
	return nil
}

func (m *memStore) deletePendingUser(_ context.Context, _ database.DB, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Status != model.StatusPending {
		return notFound("DeletePendingUser")
	}
	delete(m.users, id)
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (m *memStore) listUsers(_ context.Context, _ database.DB, f model.UserFilter) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.User{}
	for _, u := range m.users {
		if containsFold(u.Name, f.Name) && containsFold(u.Email, f.Email) &&
			containsFold(u.Address, f.Address) && containsFold(string(u.Role), f.Role) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) listUsersByStatus(_ context.Context, _ database.DB, status model.Status) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.User{}
	for _, u := range m.users {
		if u.Status == status {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) createStore(_ context.Context, _ database.DB, s *model.Store) (*model.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[s.OwnerID]; !ok {
		return nil, notFound("CreateStore")
	}
	s.ID, s.CreatedAt = m.tick()
	s.UpdatedAt = s.CreatedAt
	m.stores[s.ID] = *s
	return s, nil
}

func (m *memStore) getStoreByID(_ context.Context, _ database.DB, id int) (*model.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[id]
	if !ok {
		return nil, notFound("GetStoreByID")
	}
	return &s, nil
}

func (m *memStore) summaryLocked(storeID int) model.RatingSummary {
	var values []int
	for k, r := range m.ratings {
		if k.storeID == storeID {
			values = append(values, r.Value)
		}
	}
	return model.SummarizeRatings(values)
}

func (m *memStore) listStoreViews(_ context.Context, _ database.DB, f model.StoreFilter) ([]model.StoreView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.StoreView{}
	for _, s := range m.stores {
		if !containsFold(s.Name, f.Name) || !containsFold(s.Address, f.Address) {
			continue
		}
		if f.OwnerID != 0 && s.OwnerID != f.OwnerID {
			continue
		}
		owner := m.users[s.OwnerID]
		out = append(out, model.StoreView{Store: s, Owner: summaryOf(&owner), Rating: m.summaryLocked(s.ID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) dropStore(id int) {
	delete(m.stores, id)
	for k := range m.ratings {
		if k.storeID == id {
			delete(m.ratings, k)
		}
	}
}

func (m *memStore) deleteStore(_ context.Context, _ database.DB, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[id]; !ok {
		return notFound("DeleteStore")
	}
	m.dropStore(id)
	return nil
}

func (m *memStore) upsertRating(_ context.Context, _ database.DB, r *model.Rating) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[r.StoreID]; !ok {
		return false, notFound("UpsertRating")
	}
	k := ratingKeyPair{r.UserID, r.StoreID}
	if existing, ok := m.ratings[k]; ok {
		existing.Value = r.Value
		_, existing.UpdatedAt = m.tick()
		m.ratings[k] = existing
		*r = existing
		return false, nil
	}
	r.ID, r.CreatedAt = m.tick()
	r.UpdatedAt = r.CreatedAt
	m.ratings[k] = *r
	return true, nil
}

func (m *memStore) getRatingSummary(_ context.Context, _ database.DB, storeID int) (model.RatingSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaryLocked(storeID), nil
}

func (m *memStore) listRatingViews(_ context.Context, _ database.DB, ownerID int) ([]model.RatingView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.RatingView{}
	for _, r := range m.ratings {
		s := m.stores[r.StoreID]
		if ownerID != 0 && s.OwnerID != ownerID {
			continue
		}
		rater := m.users[r.UserID]
		out = append(out, model.RatingView{Rating: r, StoreName: s.Name, Rater: summaryOf(&rater)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) listRatingValuesByUser(_ context.Context, _ database.DB, userID int) (map[int]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[int]int{}
	for k, r := range m.ratings {
		if k.userID == userID {
			out[k.storeID] = r.Value
		}
	}
	return out, nil
}

/* ---------- 測試輔助 ---------- */

// seedUser 直接寫入指定角色與狀態的使用者
func (m *memStore) seedUser(t *testing.T, name string, role model.Role, status model.Status, password string) model.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	u, err := m.createUser(context.Background(), nil, &model.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@example.com",
		PasswordHash: hash,
		Role:         role,
		Status:       status,
	})
	if err != nil {
		t.Fatal(err)
	}
	return *u
}

func (m *memStore) seedStore(t *testing.T, name, address string, ownerID int) model.Store {
	t.Helper()
	s, err := m.createStore(context.Background(), nil, &model.Store{Name: name, Address: address, OwnerID: ownerID})
	if err != nil {
		t.Fatal(err)
	}
	return *s
}

func (m *memStore) ratingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ratings)
}

// syncPool 立即在呼叫端執行任務
type syncPool struct{ ran int }

func (p *syncPool) TrySubmit(t worker.Task) bool { p.ran++; t(); return true }
func (p *syncPool) Stop()                        {}

func requester(u model.User) Requester {
	return Requester{UserID: u.ID, Role: u.Role}
}

func itoa(i int) string { return fmt.Sprint(i) }
