package routers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jarenkendrick14/Dropify/jwt"
	"github.com/jarenkendrick14/Dropify/models"
	"github.com/jarenkendrick14/Dropify/repository"
)

// In-memory doubles for the Mongo repositories. Sorting supports the
// expressions the tests use; everything else falls back to newest-first.

type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]string)}
}

func (s *memoryTokenStore) Save(_ context.Context, token, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	return nil
}

func (s *memoryTokenStore) Exists(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[token]
	return ok, nil
}

func (s *memoryTokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		return jwt.ErrTokenNotFound
	}
	delete(s.tokens, token)
	return nil
}

// clock hands out strictly increasing timestamps so newest-first
// ordering is deterministic in tests.
type clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Second}
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

type mockProductRepo struct {
	mu       sync.Mutex
	clock    *clock
	products []models.Product
}

func newMockProductRepo(clock *clock) *mockProductRepo {
	return &mockProductRepo{clock: clock}
}

func (m *mockProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.Product
	for _, p := range m.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !containsFold(p.Name, filter.Search) {
			continue
		}
		matched = append(matched, p)
	}

	switch filter.Sort {
	case "price":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case "-price":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case "name":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	default:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *mockProductRepo) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockProductRepo) GetMany(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var found []models.Product
	for _, p := range m.products {
		if want[p.ID] {
			found = append(found, p)
		}
	}
	return found, nil
}

func (m *mockProductRepo) Create(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ID = primitive.NewObjectID()
	now := m.clock.next()
	product.CreatedAt = now
	product.UpdatedAt = now
	m.products = append(m.products, *product)
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, id primitive.ObjectID, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			m.products[i].Name = product.Name
			m.products[i].Price = product.Price
			m.products[i].Image = product.Image
			m.products[i].Category = product.Category
			m.products[i].UpdatedAt = m.clock.next()
			*product = m.products[i]
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type mockUserRepo struct {
	mu    sync.Mutex
	clock *clock
	users []models.User

	// When set, ReplaceCart fails with this error instead of writing.
	failReplaceCart error
}

func newMockUserRepo(clock *clock) *mockUserRepo {
	return &mockUserRepo{clock: clock}
}

func (m *mockUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetMany(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var found []models.User
	for _, u := range m.users {
		if want[u.ID] {
			found = append(found, u)
		}
	}
	return found, nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	now := m.clock.next()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Cart == nil {
		user.Cart = []models.CartItem{}
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.User
	for _, u := range m.users {
		if filter.Search != "" && !containsFold(u.Username, filter.Search) {
			continue
		}
		matched = append(matched, u)
	}

	switch filter.Sort {
	case "username":
		sort.SliceStable(matched, func(i, j int) bool {
			return strings.ToLower(matched[i].Username) < strings.ToLower(matched[j].Username)
		})
	case "-username":
		sort.SliceStable(matched, func(i, j int) bool {
			return strings.ToLower(matched[i].Username) > strings.ToLower(matched[j].Username)
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}
	return matched, nil
}

func (m *mockUserRepo) FindIDsByUsername(_ context.Context, search string) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []primitive.ObjectID{}
	for _, u := range m.users {
		if containsFold(u.Username, search) {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (m *mockUserRepo) SetAdmin(_ context.Context, id primitive.ObjectID, isAdmin bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].IsAdmin = isAdmin
			m.users[i].UpdatedAt = m.clock.next()
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockUserRepo) ReplaceCart(_ context.Context, userID primitive.ObjectID, cart []models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReplaceCart != nil {
		return m.failReplaceCart
	}
	if cart == nil {
		cart = []models.CartItem{}
	}
	for i := range m.users {
		if m.users[i].ID == userID {
			m.users[i].Cart = cart
			m.users[i].UpdatedAt = m.clock.next()
			return nil
		}
	}
	return repository.ErrNotFound
}

type mockOrderRepo struct {
	mu     sync.Mutex
	clock  *clock
	orders []models.Order
}

func newMockOrderRepo(clock *clock) *mockOrderRepo {
	return &mockOrderRepo{clock: clock}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = primitive.NewObjectID()
	now := m.clock.next()
	order.CreatedAt = now
	order.UpdatedAt = now
	m.orders = append(m.orders, *order)
	return nil
}

func (m *mockOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owners := make(map[primitive.ObjectID]bool, len(filter.OwnerIDs))
	for _, id := range filter.OwnerIDs {
		owners[id] = true
	}

	var matched []models.Order
	for _, o := range m.orders {
		if filter.FilterByOwner && !owners[o.User] {
			continue
		}
		matched = append(matched, o)
	}

	switch filter.Sort {
	case "totalPrice":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].TotalPrice < matched[j].TotalPrice })
	default:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}
	return matched, nil
}

func (m *mockOrderRepo) SetStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			m.orders[i].UpdatedAt = m.clock.next()
			order := m.orders[i]
			return &order, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
