package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeCartStore mimics the mongo cart repository, including its
// version-conditional writes. forceConflicts makes the next N saves fail
// with a version conflict to exercise the retry path.
type fakeCartStore struct {
	mu             sync.Mutex
	carts          map[primitive.ObjectID]models.Cart
	forceConflicts int
	saves          int
	deletes        []primitive.ObjectID
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[primitive.ObjectID]models.Cart)}
}

func (f *fakeCartStore) GetByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := cart
	copied.Items = append([]models.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (f *fakeCartStore) Save(_ context.Context, cart *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++

	if f.forceConflicts > 0 {
		f.forceConflicts--
		return repository.ErrVersionConflict
	}

	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
		cart.Version = 1
	} else {
		stored, ok := f.carts[cart.UserID]
		if !ok || stored.Version != cart.Version {
			return repository.ErrVersionConflict
		}
		cart.Version++
	}
	f.carts[cart.UserID] = *cart
	return nil
}

func (f *fakeCartStore) Delete(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, userID)
	if _, ok := f.carts[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.carts, userID)
	return nil
}

// fakeProductStore backs both product lookup and stock movement.
type fakeProductStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductStore(products ...*models.Product) *fakeProductStore {
	f := &fakeProductStore{products: make(map[primitive.ObjectID]*models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductStore) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if product.CountInStock < qty {
		return repository.ErrInsufficientStock
	}
	product.CountInStock -= qty
	product.Sold += qty
	return nil
}

func (f *fakeProductStore) RestoreStock(_ context.Context, id primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	product.CountInStock += qty
	product.Sold -= qty
	return nil
}

func (f *fakeProductStore) List(_ context.Context, _ repository.ProductFilter) ([]*models.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Product
	for _, p := range f.products {
		copied := *p
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductStore) Create(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.SKU != "" && p.SKU == product.SKU {
			return repository.ErrDuplicateKey
		}
	}
	product.ID = primitive.NewObjectID()
	copied := *product
	f.products[product.ID] = &copied
	return nil
}

func (f *fakeProductStore) Update(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *product
	f.products[product.ID] = &copied
	return nil
}

func (f *fakeProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeCategoryStore struct {
	mu         sync.Mutex
	categories map[primitive.ObjectID]*models.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[primitive.ObjectID]*models.Category)}
}

func (f *fakeCategoryStore) Create(_ context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.Name == category.Name {
			return repository.ErrDuplicateKey
		}
	}
	category.ID = primitive.NewObjectID()
	copied := *category
	f.categories[category.ID] = &copied
	return nil
}

func (f *fakeCategoryStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	category, ok := f.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *category
	return &copied, nil
}

func (f *fakeCategoryStore) List(_ context.Context) ([]*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Category
	for _, c := range f.categories {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeCategoryStore) Update(_ context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *category
	f.categories[category.ID] = &copied
	return nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

// fakeProductCache records hits and invalidations; set failing to make every
// cache call error, exercising the warn-and-continue path.
type fakeProductCache struct {
	mu          sync.Mutex
	entries     map[string]*models.Product
	invalidated []string
	failing     bool
}

func newFakeProductCache() *fakeProductCache {
	return &fakeProductCache{entries: make(map[string]*models.Product)}
}

func (f *fakeProductCache) CacheProduct(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return fmt.Errorf("cache unavailable")
	}
	copied := *product
	f.entries[product.ID.Hex()] = &copied
	return nil
}

func (f *fakeProductCache) GetCachedProduct(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, fmt.Errorf("cache unavailable")
	}
	product, ok := f.entries[id]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductCache) InvalidateProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return fmt.Errorf("cache unavailable")
	}
	delete(f.entries, id)
	f.invalidated = append(f.invalidated, id)
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) List(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, u := range f.users {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders []*models.Order
}

func (f *fakeOrderStore) Insert(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = primitive.NewObjectID()
	copied := *order
	f.orders = append(f.orders, &copied)
	return nil
}

func (f *fakeOrderStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, order := range f.orders {
		if order.ID == id {
			copied := *order
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOrderStore) List(_ context.Context, userID primitive.ObjectID) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Order
	for _, order := range f.orders {
		if userID.IsZero() || order.UserID == userID {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) Update(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, stored := range f.orders {
		if stored.ID == order.ID {
			copied := *order
			f.orders[i] = &copied
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeSequences allocates from in-memory counters with the same atomicity
// guarantee the mongo allocator provides.
type fakeSequences struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeSequences() *fakeSequences {
	return &fakeSequences{counters: make(map[string]int64)}
}

func (f *fakeSequences) Next(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[name]++
	return f.counters[name], nil
}

type failingSequences struct{}

func (failingSequences) Next(context.Context, string) (int64, error) {
	return 0, fmt.Errorf("sequences unavailable")
}
