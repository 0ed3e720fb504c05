package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Ricci-ricci/backend/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MemoryStore is an in-process Store used by tests and local experiments.
// Every method is atomic on its own; Transaction restores a snapshot when
// fn fails but does not isolate concurrent transactions from each other.
type MemoryStore struct {
	mu   sync.Mutex
	seq  int64
	data memoryData
}

type memoryData struct {
	users      map[string]models.User
	products   map[string]models.Product
	categories map[string]models.Category
	carts      map[string]models.Cart
	items      map[string]models.CartItem
	order      map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: memoryData{
		users:      map[string]models.User{},
		products:   map[string]models.Product{},
		categories: map[string]models.Category{},
		carts:      map[string]models.Cart{},
		items:      map[string]models.CartItem{},
		order:      map[string]int64{},
	}}
}

func (d memoryData) clone() memoryData {
	out := memoryData{
		users:      make(map[string]models.User, len(d.users)),
		products:   make(map[string]models.Product, len(d.products)),
		categories: make(map[string]models.Category, len(d.categories)),
		carts:      make(map[string]models.Cart, len(d.carts)),
		items:      make(map[string]models.CartItem, len(d.items)),
		order:      make(map[string]int64, len(d.order)),
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.products {
		v.Features = append(pq.StringArray(nil), v.Features...)
		out.products[k] = v
	}
	for k, v := range d.categories {
		out.categories[k] = v
	}
	for k, v := range d.carts {
		out.carts[k] = v
	}
	for k, v := range d.items {
		out.items[k] = v
	}
	for k, v := range d.order {
		out.order[k] = v
	}
	return out
}

// stamp records insertion order and fills timestamps. Callers hold s.mu.
func (s *MemoryStore) stamp(id string, createdAt *time.Time, updatedAt *time.Time) {
	s.seq++
	s.data.order[id] = s.seq
	now := time.Now()
	if createdAt != nil && createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt != nil {
		*updatedAt = now
	}
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() error { return nil }

// ─────────── Users ───────────

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	s.stamp(user.ID, &user.CreatedAt, &user.UpdatedAt)
	stored := *user
	stored.Cart = nil
	s.data.users[user.ID] = stored
	return nil
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.data.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.data.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.data.users))
	for _, u := range s.data.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return s.data.order[users[i].ID] > s.data.order[users[j].ID]
	})
	return users, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.users[user.ID]; !ok {
		return ErrNotFound
	}
	for id, u := range s.data.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	stored := *user
	stored.Cart = nil
	s.data.users[user.ID] = stored
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.data.users, id)
	for cartID, cart := range s.data.carts {
		if cart.UserID == id {
			s.deleteCartLocked(cartID)
		}
	}
	return nil
}

// ─────────── Products & Categories ───────────

func (s *MemoryStore) CreateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if _, exists := s.data.products[product.ID]; exists {
		return ErrDuplicate
	}
	if product.Features == nil {
		product.Features = pq.StringArray{}
	}
	s.stamp(product.ID, &product.CreatedAt, &product.UpdatedAt)
	s.data.products[product.ID] = copyProduct(*product)
	return nil
}

func (s *MemoryStore) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.data.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyProduct(p)
	return &out, nil
}

func (s *MemoryStore) FindProductForUpdate(ctx context.Context, id string) (*models.Product, error) {
	return s.FindProduct(ctx, id)
}

func (s *MemoryStore) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(filter.Search)
	products := make([]models.Product, 0, len(s.data.products))
	for _, p := range s.data.products {
		if filter.PublishedOnly && !p.Published {
			continue
		}
		if filter.Category != "" && p.CategoryName != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		products = append(products, copyProduct(p))
	}
	sort.Slice(products, func(i, j int) bool {
		return s.data.order[products[i].ID] > s.data.order[products[j].ID]
	})
	return products, nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.products[product.ID]; !ok {
		return ErrNotFound
	}
	product.UpdatedAt = time.Now()
	s.data.products[product.ID] = copyProduct(*product)
	return nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.data.products, id)
	for itemID, item := range s.data.items {
		if item.ProductID == id {
			delete(s.data.items, itemID)
		}
	}
	return nil
}

func (s *MemoryStore) FindOrCreateCategory(ctx context.Context, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.data.categories {
		if c.Name == name {
			found := c
			return &found, nil
		}
	}
	c := models.Category{ID: uuid.NewString(), Name: name}
	s.stamp(c.ID, &c.CreatedAt, nil)
	s.data.categories[c.ID] = c
	return &c, nil
}

func (s *MemoryStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]models.Category, 0, len(s.data.categories))
	for _, c := range s.data.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (s *MemoryStore) ResetCatalog(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.items = map[string]models.CartItem{}
	s.data.carts = map[string]models.Cart{}
	s.data.products = map[string]models.Product{}
	s.data.categories = map[string]models.Category{}
	return nil
}

// ─────────── Carts ───────────

func (s *MemoryStore) cartByUserLocked(userID string) (models.Cart, bool) {
	for _, c := range s.data.carts {
		if c.UserID == userID {
			return c, true
		}
	}
	return models.Cart{}, false
}

func (s *MemoryStore) itemWithProductLocked(item models.CartItem) models.CartItem {
	if p, ok := s.data.products[item.ProductID]; ok {
		product := copyProduct(p)
		item.Product = &product
	}
	return item
}

func (s *MemoryStore) deleteCartLocked(cartID string) {
	delete(s.data.carts, cartID)
	for itemID, item := range s.data.items {
		if item.CartID == cartID {
			delete(s.data.items, itemID)
		}
	}
}

func (s *MemoryStore) FindCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.cartByUserLocked(userID)
	if !ok {
		return nil, ErrNotFound
	}
	cart.Items = []models.CartItem{}
	for _, item := range s.data.items {
		if item.CartID == cart.ID {
			cart.Items = append(cart.Items, s.itemWithProductLocked(item))
		}
	}
	sort.Slice(cart.Items, func(i, j int) bool {
		return s.data.order[cart.Items[i].ID] < s.data.order[cart.Items[j].ID]
	})
	return &cart, nil
}

func (s *MemoryStore) EnsureCart(ctx context.Context, userID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cart, ok := s.cartByUserLocked(userID); ok {
		return &cart, nil
	}
	if _, ok := s.data.users[userID]; !ok {
		return nil, ErrReference
	}
	cart := models.Cart{ID: uuid.NewString(), UserID: userID}
	s.stamp(cart.ID, &cart.CreatedAt, &cart.UpdatedAt)
	s.data.carts[cart.ID] = cart
	return &cart, nil
}

func (s *MemoryStore) FindCartOwner(ctx context.Context, cartID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.data.carts[cartID]
	if !ok {
		return "", ErrNotFound
	}
	return cart.UserID, nil
}

func (s *MemoryStore) FindCartItem(ctx context.Context, id string) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.data.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	item = s.itemWithProductLocked(item)
	return &item, nil
}

func (s *MemoryStore) FindCartItemByProduct(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.data.items {
		if item.CartID == cartID && item.ProductID == productID {
			item = s.itemWithProductLocked(item)
			return &item, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) MergeCartItem(ctx context.Context, cartID, productID string, quantity int) (*models.CartItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.carts[cartID]; !ok {
		return nil, false, ErrReference
	}
	if _, ok := s.data.products[productID]; !ok {
		return nil, false, ErrReference
	}

	for id, item := range s.data.items {
		if item.CartID == cartID && item.ProductID == productID {
			item.Quantity += quantity
			item.UpdatedAt = time.Now()
			s.data.items[id] = item
			merged := s.itemWithProductLocked(item)
			return &merged, false, nil
		}
	}

	item := models.CartItem{ID: uuid.NewString(), CartID: cartID, ProductID: productID, Quantity: quantity}
	s.stamp(item.ID, &item.CreatedAt, &item.UpdatedAt)
	s.data.items[item.ID] = item
	created := s.itemWithProductLocked(item)
	return &created, true, nil
}

func (s *MemoryStore) UpdateCartItemQuantity(ctx context.Context, id string, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.data.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	s.data.items[id] = item
	item = s.itemWithProductLocked(item)
	return &item, nil
}

func (s *MemoryStore) DeleteCartItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data.items, id)
	return nil
}

func (s *MemoryStore) ClearCart(ctx context.Context, cartID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, item := range s.data.items {
		if item.CartID == cartID {
			delete(s.data.items, id)
			removed++
		}
	}
	return removed, nil
}

func copyProduct(p models.Product) models.Product {
	p.Features = append(pq.StringArray{}, p.Features...)
	p.Category = nil
	return p
}
