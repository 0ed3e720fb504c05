// Package store is the data-access layer. Flows depend on the narrow
// interfaces below; Postgres (via GORM) and memory implementations satisfy
// all of them.
package store

import (
	"context"
	"errors"

	"github.com/Ricci-ricci/backend/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrReference is returned when a row points at a parent that does
	// not exist (e.g. a cart for an unknown user).
	ErrReference = errors.New("referenced record does not exist")
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

type ProductFilter struct {
	PublishedOnly bool
	// Search matches title or description, case-insensitively.
	Search   string
	Category string
}

type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	FindProduct(ctx context.Context, id string) (*models.Product, error)
	// FindProductForUpdate locks the row until the surrounding transaction
	// ends. Outside a transaction it behaves like FindProduct.
	FindProductForUpdate(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	FindOrCreateCategory(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	// ResetCatalog removes orders, carts, products and categories.
	ResetCatalog(ctx context.Context) error
}

type CartStore interface {
	// FindCartByUser returns the user's cart with items and their products.
	FindCartByUser(ctx context.Context, userID string) (*models.Cart, error)
	// EnsureCart returns the user's cart, creating it if needed, in one
	// atomic statement.
	EnsureCart(ctx context.Context, userID string) (*models.Cart, error)
	FindCartOwner(ctx context.Context, cartID string) (userID string, err error)
	FindCartItem(ctx context.Context, id string) (*models.CartItem, error)
	FindCartItemByProduct(ctx context.Context, cartID, productID string) (*models.CartItem, error)
	// MergeCartItem inserts a (cart, product) line or adds quantity to the
	// existing one, in one atomic statement. created reports an insert.
	MergeCartItem(ctx context.Context, cartID, productID string, quantity int) (item *models.CartItem, created bool, err error)
	UpdateCartItemQuantity(ctx context.Context, id string, quantity int) (*models.CartItem, error)
	// DeleteCartItem succeeds whether or not the item exists.
	DeleteCartItem(ctx context.Context, id string) error
	ClearCart(ctx context.Context, cartID string) (int64, error)
}

// Store is the full data-access handle.
type Store interface {
	UserStore
	ProductStore
	CartStore

	// Transaction runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
