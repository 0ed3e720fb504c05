package cartControllers

import (
	"context"
	"errors"

	"github.com/Ricci-ricci/backend/apperrors"
	"github.com/Ricci-ricci/backend/metrics"
	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/store"
	log "github.com/sirupsen/logrus"
)

// Actor is the session a cart operation runs on behalf of.
type Actor struct {
	UserID string
	Admin  bool
}

func (a Actor) canAccess(ownerID string) bool {
	return a.Admin || (a.UserID != "" && a.UserID == ownerID)
}

// CartSummary is a cart with its items, their products and the total.
type CartSummary struct {
	models.Cart
	Total models.Cents `json:"total"`
}

type Service struct {
	store store.Store
	// strictStock checks the merged quantity against stock, with the
	// product row locked, when a product is added again.
	strictStock bool
}

func NewService(st store.Store, strictStock bool) *Service {
	return &Service{store: st, strictStock: strictStock}
}

func forbidden() error { return apperrors.Forbidden("Forbidden") }

// Total sums price × quantity per item in cents.
func Total(items []models.CartItem) models.Cents {
	var total models.Cents
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		total += models.LineTotal(item.Product.Price, item.Quantity)
	}
	return total
}

// AddToCart puts quantity units of a product in the user's cart, creating
// the cart and merging into an existing line as needed. created reports
// whether a new line was inserted.
func (s *Service) AddToCart(ctx context.Context, actor Actor, userID, productID string, quantity int) (*models.CartItem, bool, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if userID == "" {
		return nil, false, apperrors.BadRequest("User ID is required")
	}
	if !actor.canAccess(userID) {
		return nil, false, forbidden()
	}

	var (
		item    *models.CartItem
		created bool
	)
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		find := tx.FindProduct
		if s.strictStock {
			find = tx.FindProductForUpdate
		}
		product, err := find(ctx, productID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.NotFound("Product not found")
			}
			return err
		}
		if product.Stock < quantity {
			return apperrors.InsufficientStock("Insufficient stock")
		}

		cart, err := tx.EnsureCart(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrReference) {
				return apperrors.NotFound("User not found")
			}
			return err
		}

		if s.strictStock {
			existing, err := tx.FindCartItemByProduct(ctx, cart.ID, productID)
			switch {
			case err == nil && existing.Quantity+quantity > product.Stock:
				return apperrors.InsufficientStock("Insufficient stock")
			case err != nil && !errors.Is(err, store.ErrNotFound):
				return err
			}
		}

		item, created, err = tx.MergeCartItem(ctx, cart.ID, productID, quantity)
		if errors.Is(err, store.ErrReference) {
			return apperrors.NotFound("Product not found")
		}
		return err
	})
	if err != nil {
		return nil, false, err
	}

	metrics.RecordCartAddition(created)
	log.WithFields(log.Fields{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   item.Quantity,
	}).Debug("🛒 Cart updated")
	return item, created, nil
}

func (s *Service) GetCart(ctx context.Context, actor Actor, userID string) (*CartSummary, error) {
	if userID == "" {
		return nil, apperrors.BadRequest("User ID is required")
	}
	if !actor.canAccess(userID) {
		return nil, forbidden()
	}

	cart, err := s.store.FindCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Cart not found")
		}
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &CartSummary{Cart: *cart, Total: Total(cart.Items)}, nil
}

// authorizeItem loads an item and checks the actor owns its cart.
func (s *Service) authorizeItem(ctx context.Context, actor Actor, itemID string) (*models.CartItem, error) {
	item, err := s.store.FindCartItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if actor.Admin {
		return item, nil
	}
	owner, err := s.store.FindCartOwner(ctx, item.CartID)
	if err != nil {
		return nil, err
	}
	if !actor.canAccess(owner) {
		return nil, forbidden()
	}
	return item, nil
}

// UpdateCartItem sets an item's quantity. Stock is checked against the new
// absolute quantity.
func (s *Service) UpdateCartItem(ctx context.Context, actor Actor, itemID string, quantity int) (*models.CartItem, error) {
	if itemID == "" {
		return nil, apperrors.BadRequest("Item ID is required")
	}
	if quantity < 1 {
		return nil, apperrors.BadRequest("Quantity must be at least 1")
	}

	item, err := s.authorizeItem(ctx, actor, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Cart item not found")
		}
		return nil, err
	}
	if item.Product == nil || item.Product.Stock < quantity {
		return nil, apperrors.InsufficientStock("Insufficient stock")
	}

	updated, err := s.store.UpdateCartItemQuantity(ctx, itemID, quantity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Cart item not found")
		}
		return nil, err
	}
	return updated, nil
}

// RemoveCartItem deletes an item. Removing an item that does not exist
// succeeds.
func (s *Service) RemoveCartItem(ctx context.Context, actor Actor, itemID string) error {
	if itemID == "" {
		return apperrors.BadRequest("Item ID is required")
	}

	if _, err := s.authorizeItem(ctx, actor, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.store.DeleteCartItem(ctx, itemID)
}

// ClearCart empties the user's cart and keeps the cart itself.
func (s *Service) ClearCart(ctx context.Context, actor Actor, userID string) error {
	if userID == "" {
		return apperrors.BadRequest("User ID is required")
	}
	if !actor.canAccess(userID) {
		return forbidden()
	}

	cart, err := s.store.FindCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Cart not found")
		}
		return err
	}

	removed, err := s.store.ClearCart(ctx, cart.ID)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"user_id": userID, "removed": removed}).Info("🧹 Cart cleared")
	return nil
}
