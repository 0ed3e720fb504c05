package store

import (
	"context"
	"errors"
	"time"

	"github.com/Ricci-ricci/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of a *gorm.DB. The DB must be opened
// with TranslateError so unique/foreign key violations can be recognised.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReference
	}
	return err
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ─────────── Users ───────────

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.conn(ctx).Create(user).Error)
}

func (s *GormStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.conn(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	return translate(s.conn(ctx).Save(user).Error)
}

func (s *GormStore) DeleteUser(ctx context.Context, id string) error {
	result := s.conn(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ─────────── Products & Categories ───────────

func (s *GormStore) CreateProduct(ctx context.Context, product *models.Product) error {
	return translate(s.conn(ctx).Create(product).Error)
}

func (s *GormStore) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.conn(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *GormStore) FindProductForUpdate(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *GormStore) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := s.conn(ctx).Model(&models.Product{})
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category_name = ?", filter.Category)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var products []models.Product
	if err := query.Order("created_at desc").Find(&products).Error; err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (s *GormStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	return translate(s.conn(ctx).Omit("Category").Save(product).Error)
}

func (s *GormStore) DeleteProduct(ctx context.Context, id string) error {
	result := s.conn(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) FindOrCreateCategory(ctx context.Context, name string) (*models.Category, error) {
	db := s.conn(ctx)

	candidate := models.Category{Name: name}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidate).Error; err != nil {
		return nil, translate(err)
	}

	var category models.Category
	if err := db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.conn(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (s *GormStore) ResetCatalog(ctx context.Context) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{
			&models.OrderItem{},
			&models.CartItem{},
			&models.Order{},
			&models.Cart{},
			&models.Product{},
			&models.Category{},
		} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ─────────── Carts ───────────

func (s *GormStore) FindCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := s.conn(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (s *GormStore) EnsureCart(ctx context.Context, userID string) (*models.Cart, error) {
	db := s.conn(ctx)

	candidate := models.Cart{UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&candidate).Error; err != nil {
		return nil, translate(err)
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (s *GormStore) FindCartOwner(ctx context.Context, cartID string) (string, error) {
	var cart models.Cart
	if err := s.conn(ctx).Select("id", "user_id").First(&cart, "id = ?", cartID).Error; err != nil {
		return "", translate(err)
	}
	return cart.UserID, nil
}

func (s *GormStore) FindCartItem(ctx context.Context, id string) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.conn(ctx).Preload("Product").First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *GormStore) FindCartItemByProduct(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.conn(ctx).
		Preload("Product").
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *GormStore) MergeCartItem(ctx context.Context, cartID, productID string, quantity int) (*models.CartItem, bool, error) {
	db := s.conn(ctx)

	candidate := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	if err := db.Omit("Product").Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(&candidate).Error; err != nil {
		return nil, false, translate(err)
	}

	var item models.CartItem
	if err := db.
		Preload("Product").
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error; err != nil {
		return nil, false, translate(err)
	}
	return &item, item.ID == candidate.ID, nil
}

func (s *GormStore) UpdateCartItemQuantity(ctx context.Context, id string, quantity int) (*models.CartItem, error) {
	result := s.conn(ctx).Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.FindCartItem(ctx, id)
}

func (s *GormStore) DeleteCartItem(ctx context.Context, id string) error {
	return translate(s.conn(ctx).Delete(&models.CartItem{}, "id = ?", id).Error)
}

func (s *GormStore) ClearCart(ctx context.Context, cartID string) (int64, error) {
	result := s.conn(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	return result.RowsAffected, translate(result.Error)
}
