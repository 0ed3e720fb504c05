package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(db), mock
}

func TestGormFindUserByEmail(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password", "role", "created_at", "updated_at"}).
		AddRow("u1", "Ada", "ada@example.com", "hash", "USER", now, now)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).WillReturnRows(rows)

	user, err := s.FindUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "hash", user.Password)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFindUserByEmailNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := s.FindUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDeleteUserReportsMissingRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormClearCartReturnsRemovedCount(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "cart_items" WHERE cart_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := s.ClearCart(context.Background(), "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDeleteCartItemIsIdempotent(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "cart_items" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.DeleteCartItem(context.Background(), "missing"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateCartItemQuantityMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "cart_items" SET "quantity"=\$1`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.UpdateCartItemQuantity(context.Background(), "missing", 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.ErrorIs(t, translate(gorm.ErrForeignKeyViolated), ErrReference)

	other := errors.New("connection reset")
	assert.Same(t, other, translate(other))
}

func TestGormListProductsFilters(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE published = \$1 AND category_name = \$2 AND \(title ILIKE \$3 OR description ILIKE \$4\) ORDER BY created_at desc`).
		WithArgs(true, "Running", "%run%", "%run%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "published"}).AddRow("p1", "Runner", true))

	products, err := s.ListProducts(context.Background(), ProductFilter{PublishedOnly: true, Category: "Running", Search: "run"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Runner", products[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

const (
	ensureCartSQL = `INSERT INTO "carts" \("id","user_id","created_at","updated_at"\) VALUES \(\$1,\$2,\$3,\$4\) ON CONFLICT \("user_id"\) DO NOTHING$`
	mergeItemSQL  = `INSERT INTO "cart_items" \("id","cart_id","product_id","quantity","created_at","updated_at"\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6\) ` +
		`ON CONFLICT \("cart_id","product_id"\) DO UPDATE SET "quantity"=cart_items\.quantity \+ EXCLUDED\.quantity,"updated_at"=\$7$`
	itemByProductSQL = `SELECT \* FROM "cart_items" WHERE cart_id = \$1 AND product_id = \$2`
	productByIDSQL   = `SELECT \* FROM "products" WHERE "products"\."id" = \$1`
)

var itemColumns = []string{"id", "cart_id", "product_id", "quantity", "created_at", "updated_at"}

// insertedID records the id bound to the INSERT and adds the matching row
// to the follow-up SELECT.
type insertedID struct {
	rows     *sqlmock.Rows
	quantity int
	id       *string
}

func (a insertedID) Match(v driver.Value) bool {
	id, ok := v.(string)
	if ok && *a.id == "" {
		*a.id = id
		now := time.Now()
		a.rows.AddRow(id, "c1", "p1", a.quantity, now, now)
	}
	return ok
}

func TestGormEnsureCartUpsertsThenReads(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectExec(ensureCartSQL).
		WithArgs(sqlmock.AnyArg(), "u1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = \$1`).
		WithArgs("u1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at", "updated_at"}).AddRow("c1", "u1", now, now))

	cart, err := s.EnsureCart(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "c1", cart.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormMergeCartItemInsertsNewLine(t *testing.T) {
	s, mock := newMockStore(t)

	var id string
	rows := sqlmock.NewRows(itemColumns)
	mock.ExpectExec(mergeItemSQL).
		WithArgs(insertedID{rows: rows, quantity: 3, id: &id}, "c1", "p1", 3, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(itemByProductSQL).WithArgs("c1", "p1", sqlmock.AnyArg()).WillReturnRows(rows)
	mock.ExpectQuery(productByIDSQL).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "stock"}).AddRow("p1", "Runner", 10.0, 5))

	item, created, err := s.MergeCartItem(context.Background(), "c1", "p1", 3)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, id, item.ID)
	assert.Equal(t, 3, item.Quantity)
	require.NotNil(t, item.Product)
	assert.Equal(t, "Runner", item.Product.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormMergeCartItemMergesExistingLine(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectExec(mergeItemSQL).
		WithArgs(sqlmock.AnyArg(), "c1", "p1", 2, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(itemByProductSQL).WithArgs("c1", "p1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(itemColumns).AddRow("existing", "c1", "p1", 5, now, now))
	mock.ExpectQuery(productByIDSQL).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow("p1", "Runner"))

	item, created, err := s.MergeCartItem(context.Background(), "c1", "p1", 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "existing", item.ID)
	assert.Equal(t, 5, item.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFindProductForUpdateLocksRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY "products"\."id" LIMIT \$2 FOR UPDATE$`).
		WithArgs("p1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "stock"}).AddRow("p1", "Runner", 4))

	product, err := s.FindProductForUpdate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, product.Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}
