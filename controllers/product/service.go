package productcontroller

import (
	"context"
	"errors"
	"strings"

	"github.com/Ricci-ricci/backend/apperrors"
	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/store"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// Input carries product fields. Nil fields are left unchanged on update.
type Input struct {
	Title        *string
	Description  *string
	Price        *float64
	Stock        *int
	Published    *bool
	Image        *string
	Features     *[]string
	CategoryName *string
}

// Service holds the catalog operations shared by the JSON and
// spreadsheet endpoints.
type Service struct {
	products store.ProductStore
	events   *Hub
}

func NewService(products store.ProductStore, events *Hub) *Service {
	return &Service{products: products, events: events}
}

func validate(in Input) error {
	var fields []apperrors.FieldError
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		fields = append(fields, apperrors.FieldError{Field: "title", Message: "title is required"})
	}
	if in.Price != nil && *in.Price < 0 {
		fields = append(fields, apperrors.FieldError{Field: "price", Message: "price must be at least 0"})
	}
	if in.Stock != nil && *in.Stock < 0 {
		fields = append(fields, apperrors.FieldError{Field: "stock", Message: "stock must be at least 0"})
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}

func (s *Service) apply(ctx context.Context, p *models.Product, in Input) error {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = models.ToCents(*in.Price).Float64()
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Features != nil {
		p.Features = pq.StringArray(append([]string{}, (*in.Features)...))
	}
	if in.CategoryName != nil {
		name := strings.TrimSpace(*in.CategoryName)
		if name == "" {
			p.CategoryID, p.CategoryName = nil, ""
			return nil
		}
		category, err := s.products.FindOrCreateCategory(ctx, name)
		if err != nil {
			return err
		}
		p.CategoryID, p.CategoryName = &category.ID, category.Name
	}
	return nil
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.BadRequest("Product ID is required")
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("Product not found")
	}
	return err
}

func (s *Service) Create(ctx context.Context, in Input) (*models.Product, error) {
	if in.Title == nil {
		return nil, apperrors.Validation([]apperrors.FieldError{{Field: "title", Message: "title is required"}})
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	product := &models.Product{Features: pq.StringArray{}}
	if err := s.apply(ctx, product, in); err != nil {
		return nil, err
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	log.WithField("product_id", product.ID).Info("🆕 Product created")
	s.events.Broadcast(Event{Type: EventCreated, Product: product})
	return product, nil
}

func (s *Service) List(ctx context.Context, filter store.ProductFilter) ([]models.Product, error) {
	products, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	product, err := s.products.FindProduct(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return product, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*models.Product, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	product, err := s.products.FindProduct(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.apply(ctx, product, in); err != nil {
		return nil, err
	}
	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, notFound(err)
	}

	s.events.Broadcast(Event{Type: EventUpdated, Product: product})
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return notFound(err)
	}

	log.WithField("product_id", id).Info("🗑️ Product deleted")
	s.events.Broadcast(Event{Type: EventDeleted, ProductID: id})
	return nil
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.products.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}
