// Package admin implements the back-office operations: product and promo
// CRUD with field validation, order status updates, and user role changes.
// Role changes live here and only here so an actor can never grant itself
// the admin role through its own profile.
package admin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"shopcart-api/internal/domain"
	listdocrepo "shopcart-api/internal/repository/listdoc"
	orderrepo "shopcart-api/internal/repository/order"
	promorepo "shopcart-api/internal/repository/promo"
	productrepo "shopcart-api/internal/repository/product"
	userrepo "shopcart-api/internal/repository/user"
)

var (
	ErrMainImageNotListed = errors.New("mainImage must be one of images")
	ErrRatingStep         = errors.New("rating must be a multiple of 0.5")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrInvalidRole        = errors.New("unknown role")
)

type Service struct {
	products productrepo.Repository
	promos   promorepo.Repository
	orders   orderrepo.Repository
	users    userrepo.Repository
	lists    listdocrepo.Repository
	validate *validator.Validate
}

func New(products productrepo.Repository, promos promorepo.Repository, orders orderrepo.Repository, users userrepo.Repository, lists listdocrepo.Repository) *Service {
	return &Service{
		products: products,
		promos:   promos,
		orders:   orders,
		users:    users,
		lists:    lists,
		validate: validator.New(),
	}
}

// ProductInput carries the admin form fields for a product.
type ProductInput struct {
	Name        string   `json:"name" validate:"required"`
	Price       float64  `json:"price" validate:"gt=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Images      []string `json:"images" validate:"required,min=1,max=4,dive,required"`
	MainImage   string   `json:"mainImage" validate:"required"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	Reviews     int      `json:"reviews" validate:"gte=0"`
	Material    string   `json:"material"`
	Color       string   `json:"color"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"required"`
}

func (s *Service) checkProduct(in ProductInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	found := false
	for _, img := range in.Images {
		if img == in.MainImage {
			found = true
			break
		}
	}
	if !found {
		return ErrMainImageNotListed
	}
	if math.Mod(in.Rating*2, 1) != 0 {
		return ErrRatingStep
	}
	return nil
}

func productFromInput(id string, in ProductInput) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Stock:       in.Stock,
		Images:      in.Images,
		MainImage:   in.MainImage,
		Rating:      in.Rating,
		Reviews:     in.Reviews,
		Material:    strings.TrimSpace(in.Material),
		Color:       strings.TrimSpace(in.Color),
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
	}
}

// CreateProduct validates and stores a new product.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := s.checkProduct(in); err != nil {
		return nil, err
	}
	return s.products.Create(ctx, productFromInput(uuid.NewString(), in))
}

// UpdateProduct validates and overwrites an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	if err := s.checkProduct(in); err != nil {
		return nil, err
	}
	return s.products.Update(ctx, productFromInput(id, in))
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

// PromoInput carries the admin form fields for a promo code.
type PromoInput struct {
	Code            string  `json:"code" validate:"required"`
	DiscountPercent float64 `json:"discountPercent" validate:"gt=0,lte=100"`
	Description     string  `json:"description" validate:"required"`
	MinOrderAmount  float64 `json:"minOrderAmount" validate:"gte=0"`
	ExpiresAt       *string `json:"expiresAt"`
	IsActive        bool    `json:"isActive"`
	UsageLimit      *int    `json:"usageLimit" validate:"omitempty,gt=0"`
}

func (s *Service) promoFromInput(id string, in PromoInput) (domain.PromoCode, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.PromoCode{}, err
	}
	p := domain.PromoCode{
		ID:              id,
		Code:            strings.ToUpper(strings.TrimSpace(in.Code)),
		DiscountPercent: in.DiscountPercent,
		Description:     strings.TrimSpace(in.Description),
		MinOrderAmount:  in.MinOrderAmount,
		IsActive:        in.IsActive,
		UsageLimit:      in.UsageLimit,
	}
	if in.ExpiresAt != nil && strings.TrimSpace(*in.ExpiresAt) != "" {
		t, err := parseExpiry(*in.ExpiresAt)
		if err != nil {
			return domain.PromoCode{}, err
		}
		p.ExpiresAt = &t
	}
	return p, nil
}

// CreatePromo validates and stores a new promo code, upper-casing the code
// so apply-time matching is case-insensitive.
func (s *Service) CreatePromo(ctx context.Context, in PromoInput) (*domain.PromoCode, error) {
	p, err := s.promoFromInput(uuid.NewString(), in)
	if err != nil {
		return nil, err
	}
	return s.promos.Create(ctx, p)
}

// UpdatePromo validates and overwrites an existing promo code. The usage
// counter is not writable from the form.
func (s *Service) UpdatePromo(ctx context.Context, id string, in PromoInput) (*domain.PromoCode, error) {
	p, err := s.promoFromInput(id, in)
	if err != nil {
		return nil, err
	}
	return s.promos.Update(ctx, p)
}

// DeletePromo removes a promo code.
func (s *Service) DeletePromo(ctx context.Context, id string) error {
	return s.promos.Delete(ctx, id)
}

// ListPromos returns all promo codes for the admin table.
func (s *Service) ListPromos(ctx context.Context) ([]domain.PromoCode, error) {
	return s.promos.List(ctx)
}

// ListOrders returns every order, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// UpdateOrderStatus overwrites the status field. Any status may move to any
// other; there is no workflow constraint beyond membership in the known set.
func (s *Service) UpdateOrderStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.orders.UpdateStatus(ctx, id, status)
}

// ListUsers returns all actor profiles.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// UpdateUserRole changes an actor's role. This is the only write path for
// the role field in the whole system.
func (s *Service) UpdateUserRole(ctx context.Context, id, role string) (*domain.User, error) {
	if role != domain.RoleCustomer && role != domain.RoleAdmin {
		return nil, ErrInvalidRole
	}
	return s.users.UpdateRole(ctx, id, role)
}

// DeleteOrder removes an order outright. Cancellations keep the record and
// flip the status; this is for purging test or fraudulent orders.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

// DeleteUser removes an actor together with its cart and favorites
// documents. Missing documents are fine, the actor may never have saved any.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.lists.DeleteAll(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return s.users.Delete(ctx, id)
}

func parseExpiry(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid expiry %q", v)
}
