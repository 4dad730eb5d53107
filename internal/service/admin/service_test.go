package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopcart-api/internal/domain"
)

type stubProductRepo struct {
	created *domain.Product
	last    domain.Product
}

func (s *stubProductRepo) ListLimited(_ context.Context, _ int) ([]domain.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) ListAll(_ context.Context) ([]domain.Product, error) { return nil, nil }
func (s *stubProductRepo) ListByCategory(_ context.Context, _ string, _ int) ([]domain.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}
func (s *stubProductRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.last = p
	if s.created != nil {
		return s.created, nil
	}
	return &p, nil
}
func (s *stubProductRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.last = p
	return &p, nil
}
func (s *stubProductRepo) Delete(_ context.Context, _ string) error { return nil }
func (s *stubProductRepo) UpdateAggregates(_ context.Context, _ string, _ float64, _ int) error {
	return nil
}

type stubPromoRepo struct {
	last domain.PromoCode
}

func (s *stubPromoRepo) List(_ context.Context) ([]domain.PromoCode, error) { return nil, nil }
func (s *stubPromoRepo) GetByID(_ context.Context, _ string) (*domain.PromoCode, error) {
	return nil, domain.ErrNotFound
}
func (s *stubPromoRepo) GetByCode(_ context.Context, _ string) (*domain.PromoCode, error) {
	return nil, domain.ErrNotFound
}
func (s *stubPromoRepo) Create(_ context.Context, p domain.PromoCode) (*domain.PromoCode, error) {
	s.last = p
	return &p, nil
}
func (s *stubPromoRepo) Update(_ context.Context, p domain.PromoCode) (*domain.PromoCode, error) {
	s.last = p
	return &p, nil
}
func (s *stubPromoRepo) Delete(_ context.Context, _ string) error         { return nil }

type stubOrderRepo struct {
	lastID     string
	lastStatus string
}

func (s *stubOrderRepo) Create(_ context.Context, o domain.Order, _ string) (*domain.Order, error) {
	return &o, nil
}
func (s *stubOrderRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}
func (s *stubOrderRepo) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	return nil, nil
}
func (s *stubOrderRepo) List(_ context.Context) ([]domain.Order, error) { return nil, nil }
func (s *stubOrderRepo) UpdateStatus(_ context.Context, id, status string) (*domain.Order, error) {
	s.lastID = id
	s.lastStatus = status
	return &domain.Order{ID: id, Status: status}, nil
}
func (s *stubOrderRepo) Delete(_ context.Context, _ string) error { return nil }

type stubUserRepo struct {
	lastRole string
	deleted  []string
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	return &u, nil
}
func (s *stubUserRepo) GetByID(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}
func (s *stubUserRepo) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}
func (s *stubUserRepo) List(_ context.Context) ([]domain.User, error) { return nil, nil }
func (s *stubUserRepo) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	return &domain.User{ID: id, Name: name, Email: email}, nil
}
func (s *stubUserRepo) UpdatePassword(_ context.Context, _, _ string) error { return nil }
func (s *stubUserRepo) UpdateRole(_ context.Context, id, role string) (*domain.User, error) {
	s.lastRole = role
	return &domain.User{ID: id, Role: role}, nil
}
func (s *stubUserRepo) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubListRepo struct {
	deleteErr error
	deleted   []string
}

func (s *stubListRepo) GetCart(_ context.Context, _ string) ([]domain.CartLine, error) {
	return nil, domain.ErrNotFound
}
func (s *stubListRepo) PutCart(_ context.Context, _ string, _ []domain.CartLine) error { return nil }
func (s *stubListRepo) GetFavorites(_ context.Context, _ string) ([]domain.FavoriteItem, error) {
	return nil, domain.ErrNotFound
}
func (s *stubListRepo) PutFavorites(_ context.Context, _ string, _ []domain.FavoriteItem) error {
	return nil
}
func (s *stubListRepo) DeleteAll(_ context.Context, userID string) error {
	s.deleted = append(s.deleted, userID)
	return s.deleteErr
}

func newService() (*Service, *stubProductRepo, *stubPromoRepo, *stubOrderRepo, *stubUserRepo) {
	products := &stubProductRepo{}
	promos := &stubPromoRepo{}
	orders := &stubOrderRepo{}
	users := &stubUserRepo{}
	return New(products, promos, orders, users, &stubListRepo{}), products, promos, orders, users
}

func validProduct() ProductInput {
	return ProductInput{
		Name:        "Walnut Coffee Table",
		Price:       250000,
		Stock:       5,
		Images:      []string{"a.jpg", "b.jpg"},
		MainImage:   "a.jpg",
		Rating:      4.5,
		Reviews:     3,
		Category:    "tables",
		Description: "Solid walnut top.",
	}
}

func TestCreateProductHappyPath(t *testing.T) {
	svc, products, _, _, _ := newService()

	p, err := svc.CreateProduct(context.Background(), validProduct())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected generated id")
	}
	if products.last.Name != "Walnut Coffee Table" {
		t.Fatalf("product not stored: %+v", products.last)
	}
}

func TestCreateProductMainImageMustBeListed(t *testing.T) {
	svc, _, _, _, _ := newService()

	in := validProduct()
	in.MainImage = "missing.jpg"
	if _, err := svc.CreateProduct(context.Background(), in); !errors.Is(err, ErrMainImageNotListed) {
		t.Fatalf("expected main image error, got %v", err)
	}
}

func TestCreateProductRatingStep(t *testing.T) {
	svc, _, _, _, _ := newService()

	in := validProduct()
	in.Rating = 4.3
	if _, err := svc.CreateProduct(context.Background(), in); !errors.Is(err, ErrRatingStep) {
		t.Fatalf("expected rating step error, got %v", err)
	}

	in.Rating = 3.5
	if _, err := svc.CreateProduct(context.Background(), in); err != nil {
		t.Fatalf("half-step rating rejected: %v", err)
	}
}

func TestCreateProductFieldValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{"missing name", func(in *ProductInput) { in.Name = "" }},
		{"zero price", func(in *ProductInput) { in.Price = 0 }},
		{"negative stock", func(in *ProductInput) { in.Stock = -1 }},
		{"no images", func(in *ProductInput) { in.Images = nil }},
		{"too many images", func(in *ProductInput) {
			in.Images = []string{"1", "2", "3", "4", "5"}
		}},
		{"blank image entry", func(in *ProductInput) { in.Images = []string{"a.jpg", ""} }},
		{"rating above five", func(in *ProductInput) { in.Rating = 5.5 }},
		{"missing category", func(in *ProductInput) { in.Category = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _, _, _ := newService()
			in := validProduct()
			tc.mutate(&in)
			if _, err := svc.CreateProduct(context.Background(), in); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func validPromo() PromoInput {
	return PromoInput{
		Code:            "save10",
		DiscountPercent: 10,
		Description:     "Ten percent off",
		MinOrderAmount:  0,
		IsActive:        true,
	}
}

func TestCreatePromoUpperCasesCode(t *testing.T) {
	svc, _, promos, _, _ := newService()

	p, err := svc.CreatePromo(context.Background(), validPromo())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Code != "SAVE10" || promos.last.Code != "SAVE10" {
		t.Fatalf("code not upper-cased: %q", promos.last.Code)
	}
}

func TestCreatePromoDiscountBounds(t *testing.T) {
	svc, _, _, _, _ := newService()

	in := validPromo()
	in.DiscountPercent = 0
	if _, err := svc.CreatePromo(context.Background(), in); err == nil {
		t.Fatalf("expected rejection of zero discount")
	}

	in.DiscountPercent = 101
	if _, err := svc.CreatePromo(context.Background(), in); err == nil {
		t.Fatalf("expected rejection of discount above 100")
	}

	in.DiscountPercent = 100
	if _, err := svc.CreatePromo(context.Background(), in); err != nil {
		t.Fatalf("full discount rejected: %v", err)
	}
}

func TestCreatePromoExpiryFormats(t *testing.T) {
	svc, _, promos, _, _ := newService()

	date := "2026-12-31"
	in := validPromo()
	in.ExpiresAt = &date
	if _, err := svc.CreatePromo(context.Background(), in); err != nil {
		t.Fatalf("date-only expiry rejected: %v", err)
	}
	if promos.last.ExpiresAt == nil || promos.last.ExpiresAt.Year() != 2026 {
		t.Fatalf("expiry not parsed: %+v", promos.last.ExpiresAt)
	}

	stamp := time.Now().Add(time.Hour).Format(time.RFC3339)
	in.ExpiresAt = &stamp
	if _, err := svc.CreatePromo(context.Background(), in); err != nil {
		t.Fatalf("RFC3339 expiry rejected: %v", err)
	}

	bad := "next tuesday"
	in.ExpiresAt = &bad
	if _, err := svc.CreatePromo(context.Background(), in); err == nil {
		t.Fatalf("expected rejection of unparseable expiry")
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	svc, _, _, orders, _ := newService()

	if _, err := svc.UpdateOrderStatus(context.Background(), "o1", "misplaced"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}

	o, err := svc.UpdateOrderStatus(context.Background(), "o1", domain.OrderShipped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != domain.OrderShipped || orders.lastID != "o1" {
		t.Fatalf("status not written: %+v", o)
	}
}

func TestUpdateUserRole(t *testing.T) {
	svc, _, _, _, users := newService()

	if _, err := svc.UpdateUserRole(context.Background(), "u1", "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}

	u, err := svc.UpdateUserRole(context.Background(), "u1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleAdmin || users.lastRole != domain.RoleAdmin {
		t.Fatalf("role not written: %+v", u)
	}
}

func TestDeleteUserRemovesListDocuments(t *testing.T) {
	products := &stubProductRepo{}
	promos := &stubPromoRepo{}
	orders := &stubOrderRepo{}
	users := &stubUserRepo{}
	lists := &stubListRepo{deleteErr: domain.ErrNotFound}
	svc := New(products, promos, orders, users, lists)

	// An actor that never saved a cart has no list rows. That must not
	// block the delete.
	if err := svc.DeleteUser(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lists.deleted) != 1 || lists.deleted[0] != "u1" {
		t.Fatalf("list documents not deleted: %v", lists.deleted)
	}
	if len(users.deleted) != 1 || users.deleted[0] != "u1" {
		t.Fatalf("user not deleted: %v", users.deleted)
	}

	lists.deleteErr = errors.New("boom")
	if err := svc.DeleteUser(context.Background(), "u2"); err == nil {
		t.Fatal("expected storage error to propagate")
	}
	if len(users.deleted) != 1 {
		t.Fatalf("user deleted despite list failure: %v", users.deleted)
	}
}
