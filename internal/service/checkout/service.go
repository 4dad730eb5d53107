// Package checkout converts a cart plus address and promo selection into
// one immutable order document and resets the cart.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shopcart-api/internal/domain"
)

// Promo rejection reasons, each distinct so the caller can surface a
// specific message. The first failing check wins; there is no partial
// application.
var (
	ErrPromoNotFound      = errors.New("promo code not found")
	ErrPromoInactive      = errors.New("promo code is not active")
	ErrPromoExpired       = errors.New("promo code has expired")
	ErrPromoUsageExceeded = errors.New("promo code usage limit reached")
	ErrPromoMinOrder      = errors.New("order subtotal below promo minimum")
)

// Flat pricing policy: 2% tax, free shipping. Fixed, not configurable.
const taxRate = 0.02

type promoRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order, promoID string) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type cartClearer interface {
	ClearCart()
	Flush(ctx context.Context) error
}

type Service struct {
	promos promoRepo
	orders orderRepo
	logger *logrus.Logger
	now    func() time.Time
}

func New(promos promoRepo, orders orderRepo, logger *logrus.Logger) *Service {
	return &Service{promos: promos, orders: orders, logger: logger, now: time.Now}
}

// ApplyPromo validates a code against the subtotal and returns the promo on
// success. Checks run in order: existence plus active flag, expiry, usage
// limit, minimum order amount.
func (s *Service) ApplyPromo(ctx context.Context, code string, subtotal float64) (*domain.PromoCode, error) {
	promo, err := s.promos.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	if !promo.IsActive {
		return nil, ErrPromoInactive
	}
	if promo.Expired(s.now()) {
		return nil, ErrPromoExpired
	}
	if promo.UsageExhausted() {
		return nil, ErrPromoUsageExceeded
	}
	if subtotal < promo.MinOrderAmount {
		return nil, ErrPromoMinOrder
	}
	return promo, nil
}

// Subtotal sums price times quantity over cart lines.
func Subtotal(lines []domain.CartLine) float64 {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	return subtotal
}

// Price computes the order pricing block. Amounts keep full precision;
// rounding is a display concern.
func Price(subtotal float64, promo *domain.PromoCode) domain.Pricing {
	var discount float64
	if promo != nil {
		discount = subtotal * promo.DiscountPercent / 100
	}
	tax := subtotal * taxRate
	return domain.Pricing{
		Subtotal:    subtotal,
		ShippingFee: 0,
		Tax:         tax,
		Discount:    discount,
		Total:       subtotal + tax - discount,
	}
}

// PlaceInput carries everything checkout needs besides the cart itself.
type PlaceInput struct {
	Address       domain.Address
	Promo         *domain.PromoCode
	PaymentMethod string
	OrderNotes    string
}

// ProductDetails enriches cart lines with material/color for the order
// snapshot; missing lookups leave those fields empty.
type ProductDetails func(id string) (material, color string)

// Place writes the order once, incrementing the applied promo's usage
// counter in the same store transaction, then clears and flushes the cart.
// Callers enforce the preconditions: a selected address and a non-empty
// cart.
func (s *Service) Place(ctx context.Context, actor domain.User, cart cartClearer, lines []domain.CartLine, details ProductDetails, in PlaceInput) (*domain.Order, error) {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := domain.OrderItem{
			ID:       line.ID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Image:    line.Image,
		}
		if details != nil {
			item.Material, item.Color = details(line.ID)
		}
		items = append(items, item)
	}

	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          actor.ID,
		UserEmail:       actor.Email,
		UserName:        actor.Name,
		Items:           items,
		DeliveryAddress: in.Address,
		Pricing:         Price(Subtotal(lines), in.Promo),
		PaymentMethod:   in.PaymentMethod,
		OrderNotes:      in.OrderNotes,
		Status:          domain.OrderPending,
	}

	promoID := ""
	if in.Promo != nil {
		order.AppliedPromo = &domain.AppliedPromo{
			ID:              in.Promo.ID,
			Code:            in.Promo.Code,
			DiscountPercent: in.Promo.DiscountPercent,
		}
		promoID = in.Promo.ID
	}

	placed, err := s.orders.Create(ctx, order, promoID)
	if err != nil {
		return nil, err
	}

	cart.ClearCart()
	if err := cart.Flush(ctx); err != nil {
		// The order is already placed; an unflushed empty cart heals on the
		// next mutation's debounce cycle.
		s.logger.WithError(err).WithField("user", actor.ID).Warn("cart clear flush failed after order placement")
	}
	return placed, nil
}

// Orders returns the actor's order history, newest first.
func (s *Service) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Order returns one order, restricted to its owner.
func (s *Service) Order(ctx context.Context, userID, id string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}
