// Package sync keeps an actor's cart and favorites lists consistent between
// in-memory state and one stored document per actor per list, with minimal
// write traffic. Mutations update memory synchronously and arm a debounce
// timer; mutations inside the window coalesce into a single full-document
// overwrite per dirty list.
package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"time"

	"github.com/sirupsen/logrus"

	"shopcart-api/internal/domain"
	"shopcart-api/internal/repository/listdoc"
)

// State of a synchronizer with respect to its actor binding.
type State int

const (
	// StateUnbound: no actor identity; lists are empty, writes suppressed.
	StateUnbound State = iota
	// StateLoading: the initial read of the actor's documents is in flight.
	StateLoading
	// StateSynced: the baseline is materialized; mutations may trigger writes.
	StateSynced
)

const defaultWriteTimeout = 10 * time.Second

// Synchronizer owns one actor's cart and favorites lists.
type Synchronizer struct {
	store        listdoc.Repository
	logger       *logrus.Logger
	delay        time.Duration
	writeTimeout time.Duration

	mu        stdsync.Mutex
	state     State
	userID    string
	gen       int
	cart      []domain.CartLine
	favorites []domain.FavoriteItem
	cartDirty bool
	favDirty  bool
	timer     *time.Timer
}

// New returns an unbound Synchronizer flushing after delay.
func New(store listdoc.Repository, delay time.Duration, logger *logrus.Logger) *Synchronizer {
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Synchronizer{
		store:        store,
		logger:       logger,
		delay:        delay,
		writeTimeout: defaultWriteTimeout,
	}
}

// Bind attaches the synchronizer to an actor and materializes the stored
// baseline. A missing document or a read failure both yield an empty list;
// a read failure is logged but never blocks the binding. The materialized
// baseline itself never triggers a write. Any unflushed state of a previous
// binding is discarded, not merged.
func (s *Synchronizer) Bind(ctx context.Context, userID string) {
	s.mu.Lock()
	s.detachLocked()
	s.userID = userID
	s.gen++
	gen := s.gen
	s.state = StateLoading
	s.cart, s.favorites = nil, nil
	s.mu.Unlock()

	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WithError(err).WithField("user", userID).Warn("cart load failed, starting empty")
		}
		cart = nil
	}
	favorites, err := s.store.GetFavorites(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WithError(err).WithField("user", userID).Warn("favorites load failed, starting empty")
		}
		favorites = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// Rebound or unbound while loading; this baseline is stale.
		return
	}
	s.cart = cart
	s.favorites = favorites
	s.state = StateSynced
}

// Unbind detaches the actor: lists are emptied and any pending write for
// the previous actor is dropped.
func (s *Synchronizer) Unbind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detachLocked()
	s.gen++
	s.userID = ""
	s.state = StateUnbound
	s.cart, s.favorites = nil, nil
}

// State reports the current binding state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UserID reports the bound actor, empty when unbound.
func (s *Synchronizer) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// AddToCart appends a line with quantity 1, or increments the quantity of
// the existing line for the same product id. Stock is validated by the
// caller, not here.
func (s *Synchronizer) AddToCart(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSynced {
		return
	}
	for i := range s.cart {
		if s.cart[i].ID == p.ID {
			s.cart[i].Quantity++
			s.markCartLocked()
			return
		}
	}
	s.cart = append(s.cart, domain.CartLine{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: 1,
		Image:    p.MainImage,
	})
	s.markCartLocked()
}

// RemoveFromCart deletes the matching line; no-op if absent.
func (s *Synchronizer) RemoveFromCart(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSynced {
		return
	}
	for i := range s.cart {
		if s.cart[i].ID == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			s.markCartLocked()
			return
		}
	}
}

// SetQuantity overwrites the quantity of an existing line. Values below 1
// are ignored; callers remove lines instead of zeroing them.
func (s *Synchronizer) SetQuantity(id string, n int) {
	if n < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSynced {
		return
	}
	for i := range s.cart {
		if s.cart[i].ID == id {
			if s.cart[i].Quantity != n {
				s.cart[i].Quantity = n
				s.markCartLocked()
			}
			return
		}
	}
}

// ClearCart empties the cart immediately; used after an order is placed.
func (s *Synchronizer) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSynced || len(s.cart) == 0 {
		return
	}
	s.cart = nil
	s.markCartLocked()
}

// AddFavorite inserts the item unless one with the same id exists. Status
// is recomputed from Stock at write time regardless of the value passed in.
func (s *Synchronizer) AddFavorite(item domain.FavoriteItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSynced {
		return
	}
	for i := range s.favorites {
		if s.favorites[i].ID == item.ID {
			return
		}
	}
	item.Status = domain.FavoriteStatus(item.Stock)
	s.favorites = append(s.favorites, item)
	s.favDirty = true
	s.armLocked()
}

// RemoveFavorite deletes the matching item; no-op if absent.
func (s *Synchronizer) RemoveFavorite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSynced {
		return
	}
	for i := range s.favorites {
		if s.favorites[i].ID == id {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			s.favDirty = true
			s.armLocked()
			return
		}
	}
}

// Cart returns a copy of the cart lines.
func (s *Synchronizer) Cart() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLine(nil), s.cart...)
}

// Favorites returns a copy of the favorite items.
func (s *Synchronizer) Favorites() []domain.FavoriteItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FavoriteItem(nil), s.favorites...)
}

// CartTotal is the sum of price times quantity over all lines. Derived on
// every call, never stored.
func (s *Synchronizer) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, line := range s.cart {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities over all cart lines.
func (s *Synchronizer) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, line := range s.cart {
		count += line.Quantity
	}
	return count
}

// IsInCart reports whether a line for the product id exists.
func (s *Synchronizer) IsInCart(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.cart {
		if line.ID == id {
			return true
		}
	}
	return false
}

// IsFavorite reports whether a favorite with the product id exists.
func (s *Synchronizer) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.favorites {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Pending reports whether a mutation is waiting to be flushed.
func (s *Synchronizer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartDirty || s.favDirty
}

// Flush writes all dirty lists synchronously. The clean-shutdown path and
// checkout use it instead of waiting for the debounce timer.
func (s *Synchronizer) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	userID, cart, favorites, doCart, doFav := s.takeDirtyLocked()
	s.mu.Unlock()

	return s.write(ctx, userID, cart, favorites, doCart, doFav)
}

func (s *Synchronizer) markCartLocked() {
	s.cartDirty = true
	s.armLocked()
}

// armLocked starts or re-starts the debounce timer. The binding generation
// is captured so a flush scheduled for a previous actor can never write.
func (s *Synchronizer) armLocked() {
	gen := s.gen
	if s.timer == nil {
		s.timer = time.AfterFunc(s.delay, func() { s.flushDebounced(gen) })
		return
	}
	s.timer.Reset(s.delay)
}

func (s *Synchronizer) flushDebounced(gen int) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	userID, cart, favorites, doCart, doFav := s.takeDirtyLocked()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	// A failed write is logged only. There is no retry queue: the next
	// mutation re-arms the timer and the full-document overwrite carries the
	// lost delta with it.
	if err := s.write(ctx, userID, cart, favorites, doCart, doFav); err != nil {
		s.logger.WithError(err).WithField("user", userID).Warn("list flush failed")
	}
}

func (s *Synchronizer) takeDirtyLocked() (userID string, cart []domain.CartLine, favorites []domain.FavoriteItem, doCart, doFav bool) {
	userID = s.userID
	doCart, doFav = s.cartDirty, s.favDirty
	if doCart {
		cart = append([]domain.CartLine(nil), s.cart...)
	}
	if doFav {
		favorites = append([]domain.FavoriteItem(nil), s.favorites...)
	}
	s.cartDirty, s.favDirty = false, false
	return userID, cart, favorites, doCart, doFav
}

func (s *Synchronizer) write(ctx context.Context, userID string, cart []domain.CartLine, favorites []domain.FavoriteItem, doCart, doFav bool) error {
	if doCart {
		if err := s.store.PutCart(ctx, userID, cart); err != nil {
			return err
		}
	}
	if doFav {
		if err := s.store.PutFavorites(ctx, userID, favorites); err != nil {
			return err
		}
	}
	return nil
}

func (s *Synchronizer) detachLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.cartDirty, s.favDirty = false, false
}
