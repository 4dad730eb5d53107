package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"shopcart-api/internal/domain"
)

type stubStore struct {
	mu stdsync.Mutex

	cart      []domain.CartLine
	cartErr   error
	favorites []domain.FavoriteItem
	favErr    error

	putCartErr error

	cartPuts [][]domain.CartLine
	favPuts  [][]domain.FavoriteItem
	putUsers []string
}

func (s *stubStore) GetCart(_ context.Context, _ string) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cartErr != nil {
		return nil, s.cartErr
	}
	return s.cart, nil
}

func (s *stubStore) PutCart(_ context.Context, userID string, lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putCartErr != nil {
		err := s.putCartErr
		s.putCartErr = nil
		return err
	}
	s.cartPuts = append(s.cartPuts, lines)
	s.putUsers = append(s.putUsers, userID)
	return nil
}

func (s *stubStore) GetFavorites(_ context.Context, _ string) ([]domain.FavoriteItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.favErr != nil {
		return nil, s.favErr
	}
	return s.favorites, nil
}

func (s *stubStore) PutFavorites(_ context.Context, userID string, items []domain.FavoriteItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favPuts = append(s.favPuts, items)
	s.putUsers = append(s.putUsers, userID)
	return nil
}

func (s *stubStore) DeleteAll(_ context.Context, _ string) error { return nil }

func (s *stubStore) cartPutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cartPuts)
}

func (s *stubStore) lastCartPut() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cartPuts) == 0 {
		return nil
	}
	return s.cartPuts[len(s.cartPuts)-1]
}

func (s *stubStore) favPutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.favPuts)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

const testDelay = 20 * time.Millisecond

// settle waits long enough for any armed debounce timer to fire.
func settle() {
	time.Sleep(testDelay * 4)
}

func newBound(t *testing.T, store *stubStore) *Synchronizer {
	t.Helper()
	s := New(store, testDelay, quietLogger())
	s.Bind(context.Background(), "u1")
	if s.State() != StateSynced {
		t.Fatalf("expected synced after bind, got %v", s.State())
	}
	return s
}

func TestBindMaterializesBaselineWithoutWriting(t *testing.T) {
	store := &stubStore{
		cart:      []domain.CartLine{{ID: "p1", Name: "Table", Price: 250000, Quantity: 2}},
		favorites: []domain.FavoriteItem{{ID: "p2", Name: "Chair"}},
	}
	s := newBound(t, store)

	if got := s.Cart(); len(got) != 1 || got[0].Quantity != 2 {
		t.Fatalf("unexpected cart baseline: %+v", got)
	}
	if got := s.Favorites(); len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("unexpected favorites baseline: %+v", got)
	}

	settle()
	if store.cartPutCount() != 0 || store.favPutCount() != 0 {
		t.Fatalf("baseline load must not write, got %d cart puts %d fav puts",
			store.cartPutCount(), store.favPutCount())
	}
}

func TestBindMissingDocumentsStartEmpty(t *testing.T) {
	store := &stubStore{cartErr: domain.ErrNotFound, favErr: domain.ErrNotFound}
	s := newBound(t, store)
	if len(s.Cart()) != 0 || len(s.Favorites()) != 0 {
		t.Fatalf("expected empty lists, got cart=%v favorites=%v", s.Cart(), s.Favorites())
	}
}

func TestBindReadFailureStartsEmpty(t *testing.T) {
	store := &stubStore{cartErr: errors.New("store down")}
	s := newBound(t, store)
	if len(s.Cart()) != 0 {
		t.Fatalf("expected empty cart after read failure, got %v", s.Cart())
	}
}

func TestAddToCartDedupesByProductID(t *testing.T) {
	store := &stubStore{cartErr: domain.ErrNotFound, favErr: domain.ErrNotFound}
	s := newBound(t, store)

	p := domain.Product{ID: "p1", Name: "Table", Price: 250000, MainImage: "img"}
	s.AddToCart(p)
	s.AddToCart(p)

	cart := s.Cart()
	if len(cart) != 1 {
		t.Fatalf("expected one line, got %d", len(cart))
	}
	if cart[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", cart[0].Quantity)
	}
	if cart[0].Image != "img" {
		t.Fatalf("expected line image from product, got %q", cart[0].Image)
	}
}

func TestMutationsCoalesceIntoOneWrite(t *testing.T) {
	store := &stubStore{cartErr: domain.ErrNotFound, favErr: domain.ErrNotFound}
	s := newBound(t, store)

	s.AddToCart(domain.Product{ID: "p1", Price: 100})
	s.AddToCart(domain.Product{ID: "p2", Price: 200})
	s.SetQuantity("p1", 3)

	settle()

	if got := store.cartPutCount(); got != 1 {
		t.Fatalf("expected exactly one cart write, got %d", got)
	}
	lines := store.lastCartPut()
	if len(lines) != 2 {
		t.Fatalf("expected two lines in flushed document, got %+v", lines)
	}
	if lines[0].ID != "p1" || lines[0].Quantity != 3 {
		t.Fatalf("flushed document missing coalesced quantity: %+v", lines)
	}
}

func TestSetQuantityBelowOneIgnored(t *testing.T) {
	store := &stubStore{cartErr: domain.ErrNotFound, favErr: domain.ErrNotFound}
	s := newBound(t, store)

	s.AddToCart(domain.Product{ID: "p1"})
	settle()
	before := store.cartPutCount()

	s.SetQuantity("p1", 0)
	s.SetQuantity("p1", -2)
	settle()

	if got := s.Cart()[0].Quantity; got != 1 {
		t.Fatalf("quantity changed by invalid set: %d", got)
	}
	if store.cartPutCount() != before {
		t.Fatalf("invalid set must not trigger a write")
	}
}

func TestRemoveFromCartAndClear(t *testing.T) {
	store := &stubStore{cartErr: domain.ErrNotFound, favErr: domain.ErrNotFound}
	s := newBound(t, store)

	s.AddToCart(domain.Product{ID: "p1"})
	s.AddToCart(domain.Product{ID: "p2"})
	s.RemoveFromCart("p1")
	if s.IsInCart("p1") {
		t.Fatalf("p1 still in cart after remove")
	}

	s.ClearCart()
	if len(s.Cart()) != 0 {
		t.Fatalf("cart not empty after clear: %v", s.Cart())
	}

	settle()
	if got := store.lastCartPut(); len(got) != 0 {
		t.Fatalf("flushed document should be empty, got %+v", got)
	}
}

func TestFavoritesDedupeAndStatus(t *testing.T) {
	store := &stubStore{cartErr: domain.ErrNotFound, favErr: domain.ErrNotFound}
	s := newBound(t, store)

	s.AddFavorite(domain.FavoriteItem{ID: "p1", Stock: 3})
	s.AddFavorite(domain.FavoriteItem{ID: "p1", Stock: 3})
	s.AddFavorite(domain.FavoriteItem{ID: "p2", Stock: 0})

	favs := s.Favorites()
	if len(favs) != 2 {
		t.Fatalf("expected two favorites, got %+v", favs)
	}
	if favs[0].Status != domain.StatusInStock {
		t.Fatalf("expected in-stock status, got %q", favs[0].Status)
	}
	if favs[1].Status != domain.StatusOutOfStock {
		t.Fatalf("expected out-of-stock status, got %q", favs[1].Status)
	}
	if !s.IsFavorite("p2") || s.IsFavorite("p9") {
		t.Fatalf("favorite membership wrong")
	}
}

func TestMutationsIgnoredWhileUnbound(t *testing.T) {
	store := &stubStore{}
	s := New(store, testDelay, quietLogger())

	s.AddToCart(domain.Product{ID: "p1"})
	s.AddFavorite(domain.FavoriteItem{ID: "p1"})

	if len(s.Cart()) != 0 || len(s.Favorites()) != 0 {
		t.Fatalf("unbound mutations must be ignored")
	}
	settle()
	if store.cartPutCount() != 0 || store.favPutCount() != 0 {
		t.Fatalf("unbound mutations must not write")
	}
}

func TestUnbindDropsPendingWrite(t *testing.T) {
	store := &stubStore{cartErr: domain.ErrNotFound, favErr: domain.ErrNotFound}
	s := newBound(t, store)

	s.AddToCart(domain.Product{ID: "p1"})
	s.Unbind()

	settle()
	if store.cartPutCount() != 0 {
		t.Fatalf("pending write survived unbind")
	}
	if s.State() != StateUnbound || len(s.Cart()) != 0 {
		t.Fatalf("unbind did not clear state")
	}
}

func TestRebindSuppressesStaleFlush(t *testing.T) {
	store := &stubStore{cartErr: domain.ErrNotFound, favErr: domain.ErrNotFound}
	s := newBound(t, store)

	s.AddToCart(domain.Product{ID: "p1"})
	s.Bind(context.Background(), "u2")

	settle()
	for _, u := range store.putUsers {
		if u == "u1" {
			t.Fatalf("stale flush wrote for previous actor")
		}
	}
	if len(s.Cart()) != 0 {
		t.Fatalf("previous actor's cart leaked across rebind: %v", s.Cart())
	}
}

func TestFlushWritesSynchronously(t *testing.T) {
	store := &stubStore{cartErr: domain.ErrNotFound, favErr: domain.ErrNotFound}
	s := newBound(t, store)

	s.AddToCart(domain.Product{ID: "p1"})
	if !s.Pending() {
		t.Fatalf("expected pending after mutation")
	}

	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if store.cartPutCount() != 1 {
		t.Fatalf("flush did not write, puts=%d", store.cartPutCount())
	}
	if s.Pending() {
		t.Fatalf("still pending after flush")
	}

	settle()
	if store.cartPutCount() != 1 {
		t.Fatalf("debounce timer fired again after flush")
	}
}

func TestFailedWriteRecoveredByNextFlush(t *testing.T) {
	store := &stubStore{
		cartErr:    domain.ErrNotFound,
		favErr:     domain.ErrNotFound,
		putCartErr: errors.New("store down"),
	}
	s := newBound(t, store)

	s.AddToCart(domain.Product{ID: "p1"})
	settle()
	if store.cartPutCount() != 0 {
		t.Fatalf("expected first write to fail")
	}

	s.AddToCart(domain.Product{ID: "p2"})
	settle()

	lines := store.lastCartPut()
	if len(lines) != 2 {
		t.Fatalf("overwrite after failure must carry the full document, got %+v", lines)
	}
}

func TestDerivedValues(t *testing.T) {
	store := &stubStore{
		cart: []domain.CartLine{
			{ID: "p1", Price: 50000, Quantity: 2},
			{ID: "p2", Price: 30000, Quantity: 1},
		},
		favErr: domain.ErrNotFound,
	}
	s := newBound(t, store)

	if got := s.CartTotal(); got != 130000 {
		t.Fatalf("expected total 130000, got %v", got)
	}
	if got := s.ItemCount(); got != 3 {
		t.Fatalf("expected 3 items, got %d", got)
	}
	if !s.IsInCart("p1") || s.IsInCart("p9") {
		t.Fatalf("cart membership wrong")
	}
}
