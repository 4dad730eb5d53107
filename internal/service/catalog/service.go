// Package catalog serves the product list from an in-memory cache with a
// "fast partial, then complete, then live" load: a bounded fetch for fast
// first paint, a full fetch, then a snapshot subscription keeping the cache
// current. After the first load the cache is never refetched on access.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"shopcart-api/internal/domain"
)

const (
	// fastPaintLimit bounds the initial fetch.
	fastPaintLimit = 8
	// categoryPageSize bounds category queries, which always hit the store.
	categoryPageSize = 12
	// featuredCount is the size of the featured subset.
	featuredCount = 4
)

type productRepo interface {
	ListLimited(ctx context.Context, limit int) ([]domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Watcher delivers catalog snapshots until its context is cancelled.
type Watcher interface {
	Watch(ctx context.Context) <-chan []domain.Product
}

type Service struct {
	repo    productRepo
	watcher Watcher
	logger  *logrus.Logger

	mu       sync.RWMutex
	products []domain.Product
	loaded   bool
}

func New(repo productRepo, watcher Watcher, logger *logrus.Logger) *Service {
	return &Service{repo: repo, watcher: watcher, logger: logger}
}

// Ensure populates the cache on first call and starts the live
// subscription. Later calls while the cache is loaded are no-ops. The
// partial fetch failing is not fatal as long as the full fetch lands.
func (s *Service) Ensure(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	partial, err := s.repo.ListLimited(ctx, fastPaintLimit)
	if err != nil {
		s.logger.WithError(err).Warn("partial catalog fetch failed")
	} else {
		s.products = partial
	}

	full, err := s.repo.ListAll(ctx)
	if err != nil {
		if len(s.products) == 0 {
			return err
		}
		s.logger.WithError(err).Warn("full catalog fetch failed, serving partial list")
	} else {
		s.products = full
	}
	s.loaded = true

	if s.watcher != nil {
		go s.follow(s.watcher.Watch(context.WithoutCancel(ctx)))
	}
	return nil
}

func (s *Service) follow(updates <-chan []domain.Product) {
	for snapshot := range updates {
		s.mu.Lock()
		s.products = snapshot
		s.mu.Unlock()
	}
}

// Products returns the cached list.
func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...), nil
}

// Get returns one product by id, from the store so a detail view is never
// staler than the document.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Featured returns the top products by rating, highest first.
func (s *Service) Featured(ctx context.Context) ([]domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Rating > products[j].Rating
	})
	if len(products) > featuredCount {
		products = products[:featuredCount]
	}
	return products, nil
}

// Search matches term case-insensitively against name and description over
// the cached list. Linear scan; fine at catalog scale.
func (s *Service) Search(ctx context.Context, term string) ([]domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products, nil
	}
	matches := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// ByCategory issues a fresh bounded store query rather than filtering the
// cache; category pages carry their own pagination.
func (s *Service) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.repo.ListByCategory(ctx, category, categoryPageSize)
}
