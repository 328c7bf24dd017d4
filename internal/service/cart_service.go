package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/vaishnavid04/Everwear/internal/cache"
	"github.com/vaishnavid04/Everwear/internal/domain"
	"github.com/vaishnavid04/Everwear/internal/repository"
	"golang.org/x/sync/singleflight"
)

// CartService is the server-of-record for carts. Every mutation goes
// read-modify-write against the repository (a single document replace
// is atomic there) and invalidates the cache afterwards.
type CartService struct {
	repo  repository.CartRepository
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: cache,
	}
}

// GetCart returns the owner's cart. An absent cart is a valid initial
// state and comes back as an empty cart, not an error.
func (s *CartService) GetCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(ownerID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, ownerID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, ownerID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) {
			return domain.NewCart(ownerID), nil
		}
		if errGet != nil {
			return nil, errGet // err from repo is not cache miss, return it
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), ownerID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return cart, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddLine merges the line into the owner's cart by variant key and
// creates the cart lazily on first mutation. The line carries its own
// snapshot of name/price/image so no catalog lookup is needed here.
func (s *CartService) AddLine(ctx context.Context, ownerID string, line domain.CartLine) (*domain.Cart, error) {
	cart, err := s.loadForUpdate(ctx, ownerID)
	if err != nil {
		log.Printf("repo get cart error: %v \n", err)
		return nil, err
	}

	cart.AddLine(line)

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo add line error: %v \n", err)
		return nil, err
	}

	invalidateCache(s, ownerID)
	return cart, nil
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less
// removes the line; that is a normal outcome, not an error.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerID string, productID int64, quantity int) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			log.Printf("repo get cart error: %v \n", err)
		}
		return nil, err
	}

	if !cart.SetQuantity(productID, quantity) {
		return nil, repository.ErrLineNotFound
	}

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo update quantity error: %v \n", err)
		return nil, err
	}

	invalidateCache(s, ownerID)
	return cart, nil
}

func (s *CartService) RemoveLine(ctx context.Context, ownerID string, productID int64) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			log.Printf("repo get cart error: %v \n", err)
		}
		return nil, err
	}

	if !cart.RemoveLine(productID) {
		return nil, repository.ErrLineNotFound
	}

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo remove line error: %v \n", err)
		return nil, err
	}

	invalidateCache(s, ownerID)
	return cart, nil
}

// ClearCart empties the cart. A cart that never existed is a benign
// no-op: absence is a valid initial state.
func (s *CartService) ClearCart(ctx context.Context, ownerID string) error {
	err := s.repo.ClearCart(ctx, ownerID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		log.Printf("repo clear cart error: %v \n", err)
		return err
	}

	invalidateCache(s, ownerID)
	return nil
}

func (s *CartService) loadForUpdate(ctx context.Context, ownerID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, ownerID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return domain.NewCart(ownerID), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func invalidateCache(s *CartService, ownerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, ownerID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
