package storefront

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/vaishnavid04/Everwear/internal/domain"
	"github.com/vaishnavid04/Everwear/pkg/circuitbreaker"
)

const (
	defaultDebounce = 1200 * time.Millisecond
	pushTimeout     = 10 * time.Second
)

type syncState int

const (
	stateIdle syncState = iota
	stateDirty
	statePushing
)

// Syncer reconciles the replica with the server cart. Every local
// mutation applies to the replica first and arms the debounce timer; a
// burst of mutations within the window collapses into one push. The
// push overwrites the server cart wholesale: clear, then reinsert every
// line. Pushes that fail are retried implicitly by the next mutation.
type Syncer struct {
	store    CartStore
	replica  *Replica
	debounce time.Duration
	breaker  *gobreaker.CircuitBreaker[struct{}]

	mu        sync.Mutex
	state     syncState
	timer     *time.Timer
	lastClear bool
	closed    bool
	wg        sync.WaitGroup
}

// NewSyncer builds a syncer around an existing replica. A zero debounce
// selects the default quiescence window.
func NewSyncer(store CartStore, replica *Replica, debounce time.Duration) *Syncer {
	if debounce == 0 {
		debounce = defaultDebounce
	}
	return &Syncer{
		store:    store,
		replica:  replica,
		debounce: debounce,
		breaker:  circuitbreaker.New[struct{}]("cart-push"),
	}
}

func (s *Syncer) Replica() *Replica {
	return s.replica
}

// Attach pulls the server cart when an anonymous session gains an
// identity. A non-empty server cart replaces the replica in full; no
// merge is attempted. An empty or missing server cart keeps the replica
// and schedules a push so pre-login lines survive the transition.
func (s *Syncer) Attach(ctx context.Context) error {
	cart, err := s.store.GetCart(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Printf("cart pull failed, keeping local replica: %v \n", err)
		return err
	}

	if cart != nil && !cart.IsEmpty() {
		s.replica.Replace(cart)
		s.mu.Lock()
		s.state = stateIdle
		s.lastClear = false
		s.stopTimerLocked()
		s.mu.Unlock()
		return nil
	}

	if !s.replica.IsEmpty() {
		s.markDirty(false)
	}
	return nil
}

// Refresh pulls the server cart outside of identity attach. An empty
// pull means "no authoritative cart yet" and never erases a non-empty
// replica unless the most recent local action was an explicit clear.
func (s *Syncer) Refresh(ctx context.Context) error {
	cart, err := s.store.GetCart(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Printf("cart pull failed, keeping local replica: %v \n", err)
		return err
	}
	if cart == nil || cart.IsEmpty() {
		s.mu.Lock()
		acceptEmpty := s.lastClear
		s.mu.Unlock()
		if !acceptEmpty && !s.replica.IsEmpty() {
			return nil
		}
		if cart == nil {
			cart = domain.NewCart("")
		}
	}
	s.replica.Replace(cart)
	return nil
}

func (s *Syncer) Add(line domain.CartLine) {
	s.replica.Add(line)
	s.markDirty(false)
}

func (s *Syncer) SetQuantity(productID int64, quantity int) bool {
	ok := s.replica.SetQuantity(productID, quantity)
	if ok {
		s.markDirty(false)
	}
	return ok
}

func (s *Syncer) Remove(productID int64) bool {
	ok := s.replica.Remove(productID)
	if ok {
		s.markDirty(false)
	}
	return ok
}

func (s *Syncer) Clear() {
	s.replica.Clear()
	s.markDirty(true)
}

func (s *Syncer) Cart() domain.Cart {
	return s.replica.Snapshot()
}

// CheckoutClear empties both sides after a recorded order. The server
// clear is best-effort: the order already exists, so a stale server
// cart is tolerated and repaired on the next push.
func (s *Syncer) CheckoutClear(ctx context.Context) {
	s.replica.Clear()

	s.mu.Lock()
	s.lastClear = true
	s.state = stateIdle
	s.stopTimerLocked()
	s.mu.Unlock()

	if err := s.call(func() error { return s.clearServer(ctx) }); err != nil {
		log.Printf("server cart clear after checkout failed: %v \n", err)
	}
}

// Flush pushes immediately, bypassing the debounce window.
func (s *Syncer) Flush(ctx context.Context) {
	s.mu.Lock()
	s.stopTimerLocked()
	s.state = statePushing
	s.mu.Unlock()
	s.push(ctx)
}

// Close stops the timer and waits for any in-flight push to finish.
func (s *Syncer) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopTimerLocked()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Syncer) markDirty(clear bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.lastClear = clear
	s.state = stateDirty
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.fire)
}

func (s *Syncer) fire() {
	s.mu.Lock()
	if s.closed || s.state != stateDirty {
		s.mu.Unlock()
		return
	}
	s.state = statePushing
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		s.push(ctx)
	}()
}

// push replaces the server cart with the replica's current lines. Each
// line is sent independently; a failed line logs and the rest continue.
func (s *Syncer) push(ctx context.Context) {
	snapshot := s.replica.Snapshot()

	if err := s.call(func() error { return s.clearServer(ctx) }); err != nil {
		log.Printf("cart push: server clear failed: %v \n", err)
		s.finishPush()
		return
	}

	for _, line := range snapshot.Lines {
		if err := s.call(func() error { return s.store.AddLine(ctx, line) }); err != nil {
			log.Printf("cart push: line %d failed: %v \n", line.ProductID, err)
		}
	}
	s.finishPush()
}

func (s *Syncer) finishPush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == statePushing {
		s.state = stateIdle
	}
}

func (s *Syncer) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// clearServer treats a missing server cart as already cleared, so the
// breaker never counts absence as a failure.
func (s *Syncer) clearServer(ctx context.Context) error {
	if err := s.store.ClearCart(ctx); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func (s *Syncer) call(fn func() error) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
