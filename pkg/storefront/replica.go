package storefront

import (
	"sync"

	"github.com/vaishnavid04/Everwear/internal/domain"
)

// Replica is the optimistic local cart. Mutations apply synchronously
// under the lock and recompute totals; the syncer pushes the result to
// the server later.
type Replica struct {
	mu   sync.RWMutex
	cart *domain.Cart
}

func NewReplica(ownerID string) *Replica {
	return &Replica{cart: domain.NewCart(ownerID)}
}

func (r *Replica) Add(line domain.CartLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.AddLine(line)
}

// SetQuantity reports whether the line existed. Quantities at or below
// zero remove the line.
func (r *Replica) SetQuantity(productID int64, quantity int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.SetQuantity(productID, quantity)
}

func (r *Replica) Remove(productID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.RemoveLine(productID)
}

func (r *Replica) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.Clear()
}

// Replace swaps in a server cart wholesale, keeping the local owner.
func (r *Replica) Replace(cart *domain.Cart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner := r.cart.OwnerID
	copied := *cart
	copied.OwnerID = owner
	copied.Lines = append([]domain.CartLine(nil), cart.Lines...)
	r.cart = &copied
}

// Snapshot returns a deep copy safe to read and push without the lock.
func (r *Replica) Snapshot() domain.Cart {
	r.mu.RLock()
	defer r.mu.RUnlock()
	copied := *r.cart
	copied.Lines = append([]domain.CartLine(nil), r.cart.Lines...)
	return copied
}

func (r *Replica) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cart.IsEmpty()
}
