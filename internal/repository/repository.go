package repository

import (
	"context"
	"errors"

	"github.com/vaishnavid04/Everwear/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrLineNotFound = errors.New("line not found in cart")
)

// CartRepository is the durable server-of-record for carts.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	ClearCart(ctx context.Context, ownerID string) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

type InquiryRepository interface {
	SaveInquiry(ctx context.Context, inquiry *domain.Inquiry) error
	ListInquiries(ctx context.Context) ([]domain.Inquiry, error)
	ListInquiriesByOwner(ctx context.Context, ownerID string) ([]domain.Inquiry, error)
}
