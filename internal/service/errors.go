package service

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrMissingProduct     = errors.New("order line is missing its product identity")
	ErrInvalidCredentials = errors.New("wrong email or password")
)
