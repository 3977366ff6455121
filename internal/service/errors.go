package service

import "errors"

var (
	// ErrInitialization: the stored cart could not be loaded and no new cart could be created.
	ErrInitialization = errors.New("cart initialization failed")
	// ErrOperation: a remote cart call failed; the previous snapshot is kept.
	ErrOperation = errors.New("cart operation failed")
	// ErrNoCart: the operation needs a cart and none could be obtained.
	ErrNoCart          = errors.New("no cart available")
	ErrNoCheckout      = errors.New("cart has no checkout url")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)
