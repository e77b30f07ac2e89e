package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOutOfStock        = errors.New("out of stock")
	ErrEmptyCart         = errors.New("cart is empty")
)

type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InsufficientStockError is the optimistic add-to-cart rejection.
type InsufficientStockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// OutOfStockError is raised inside checkout and always aborts the whole order.
type OutOfStockError struct {
	ProductID uint
	Name      string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %d (%s) is out of stock", e.ProductID, e.Name)
}

func (e *OutOfStockError) Is(target error) bool { return target == ErrOutOfStock }

func notFound(resource string, id any) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
