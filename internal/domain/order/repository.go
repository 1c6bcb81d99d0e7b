// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no order has the requested id
var ErrNotFound = errors.New("order not found")

// Backend is the order table on the hosted backend
type Backend interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
}

// Repository is the gorm implementation of Backend
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new order repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order row
func (r *Repository) Create(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// List returns every order, newest first
func (r *Repository) List(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Get returns a single order
func (r *Repository) Get(ctx context.Context, id string) (*Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// UpdateStatus changes the status of a single order
func (r *Repository) UpdateStatus(ctx context.Context, id string, status OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
