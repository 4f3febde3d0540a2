package pos

import (
	"context"
	"errors"

	"github.com/talkincode/motosync/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the transactional data access contract consumed by the sale
// transaction processor. ForUpdate lookups must hold a row lock until the
// surrounding transaction ends so that concurrent sales against the same
// product or customer serialize on the check-and-update.
type Store interface {
	// InTransaction runs fn inside a single transaction; any error from fn
	// rolls back every mutation made through the Store passed to fn.
	InTransaction(ctx context.Context, fn func(tx Store) error) error

	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	UpdateProductStock(ctx context.Context, id int64, newStock int) error

	GetCustomerByRFIDForUpdate(ctx context.Context, rfid string) (*domain.Customer, error)
	UpdateCustomerPoints(ctx context.Context, id int64, newPoints int) error

	CreateSale(ctx context.Context, sale *domain.Sale) error
}

// GormStore is the GORM implementation of Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *GormStore) GetProductForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *GormStore) UpdateProductStock(ctx context.Context, id int64, newStock int) error {
	return s.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Update("stock", newStock).Error
}

func (s *GormStore) GetCustomerByRFIDForUpdate(ctx context.Context, rfid string) (*domain.Customer, error) {
	var customer domain.Customer
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("rfid = ?", rfid).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *GormStore) UpdateCustomerPoints(ctx context.Context, id int64, newPoints int) error {
	return s.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id = ?", id).
		Update("loyalty_points", newPoints).Error
}

func (s *GormStore) CreateSale(ctx context.Context, sale *domain.Sale) error {
	return s.db.WithContext(ctx).Create(sale).Error
}
