package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/motosync/internal/domain"
)

// memStore is an in-memory Store with real transaction semantics: fn runs
// against a deep copy and the copy only replaces the live state on success.
type memStore struct {
	products   map[int64]*domain.Product
	customers  map[int64]*domain.Customer
	sales      []domain.Sale
	nextSaleID int64

	failCreateSale bool
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[int64]*domain.Product{},
		customers:  map[int64]*domain.Customer{},
		nextSaleID: 1,
	}
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	c.nextSaleID = m.nextSaleID
	c.failCreateSale = m.failCreateSale
	for id, p := range m.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, cu := range m.customers {
		cc := *cu
		c.customers[id] = &cc
	}
	c.sales = append(c.sales, m.sales...)
	return c
}

func (m *memStore) InTransaction(_ context.Context, fn func(tx Store) error) error {
	tx := m.clone()
	if err := fn(tx); err != nil {
		return err
	}
	*m = *tx
	return nil
}

func (m *memStore) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) GetProductForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return m.GetProduct(ctx, id)
}

func (m *memStore) UpdateProductStock(_ context.Context, id int64, newStock int) error {
	p, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Stock = newStock
	return nil
}

func (m *memStore) GetCustomerByRFIDForUpdate(_ context.Context, rfid string) (*domain.Customer, error) {
	for _, c := range m.customers {
		if c.Rfid == rfid {
			cc := *c
			return &cc, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) UpdateCustomerPoints(_ context.Context, id int64, newPoints int) error {
	c, ok := m.customers[id]
	if !ok {
		return ErrNotFound
	}
	c.LoyaltyPoints = newPoints
	return nil
}

func (m *memStore) CreateSale(_ context.Context, sale *domain.Sale) error {
	if m.failCreateSale {
		return errors.New("insert failed")
	}
	sale.ID = m.nextSaleID
	m.nextSaleID++
	m.sales = append(m.sales, *sale)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestStore() *memStore {
	store := newMemStore()
	store.products[1] = &domain.Product{
		ID:         1,
		Name:       "Chain Lube 250ml",
		Srp:        dec("250.00"),
		Stock:      10,
		Category:   domain.CategoryOil,
		SupplierID: 1,
	}
	store.customers[7] = &domain.Customer{
		ID:            7,
		Name:          "Juan Dela Cruz",
		Rfid:          "ABC123",
		LoyaltyPoints: 3,
	}
	return store
}

func TestRecordSaleWalkIn(t *testing.T) {
	store := newTestStore()
	svc := NewService(store, nil)

	detail, err := svc.RecordSale(context.Background(), SaleRequest{
		ProductID:  1,
		Quantity:   2,
		TotalPrice: dec("500.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, 8, store.products[1].Stock)
	assert.Nil(t, detail.Sale.CustomerID)
	assert.Equal(t, "Chain Lube 250ml", detail.ProductName)
	assert.Empty(t, detail.CustomerName)
	assert.Equal(t, 2, detail.Quantity)
	assert.True(t, detail.TotalPrice.Equal(dec("500.00")))
	assert.False(t, detail.Date.IsZero())
	require.Len(t, store.sales, 1)

	// walk-in sale must not touch any loyalty balance
	assert.Equal(t, 3, store.customers[7].LoyaltyPoints)
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	store := newTestStore()
	svc := NewService(store, nil)

	_, err := svc.RecordSale(context.Background(), SaleRequest{
		ProductID:  1,
		Quantity:   20,
		TotalPrice: dec("5000.00"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stock", verr.Field)
	assert.Equal(t, "Not enough stock available.", verr.Message)

	assert.Equal(t, 10, store.products[1].Stock)
	assert.Empty(t, store.sales)
}

func TestRecordSalePriceMismatch(t *testing.T) {
	store := newTestStore()
	svc := NewService(store, nil)

	for _, total := range []string{"499.99", "500.01"} {
		_, err := svc.RecordSale(context.Background(), SaleRequest{
			ProductID:  1,
			Quantity:   2,
			TotalPrice: dec(total),
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "total %s", total)
		assert.Equal(t, "total_price", verr.Field)
		assert.Equal(t, "Total price must equal product price × quantity (₱500.00).", verr.Message)
	}

	assert.Equal(t, 10, store.products[1].Stock)
	assert.Empty(t, store.sales)
}

func TestRecordSaleWithCustomer(t *testing.T) {
	store := newTestStore()
	svc := NewService(store, nil)

	detail, err := svc.RecordSale(context.Background(), SaleRequest{
		ProductID:  1,
		Quantity:   2,
		TotalPrice: dec("500.00"),
		Rfid:       "ABC123",
	})
	require.NoError(t, err)

	// 3 + floor(500/100) = 8
	assert.Equal(t, 8, store.customers[7].LoyaltyPoints)
	require.NotNil(t, detail.Sale.CustomerID)
	assert.Equal(t, int64(7), *detail.Sale.CustomerID)
	assert.Equal(t, "Juan Dela Cruz", detail.CustomerName)
	assert.Equal(t, 8, store.products[1].Stock)
}

func TestRecordSaleLoyaltyTruncation(t *testing.T) {
	store := newTestStore()
	store.products[1].Srp = dec("250.00")
	svc := NewService(store, nil)

	_, err := svc.RecordSale(context.Background(), SaleRequest{
		ProductID:  1,
		Quantity:   1,
		TotalPrice: dec("250.00"),
		Rfid:       "ABC123",
	})
	require.NoError(t, err)

	// floor(250/100) = 2, remainder dropped
	assert.Equal(t, 5, store.customers[7].LoyaltyPoints)
}

func TestRecordSaleCustomerNotFound(t *testing.T) {
	store := newTestStore()
	svc := NewService(store, nil)

	_, err := svc.RecordSale(context.Background(), SaleRequest{
		ProductID:  1,
		Quantity:   2,
		TotalPrice: dec("500.00"),
		Rfid:       "NOTFOUND",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rfid", verr.Field)
	assert.Equal(t, "Customer with this RFID not found.", verr.Message)

	// rejected before any mutation
	assert.Equal(t, 10, store.products[1].Stock)
	assert.Equal(t, 3, store.customers[7].LoyaltyPoints)
	assert.Empty(t, store.sales)
}

func TestRecordSaleProductNotFound(t *testing.T) {
	store := newTestStore()
	svc := NewService(store, nil)

	_, err := svc.RecordSale(context.Background(), SaleRequest{
		ProductID:  999,
		Quantity:   1,
		TotalPrice: dec("250.00"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "product", verr.Field)
	assert.Empty(t, store.sales)
}

func TestRecordSaleInputValidation(t *testing.T) {
	store := newTestStore()
	svc := NewService(store, nil)

	cases := []struct {
		name  string
		req   SaleRequest
		field string
	}{
		{"missing product", SaleRequest{Quantity: 1, TotalPrice: dec("250.00")}, "product"},
		{"zero quantity", SaleRequest{ProductID: 1, Quantity: 0, TotalPrice: dec("250.00")}, "quantity"},
		{"negative quantity", SaleRequest{ProductID: 1, Quantity: -2, TotalPrice: dec("250.00")}, "quantity"},
		{"negative total", SaleRequest{ProductID: 1, Quantity: 1, TotalPrice: dec("-250.00")}, "total_price"},
		{"three decimal places", SaleRequest{ProductID: 1, Quantity: 1, TotalPrice: dec("250.001")}, "total_price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordSale(context.Background(), tc.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	assert.Equal(t, 10, store.products[1].Stock)
	assert.Empty(t, store.sales)
}

func TestRecordSaleRollbackOnInsertFailure(t *testing.T) {
	store := newTestStore()
	store.failCreateSale = true
	svc := NewService(store, nil)

	_, err := svc.RecordSale(context.Background(), SaleRequest{
		ProductID:  1,
		Quantity:   2,
		TotalPrice: dec("500.00"),
		Rfid:       "ABC123",
	})
	require.Error(t, err)

	// stock deduction and loyalty accrual must roll back with the failed insert
	assert.Equal(t, 10, store.products[1].Stock)
	assert.Equal(t, 3, store.customers[7].LoyaltyPoints)
	assert.Empty(t, store.sales)
}
