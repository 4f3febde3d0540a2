package pos

import (
	"context"
	"errors"
	"strings"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/shopspring/decimal"
	"github.com/talkincode/motosync/internal/domain"
	"go.uber.org/zap"
)

// SaleCreatedTopic is published on the event bus after a sale commits.
const SaleCreatedTopic = "sale:created"

// pointsPerUnit is the currency amount that earns one loyalty point.
var pointsPerUnit = decimal.NewFromInt(100)

// SaleRequest is a sale as submitted by the point-of-sale terminal.
// TotalPrice is the terminal-computed total; it is never trusted and must
// match the server-side recomputation exactly.
type SaleRequest struct {
	ProductID  int64           `json:"product,string"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Rfid       string          `json:"rfid,omitempty"`
}

// SaleDetail is a created sale with names resolved for display.
type SaleDetail struct {
	domain.Sale
	ProductName  string `json:"product_name"`
	CustomerName string `json:"customer_name,omitempty"`
}

// Service is the sale transaction processor.
type Service struct {
	store Store
	bus   evbus.Bus
}

// NewService creates a sale transaction processor. bus may be nil when no
// event subscribers are wired (tests).
func NewService(store Store, bus evbus.Bus) *Service {
	return &Service{store: store, bus: bus}
}

// RecordSale validates and applies one sale as a single atomic unit:
// stock check and decrement, exact price validation, loyalty accrual for the
// RFID-resolved customer, and sale insert. On any error nothing is persisted.
func (s *Service) RecordSale(ctx context.Context, req SaleRequest) (*SaleDetail, error) {
	if req.ProductID == 0 {
		return nil, &ValidationError{Field: "product", Message: "Product is required."}
	}
	if req.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "Quantity must be a positive integer."}
	}
	if req.TotalPrice.IsNegative() {
		return nil, &ValidationError{Field: "total_price", Message: "Total price must not be negative."}
	}
	if req.TotalPrice.Exponent() < -2 {
		return nil, &ValidationError{Field: "total_price", Message: "Total price must have at most 2 decimal places."}
	}

	var detail *SaleDetail
	err := s.store.InTransaction(ctx, func(tx Store) error {
		var customer *domain.Customer
		if rfid := strings.TrimSpace(req.Rfid); rfid != "" {
			c, err := tx.GetCustomerByRFIDForUpdate(ctx, rfid)
			if errors.Is(err, ErrNotFound) {
				return errCustomerNotFound()
			} else if err != nil {
				return err
			}
			customer = c
		}

		product, err := tx.GetProductForUpdate(ctx, req.ProductID)
		if errors.Is(err, ErrNotFound) {
			return errProductNotFound()
		} else if err != nil {
			return err
		}

		if product.Stock < req.Quantity {
			return errInsufficientStock()
		}

		expected := product.Srp.Mul(decimal.NewFromInt(int64(req.Quantity)))
		if !req.TotalPrice.Equal(expected) {
			return errPriceMismatch(expected)
		}

		if err := tx.UpdateProductStock(ctx, product.ID, product.Stock-req.Quantity); err != nil {
			return err
		}

		var customerID *int64
		var customerName string
		if customer != nil {
			// 1 point per 100 currency units, remainder truncated. Uses the
			// validated terminal total, which equals the recomputed price.
			earned := int(req.TotalPrice.Div(pointsPerUnit).IntPart())
			if err := tx.UpdateCustomerPoints(ctx, customer.ID, customer.LoyaltyPoints+earned); err != nil {
				return err
			}
			id := customer.ID
			customerID = &id
			customerName = customer.Name
		}

		sale := &domain.Sale{
			ProductID:  product.ID,
			CustomerID: customerID,
			Quantity:   req.Quantity,
			TotalPrice: req.TotalPrice,
			Date:       time.Now(),
		}
		if err := tx.CreateSale(ctx, sale); err != nil {
			return err
		}

		detail = &SaleDetail{
			Sale:         *sale,
			ProductName:  product.Name,
			CustomerName: customerName,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("sale recorded",
		zap.Int64("sale_id", detail.ID),
		zap.Int64("product_id", detail.Sale.ProductID),
		zap.Int("quantity", detail.Quantity),
		zap.String("total_price", detail.TotalPrice.StringFixed(2)))

	if s.bus != nil {
		s.bus.Publish(SaleCreatedTopic, detail)
	}
	return detail, nil
}
