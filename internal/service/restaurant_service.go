package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/account"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/metrics"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/models"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/repository"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/restaurant"
)

const tracerName = "github.com/Lixing-Zhang/restaurant-ledger/internal/service"

// RestaurantService runs restaurant operations against the shared registry.
// It resolves capabilities, moves coins and invoices between owners, and
// leaves the state rules to package restaurant.
type RestaurantService struct {
	restaurants  repository.RestaurantRepository
	capabilities repository.CapabilityRepository
	wallets      repository.WalletRepository
	metrics      metrics.Recorder
	log          *slog.Logger
	tracer       trace.Tracer
}

// Option configures a RestaurantService
type Option func(*RestaurantService)

// WithTracerProvider makes the service trace through tp instead of the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *RestaurantService) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(
	restaurants repository.RestaurantRepository,
	capabilities repository.CapabilityRepository,
	wallets repository.WalletRepository,
	recorder metrics.Recorder,
	log *slog.Logger,
	opts ...Option,
) *RestaurantService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	s := &RestaurantService{
		restaurants:  restaurants,
		capabilities: capabilities,
		wallets:      wallets,
		metrics:      recorder,
		log:          log,
		tracer:       otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRestaurant registers a restaurant and hands its capability to recipient
func (s *RestaurantService) CreateRestaurant(ctx context.Context, recipient account.Address) (resp *models.CreateRestaurantResponse, err error) {
	ctx, span := s.start(ctx, "create_restaurant")
	defer func() { s.finish(span, "create_restaurant", err) }()

	if recipient.IsZero() {
		return nil, account.ErrInvalidAddress
	}

	r, m := restaurant.New()
	if err := s.restaurants.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("registering restaurant: %w", err)
	}
	// no restaurant stays registered unless its capability reached the recipient
	issue := context.WithoutCancel(ctx)
	if err := s.capabilities.Register(issue, m); err != nil {
		return nil, s.rollbackCreate(issue, r.ID, m.ID, fmt.Errorf("registering capability: %w", err))
	}
	if err := s.wallets.TransferManagement(issue, recipient, m); err != nil {
		return nil, s.rollbackCreate(issue, r.ID, m.ID, fmt.Errorf("transferring capability: %w", err))
	}

	span.SetAttributes(attribute.String("restaurant.id", r.ID.String()))
	s.log.Info("restaurant created",
		"restaurant_id", r.ID,
		"owner", recipient,
	)

	return &models.CreateRestaurantResponse{
		RestaurantID: r.ID,
		Management:   m,
		Owner:        recipient,
	}, nil
}

// rollbackCreate removes a half-created restaurant and its capability.
// Cleanup failures are joined onto cause.
func (s *RestaurantService) rollbackCreate(ctx context.Context, restaurantID, managementID uuid.UUID, cause error) error {
	errs := []error{cause}
	if err := s.capabilities.Delete(ctx, managementID); err != nil && !errors.Is(err, repository.ErrManagementNotFound) {
		errs = append(errs, fmt.Errorf("removing capability: %w", err))
	}
	if err := s.restaurants.Delete(ctx, restaurantID); err != nil {
		errs = append(errs, fmt.Errorf("removing restaurant: %w", err))
	}
	s.log.Error("restaurant creation rolled back", "restaurant_id", restaurantID, "error", cause)
	return errors.Join(errs...)
}

// AddProduct appends a product to the restaurant's menu
func (s *RestaurantService) AddProduct(ctx context.Context, restaurantID, token uuid.UUID, req models.AddProductRequest) (id uint64, err error) {
	ctx, span := s.start(ctx, "add_product", attribute.String("restaurant.id", restaurantID.String()))
	defer func() { s.finish(span, "add_product", err) }()

	m, err := s.authorize(ctx, token)
	if err != nil {
		return 0, err
	}

	err = s.restaurants.Update(ctx, restaurantID, func(r *restaurant.Restaurant) error {
		var err error
		id, err = r.AddProduct(m, req.Title, req.Description, req.Price, req.Supply, req.Category)
		return err
	})
	if err != nil {
		s.log.Warn("add product rejected", "restaurant_id", restaurantID, "error", err)
		return 0, err
	}

	s.log.Info("product added",
		"restaurant_id", restaurantID,
		"product_id", id,
		"price", req.Price,
		"supply", req.Supply,
	)
	return id, nil
}

// RemoveProductFromStock takes a product off sale
func (s *RestaurantService) RemoveProductFromStock(ctx context.Context, restaurantID, token uuid.UUID, productID uint64) error {
	return s.manageProduct(ctx, "remove_product_from_stock", restaurantID, token, productID,
		func(r *restaurant.Restaurant, m restaurant.Management) error {
			return r.RemoveProductFromStock(m, productID)
		})
}

// RestockProduct puts a product back on sale
func (s *RestaurantService) RestockProduct(ctx context.Context, restaurantID, token uuid.UUID, productID uint64) error {
	return s.manageProduct(ctx, "restock_product", restaurantID, token, productID,
		func(r *restaurant.Restaurant, m restaurant.Management) error {
			return r.RestockProduct(m, productID)
		})
}

// ChangeProductCategory sets a product's category code
func (s *RestaurantService) ChangeProductCategory(ctx context.Context, restaurantID, token uuid.UUID, productID uint64, category uint8) error {
	return s.manageProduct(ctx, "change_product_category", restaurantID, token, productID,
		func(r *restaurant.Restaurant, m restaurant.Management) error {
			return r.ChangeProductCategory(m, productID, category)
		})
}

func (s *RestaurantService) manageProduct(
	ctx context.Context,
	op string,
	restaurantID, token uuid.UUID,
	productID uint64,
	fn func(*restaurant.Restaurant, restaurant.Management) error,
) (err error) {
	ctx, span := s.start(ctx, op,
		attribute.String("restaurant.id", restaurantID.String()),
		uintAttr("product.id", productID),
	)
	defer func() { s.finish(span, op, err) }()

	m, err := s.authorize(ctx, token)
	if err != nil {
		return err
	}

	err = s.restaurants.Update(ctx, restaurantID, func(r *restaurant.Restaurant) error {
		return fn(r, m)
	})
	if err != nil {
		s.log.Warn("product update rejected",
			"operation", op,
			"restaurant_id", restaurantID,
			"product_id", productID,
			"error", err,
		)
		return err
	}

	s.log.Info("product updated", "operation", op, "restaurant_id", restaurantID, "product_id", productID)
	return nil
}

// BuyProduct settles a purchase: the payer's coin is taken, exactly the total
// price goes to the restaurant, any change goes back to the payer, and one
// invoice per unit goes to the recipient. Anyone may buy. The coin id is the
// bearer secret that authorizes spending; it is never listed publicly, so
// naming a payer does not by itself grant access to their coins.
func (s *RestaurantService) BuyProduct(ctx context.Context, restaurantID uuid.UUID, productID uint64, req models.BuyProductRequest) (receipt *models.PurchaseReceipt, err error) {
	ctx, span := s.start(ctx, "buy_product",
		attribute.String("restaurant.id", restaurantID.String()),
		uintAttr("product.id", productID),
		uintAttr("quantity", req.Quantity),
	)
	defer func() { s.finish(span, "buy_product", err) }()

	if req.Payer.IsZero() || req.Recipient.IsZero() {
		return nil, account.ErrInvalidAddress
	}

	coin, err := s.wallets.TakeCoin(ctx, req.Payer, req.CoinID)
	if err != nil {
		return nil, err
	}
	// From here on the coin is held only by this call and must end up with an owner.
	settle := context.WithoutCancel(ctx)

	var (
		invoices []restaurant.Invoice
		total    uint64
	)
	err = s.restaurants.Update(ctx, restaurantID, func(r *restaurant.Restaurant) error {
		before := coin.Value()
		var err error
		invoices, err = r.BuyProduct(productID, req.Quantity, coin)
		if err != nil {
			return err
		}
		total = before - coin.Value()
		return nil
	})
	if err != nil {
		if depositErr := s.wallets.DepositCoin(settle, req.Payer, coin); depositErr != nil {
			return nil, errors.Join(err, fmt.Errorf("returning payment: %w", depositErr))
		}
		s.log.Warn("purchase rejected",
			"restaurant_id", restaurantID,
			"product_id", productID,
			"quantity", req.Quantity,
			"error", err,
		)
		return nil, err
	}

	receipt = &models.PurchaseReceipt{
		RestaurantID: restaurantID,
		ProductID:    productID,
		Quantity:     req.Quantity,
		TotalPrice:   total,
		Recipient:    req.Recipient,
		Invoices:     invoices,
	}

	if coin.Value() > 0 {
		if err := s.wallets.DepositCoin(settle, req.Payer, coin); err != nil {
			return nil, fmt.Errorf("returning change: %w", err)
		}
		receipt.Change = &models.Coin{ID: coin.ID(), Value: coin.Value()}
	} else if err := coin.Destroy(); err != nil {
		return nil, err
	}

	if err := s.wallets.TransferInvoices(settle, req.Recipient, invoices); err != nil {
		return nil, fmt.Errorf("transferring invoices: %w", err)
	}

	s.metrics.Settled(len(invoices), total)
	s.log.Info("product purchased",
		"restaurant_id", restaurantID,
		"product_id", productID,
		"quantity", req.Quantity,
		"total_price", total,
		"recipient", req.Recipient,
	)
	return receipt, nil
}

// TransferFromRestaurant withdraws from the restaurant balance to recipient
func (s *RestaurantService) TransferFromRestaurant(ctx context.Context, restaurantID, token uuid.UUID, req models.WithdrawRequest) (resp *models.WithdrawResponse, err error) {
	ctx, span := s.start(ctx, "transfer_from_restaurant",
		attribute.String("restaurant.id", restaurantID.String()),
		uintAttr("amount", req.Amount),
	)
	defer func() { s.finish(span, "transfer_from_restaurant", err) }()

	m, err := s.authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	if req.Recipient.IsZero() {
		return nil, account.ErrInvalidAddress
	}

	var coinID uuid.UUID
	err = s.restaurants.Update(ctx, restaurantID, func(r *restaurant.Restaurant) error {
		coin, err := r.Withdraw(m, req.Amount)
		if err != nil {
			return err
		}
		coinID = coin.ID()
		// the commit cannot fail once fn returns nil, so the coin is safe to hand over
		return s.wallets.DepositCoin(context.WithoutCancel(ctx), req.Recipient, coin)
	})
	if err != nil {
		s.log.Warn("withdrawal rejected", "restaurant_id", restaurantID, "amount", req.Amount, "error", err)
		return nil, err
	}

	s.metrics.Withdrawn(req.Amount)
	s.log.Info("funds withdrawn",
		"restaurant_id", restaurantID,
		"amount", req.Amount,
		"recipient", req.Recipient,
	)
	return &models.WithdrawResponse{
		Coin:      models.Coin{ID: coinID, Value: req.Amount},
		Recipient: req.Recipient,
	}, nil
}

// CheckProductAvailability returns the units left of a product
func (s *RestaurantService) CheckProductAvailability(ctx context.Context, restaurantID uuid.UUID, productID uint64) (uint64, error) {
	p, err := s.GetProduct(ctx, restaurantID, productID)
	if err != nil {
		return 0, err
	}
	return restaurant.CheckProductAvailability(p), nil
}

// CheckProductStock returns a product's in-stock flag
func (s *RestaurantService) CheckProductStock(ctx context.Context, restaurantID uuid.UUID, productID uint64) (bool, error) {
	p, err := s.GetProduct(ctx, restaurantID, productID)
	if err != nil {
		return false, err
	}
	return restaurant.CheckProductStock(p), nil
}

// GetProduct returns one product by id
func (s *RestaurantService) GetProduct(ctx context.Context, restaurantID uuid.UUID, productID uint64) (restaurant.Product, error) {
	var p restaurant.Product
	err := s.restaurants.View(ctx, restaurantID, func(r *restaurant.Restaurant) error {
		var err error
		p, err = r.Product(productID)
		return err
	})
	return p, err
}

// ListProducts returns the restaurant's whole menu in id order
func (s *RestaurantService) ListProducts(ctx context.Context, restaurantID uuid.UUID) ([]restaurant.Product, error) {
	view, err := s.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	return view.Products, nil
}

// GetRestaurant returns a snapshot of the restaurant's public state
func (s *RestaurantService) GetRestaurant(ctx context.Context, restaurantID uuid.UUID) (*models.RestaurantView, error) {
	var view models.RestaurantView
	err := s.restaurants.View(ctx, restaurantID, func(r *restaurant.Restaurant) error {
		view = models.RestaurantView{
			ID:           r.ID,
			Balance:      r.Balance.Value(),
			ProductCount: r.ProductCount,
			Products:     append([]restaurant.Product(nil), r.Products...),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if view.Products == nil {
		view.Products = []restaurant.Product{}
	}
	return &view, nil
}

// ListRestaurants returns the ids of every registered restaurant
func (s *RestaurantService) ListRestaurants(ctx context.Context) ([]uuid.UUID, error) {
	return s.restaurants.List(ctx)
}

// authorize resolves a presented token. Tokens that were never issued cannot
// be bound to any restaurant, so they fail the same way a foreign one does.
func (s *RestaurantService) authorize(ctx context.Context, token uuid.UUID) (restaurant.Management, error) {
	m, err := s.capabilities.Get(ctx, token)
	if errors.Is(err, repository.ErrManagementNotFound) {
		return restaurant.Management{}, fmt.Errorf("%w: unknown token", restaurant.ErrNotManager)
	}
	return m, err
}

// uintAttr records a uint64 as its decimal string. Product ids, quantities and
// amounts use the full unsigned range, which an int64 attribute cannot hold.
func uintAttr(key string, v uint64) attribute.KeyValue {
	return attribute.String(key, strconv.FormatUint(v, 10))
}

func (s *RestaurantService) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "RestaurantService."+op, trace.WithAttributes(attrs...))
}

func (s *RestaurantService) finish(span trace.Span, op string, err error) {
	s.metrics.Operation(op, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
