package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages customers and the orders appended to them.
type Service interface {
	List(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id string) (*Customer, error)
	Create(ctx context.Context, input CustomerInput) (*Customer, error)
	Update(ctx context.Context, id string, input UpdateCustomerInput) (*Customer, error)
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, id string, patch UpdateCustomerInput) (*Customer, error)

	ListOrders(ctx context.Context) ([]orders.Order, error)
	OrdersForCustomer(ctx context.Context, customerID string) ([]orders.Order, error)
	PlaceOrder(ctx context.Context, profile CustomerInput, order orders.Order) (*orders.Order, error)
	UpdateOrder(ctx context.Context, customerID, orderID string, patch *orders.Patch) (*orders.Order, error)
	DeleteOrder(ctx context.Context, customerID, orderID string) error
	SetOrderStatus(ctx context.Context, customerID, orderID string, status enums.OrderStatus) (*orders.Order, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a customer service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context) ([]Customer, error) {
	rows, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	out := make([]Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (*Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	row, err := s.repo.FindCustomer(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	c := fromModel(*row)
	return &c, nil
}

func (s *service) Create(ctx context.Context, input CustomerInput) (*Customer, error) {
	c := input.toCustomer()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := toModel(c)
	if err := s.repo.CreateCustomer(ctx, &row); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer id already exists").WithDetails(map[string]any{"id": c.ID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
	}
	created := fromModel(row)
	return &created, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateCustomerInput) (*Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyUpdate(c, input)
	row := toModel(*c)
	if err := s.repo.SaveCustomer(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	var deleted bool
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		deleted, err = s.repo.WithTx(tx).DeleteCustomer(ctx, strings.TrimSpace(id))
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete customer")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}

// Upsert applies patch to the customer with id, creating it when missing.
// Nil fields keep the stored value; orders stay.
func (s *service) Upsert(ctx context.Context, id string, patch UpdateCustomerInput) (*Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	c := Customer{ID: id}
	existing, err := s.repo.FindCustomer(ctx, id)
	switch {
	case err == nil:
		c = fromModel(*existing)
	case !db.IsNotFound(err):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	applyUpdate(&c, patch)
	row := toModel(c)
	if err := s.repo.UpsertCustomer(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert customer")
	}
	saved := fromModel(row)
	return &saved, nil
}

func (s *service) ListOrders(ctx context.Context) ([]orders.Order, error) {
	rows, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	names, err := s.repo.CustomerNames(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer names")
	}
	out := make([]orders.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, orders.FromModel(row, names[row.CustomerID]))
	}
	return out, nil
}

func (s *service) OrdersForCustomer(ctx context.Context, customerID string) ([]orders.Order, error) {
	c, err := s.Get(ctx, customerID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return []orders.Order{}, nil
		}
		return nil, err
	}
	return c.Orders, nil
}

// PlaceOrder upserts the customer profile and appends the order in one
// transaction.
func (s *service) PlaceOrder(ctx context.Context, profile CustomerInput, order orders.Order) (*orders.Order, error) {
	customerID := strings.TrimSpace(order.CustomerID)
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	var name string
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		current := Customer{ID: customerID}
		existing, err := txRepo.FindCustomer(ctx, customerID)
		switch {
		case err == nil:
			current = fromModel(*existing)
		case !db.IsNotFound(err):
			return fmt.Errorf("load customer: %w", err)
		}
		mergeProfile(&current, profile)
		name = current.FullName()

		row := toModel(current)
		if err := txRepo.UpsertCustomer(ctx, &row); err != nil {
			return fmt.Errorf("upsert customer: %w", err)
		}
		orderRow := orders.ToModel(order)
		if err := txRepo.CreateOrder(ctx, &orderRow); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}
	order.CustomerName = name
	return &order, nil
}

// UpdateOrder applies patch to the order. A nil patch deletes the order.
func (s *service) UpdateOrder(ctx context.Context, customerID, orderID string, patch *orders.Patch) (*orders.Order, error) {
	if patch == nil {
		return nil, s.DeleteOrder(ctx, customerID, orderID)
	}
	return s.mutateOrder(ctx, customerID, orderID, func(o *orders.Order) error {
		return patch.Apply(o)
	})
}

func (s *service) DeleteOrder(ctx context.Context, customerID, orderID string) error {
	deleted, err := s.repo.DeleteOrder(ctx, strings.TrimSpace(customerID), strings.TrimSpace(orderID))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

func (s *service) SetOrderStatus(ctx context.Context, customerID, orderID string, status enums.OrderStatus) (*orders.Order, error) {
	return s.UpdateOrder(ctx, customerID, orderID, &orders.Patch{Status: &status})
}

func (s *service) mutateOrder(ctx context.Context, customerID, orderID string, fn func(*orders.Order) error) (*orders.Order, error) {
	customerID = strings.TrimSpace(customerID)
	orderID = strings.TrimSpace(orderID)
	row, err := s.repo.FindOrder(ctx, customerID, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	order := orders.FromModel(*row, "")
	if err := fn(&order); err != nil {
		return nil, err
	}
	updated := orders.ToModel(order)
	updated.CreatedAt = row.CreatedAt
	if err := s.repo.SaveOrder(ctx, &updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
	}
	result := orders.FromModel(updated, "")
	return &result, nil
}
