package customers

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists customers and the orders they own.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func ordersOldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("placed_at ASC").Order("id ASC")
}

// ListCustomers returns every customer with orders preloaded.
func (r *Repository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.WithContext(ctx).
		Preload("Orders", ordersOldestFirst).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var row models.Customer
	err := r.db.WithContext(ctx).
		Preload("Orders", ordersOldestFirst).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *Repository) SaveCustomer(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

// UpsertCustomer inserts or overwrites the profile columns of the customer.
func (r *Repository) UpsertCustomer(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_name", "last_name", "email", "phone", "address",
			"city", "province", "postal_code", "notes", "updated_at",
		}),
	}).Create(c).Error
}

// DeleteCustomer removes the customer and its orders.
func (r *Repository) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	if err := r.db.WithContext(ctx).Where("customer_id = ?", id).Delete(&models.Order{}).Error; err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CustomerNames maps customer id to "first last" for every customer.
func (r *Repository) CustomerNames(ctx context.Context) (map[string]string, error) {
	var rows []models.Customer
	if err := r.db.WithContext(ctx).Select("id", "first_name", "last_name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.ID] = fromModel(row).FullName()
	}
	return out, nil
}

// ListOrders returns every order, oldest first.
func (r *Repository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := ordersOldestFirst(r.db.WithContext(ctx)).Find(&rows).Error
	return rows, err
}

func (r *Repository) ListOrdersByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	var rows []models.Order
	err := ordersOldestFirst(r.db.WithContext(ctx)).Where("customer_id = ?", customerID).Find(&rows).Error
	return rows, err
}

func (r *Repository) FindOrder(ctx context.Context, customerID, orderID string) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).First(&row, "customer_id = ? AND id = ?", customerID, orderID).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *Repository) SaveOrder(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *Repository) DeleteOrder(ctx context.Context, customerID, orderID string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Order{}, "customer_id = ? AND id = ?", customerID, orderID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
