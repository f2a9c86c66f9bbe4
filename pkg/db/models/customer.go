package models

import "time"

// Customer is a shopper profile; its ID matches the owning user ID when the
// customer was created by checkout.
type Customer struct {
	ID         string    `gorm:"column:id;primaryKey"`
	FirstName  string    `gorm:"column:first_name;not null;default:''"`
	LastName   string    `gorm:"column:last_name;not null;default:''"`
	Email      string    `gorm:"column:email;not null;default:''"`
	Phone      string    `gorm:"column:phone;not null;default:''"`
	Address    string    `gorm:"column:address;not null;default:''"`
	City       string    `gorm:"column:city;not null;default:''"`
	Province   string    `gorm:"column:province;not null;default:''"`
	PostalCode string    `gorm:"column:postal_code;not null;default:''"`
	Notes      string    `gorm:"column:notes;not null;default:''"`
	Orders     []Order   `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
