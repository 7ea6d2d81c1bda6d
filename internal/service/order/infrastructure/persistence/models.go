// internal/service/order/infrastructure/persistence/models.go
package persistence

import "time"

// OrderModel 对应数据库中的 orders 表。
type OrderModel struct {
	ID        uint `gorm:"primaryKey"`
	Status    int  `gorm:"type:tinyint;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderDetailModel 对应数据库中的 order_details 表。
type OrderDetailModel struct {
	ID        uint    `gorm:"primaryKey"`
	OrderID   uint    `gorm:"index;not null"`
	ProductID uint    `gorm:"index;not null"`
	Quantity  int     `gorm:"not null"`
	Price     float64 `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time
}

func (OrderDetailModel) TableName() string {
	return "order_details"
}

// ProductModel 对应数据库中的 products 表。
type ProductModel struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"type:varchar(255)"`
	Stock     int     `gorm:"not null"`
	Price     float64 `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductModel) TableName() string {
	return "products"
}
