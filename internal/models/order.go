package models

// Order is immutable once created.
type Order struct {
	Base
	CustomerID string `gorm:"type:varchar(36);index;not null"`
	ItemID     string `gorm:"type:varchar(36);index;not null"`
	Item       *Item  `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Quantity   int    `gorm:"not null;check:chk_orders_quantity,quantity > 0"`
}
