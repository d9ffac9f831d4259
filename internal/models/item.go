package models

type Item struct {
	Base
	ItemName string  `gorm:"size:30;uniqueIndex;not null"`
	Price    float64 `gorm:"not null;default:0;check:chk_items_price,price >= 0"`
	Quantity int     `gorm:"not null;default:0;check:chk_items_quantity,quantity >= 0"`
}
