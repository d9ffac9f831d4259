package models

type Customer struct {
	Base
	CustomerName string  `gorm:"size:30;not null"`
	Mail         string  `gorm:"size:100;uniqueIndex;not null"`
	Password     string  `gorm:"size:64;not null"` // bcrypt hash
	Orders       []Order `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
