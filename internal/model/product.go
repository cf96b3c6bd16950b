package model

import "time"

// Product is one inventory item (peripherals, spare parts) handed out when
// fulfilling tickets. Name is the natural key; registering an existing name
// adds to its quantity.
type Product struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"nome"`
	Description string    `gorm:"type:text" json:"descricao"`
	Quantity    int       `gorm:"not null;default:0" json:"quantidade"`
	CreatedAt   time.Time `json:"data_cadastro"`
	UpdatedAt   time.Time `json:"-"`
}

func (Product) TableName() string { return "produtos" }
