package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemCategory separates the catalogue into parts and tools.
type ItemCategory string

const (
	ItemCategoryPart ItemCategory = "part"
	ItemCategoryTool ItemCategory = "tool"
)

// Valid reports whether c is a known category.
func (c ItemCategory) Valid() bool {
	return c == ItemCategoryPart || c == ItemCategoryTool
}

// Item is a catalogue entry.
type Item struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Category    ItemCategory    `json:"category" gorm:"type:varchar(20);not null;default:'part';index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null;default:0"`
	Quantity    int             `json:"quantity" gorm:"not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
