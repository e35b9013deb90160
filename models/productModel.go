package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductKind separates downloadable photos from printed ones. Only
// physical items carry weight and are shippable.
type ProductKind string

const (
	KindDigital  ProductKind = "digital"
	KindPhysical ProductKind = "physical"
)

type Product struct {
	gorm.Model
	Title        string          `json:"title" gorm:"size:255;uniqueIndex" binding:"required"`
	Slug         string          `json:"slug" gorm:"size:255;uniqueIndex"`
	Description  string          `json:"description"`
	ImageUrl     string          `json:"imageUrl"`
	ThumbnailUrl string          `json:"thumbnailUrl"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2)" binding:"required"`
	IsForSale    bool            `json:"isForSale" gorm:"default:true"`
	Dimensions   string          `json:"dimensions" gorm:"size:10"`
	Resolution   string          `json:"resolution" gorm:"size:100"`
	FileFormat   string          `json:"fileFormat" gorm:"size:30"`
	FileSizeMb   decimal.Decimal `json:"fileSizeMb" gorm:"type:decimal(5,2)"`
}

func (Product) TableName() string {
	return "Photos"
}
