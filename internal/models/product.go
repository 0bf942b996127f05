package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Slug             string    `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	ShortDescription string    `gorm:"type:text" json:"short_description"`
	LongDescription  string    `gorm:"type:text" json:"long_description"`
	Price            string    `gorm:"size:64" json:"price"`         // display string, e.g. "$185"
	PriceAmount      int64     `gorm:"not null" json:"price_amount"` // cents
	Currency         string    `gorm:"size:3;default:'USD'" json:"currency"`
	StockQuantity    int       `gorm:"not null;default:0" json:"stock_quantity"`
	IsLimited        bool      `gorm:"default:false" json:"is_limited"`
	BatchNumber      *string   `gorm:"size:64" json:"batch_number"`
	Status           string    `gorm:"size:20;not null;index;default:'published'" json:"status"`
	HeroImageURL     string    `gorm:"size:512" json:"hero_image_url"`
	GalleryImages    []string  `gorm:"type:text;serializer:json" json:"gallery_images"`
	NotesTop         []string  `gorm:"type:text;serializer:json" json:"notes_top"`
	NotesHeart       []string  `gorm:"type:text;serializer:json" json:"notes_heart"`
	NotesBase        []string  `gorm:"type:text;serializer:json" json:"notes_base"`
	Identity         string    `gorm:"type:text" json:"identity"`
	Ritual           string    `gorm:"type:text" json:"ritual"`
	Craft            string    `gorm:"type:text" json:"craft"`
	CollectionID     *string   `gorm:"size:36;index" json:"collection_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (Product) TableName() string {
	return "products"
}
