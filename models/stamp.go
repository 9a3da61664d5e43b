package models

import "time"

// Stamp categories as stored and filtered on.
const (
	CategoryDefinitive     = "definitive"
	CategoryCommemorative  = "commemorative"
	CategoryMiniatureSheet = "miniature-sheet"
	CategoryFirstDayCover  = "first-day-cover"
)

// Stamp is a catalog item.
type Stamp struct {
	StampID     string    `json:"stampId" bson:"stampid"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	Year        int       `json:"year" bson:"year"`
	StockCount  int       `json:"stockCount" bson:"stockcount"`
	ImagePath   string    `json:"imagePath,omitempty" bson:"imagepath,omitempty"`
	ThumbPath   string    `json:"thumbPath,omitempty" bson:"thumbpath,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}
