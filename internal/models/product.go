package models

import "time"

// Product condition values.
const (
	ConditionNew         = "new"
	ConditionUsed        = "used"
	ConditionRefurbished = "refurbished"
)

// Product represents a marketplace listing.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string  `json:"title" gorm:"type:varchar(255)" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Condition   string  `json:"condition" gorm:"type:varchar(20);default:used" validate:"omitempty,oneof=new used refurbished"`
	CategoryID  string  `json:"category_id" gorm:"type:varchar(36);index" validate:"omitempty,uuid"`
	SellerID    string  `json:"seller_id" gorm:"type:varchar(36);index:idx_products_seller_active"`
	Location    string  `json:"location" gorm:"type:varchar(255)"`

	// Status
	IsActive       bool       `json:"is_active" gorm:"default:true;index:idx_products_seller_active"`
	IsSold         bool       `json:"is_sold" gorm:"default:false"`
	IsFeatured     bool       `json:"is_featured" gorm:"default:false"`
	IsBoosted      bool       `json:"is_boosted" gorm:"default:false"`
	BoostExpiresAt *time.Time `json:"boost_expires_at,omitempty"`

	// Analytics counters. Mutated only via single-statement SQL increments
	// so concurrent requests cannot lose updates.
	Views uint `json:"views" gorm:"default:0"`
	Likes uint `json:"likes" gorm:"default:0"`

	Timestamps
	SoftDelete
}

// OwnerID implements the Owned capability: the seller owns the listing.
func (p *Product) OwnerID() string { return p.SellerID }

// ProductImage is an image attached to a listing. Cascades away on hard
// delete of the product.
type ProductImage struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"type:varchar(36);index"`
	URL       string `json:"url" gorm:"type:varchar(512)" validate:"required,url"`
	AltText   string `json:"alt_text" gorm:"type:varchar(255)"`
	Order     uint   `json:"order" gorm:"default:0"`
	Timestamps
	SoftDelete
}

// ProductLike is a like/favorite edge, unique per (product, user).
type ProductLike struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"type:varchar(36);uniqueIndex:idx_like_pair"`
	UserID    string `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_like_pair"`
	Timestamps
	SoftDelete
}

// OwnerID implements Owned for likes.
func (l *ProductLike) OwnerID() string { return l.UserID }

// Category is a node in the product category tree. A blank ParentID marks
// a root category.
type Category struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,max=100"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon" gorm:"type:varchar(50)"`
	ParentID    string `json:"parent_id,omitempty" gorm:"type:varchar(36);index"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	Order       uint   `json:"order" gorm:"column:sort_order;default:0"`
	Timestamps
}
