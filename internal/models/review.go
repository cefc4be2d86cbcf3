package models

// Review is a product review, unique per (product, reviewer). The seller
// is denormalized so seller-rating queries avoid a join through products.
type Review struct {
	ID                 string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID          string `json:"product_id" gorm:"type:varchar(36);uniqueIndex:idx_review_pair" validate:"required,uuid"`
	ReviewerID         string `json:"reviewer_id" gorm:"type:varchar(36);uniqueIndex:idx_review_pair"`
	SellerID           string `json:"seller_id" gorm:"type:varchar(36);index"`
	Rating             uint   `json:"rating" validate:"required,min=1,max=5"`
	Title              string `json:"title" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Comment            string `json:"comment" validate:"required"`
	IsVerifiedPurchase bool   `json:"is_verified_purchase" gorm:"default:false"`
	Timestamps
	SoftDelete
}

// OwnerID implements Owned: the reviewer owns the review.
func (r *Review) OwnerID() string { return r.ReviewerID }
