package models

// Payment status values.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment represents a transaction, e.g. a product purchase or a boost
// package purchase.
type Payment struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string  `json:"user_id" gorm:"type:varchar(36);index"`
	ProductID   string  `json:"product_id,omitempty" gorm:"type:varchar(36)"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" gorm:"type:varchar(3);default:USD" validate:"omitempty,len=3"`
	Status      string  `json:"status" gorm:"type:varchar(20);default:pending"` // pending, completed, failed, refunded
	ProviderRef string  `json:"provider_ref,omitempty" gorm:"type:varchar(255)"`
	Description string  `json:"description,omitempty"`
	Timestamps
	SoftDelete
}

// OwnerID implements Owned: the paying user owns the payment record.
func (p *Payment) OwnerID() string { return p.UserID }

// BoostPackage is a purchasable promotion for product listings.
type BoostPackage struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string  `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	DurationDays uint    `json:"duration_days" validate:"required,gt=0"`
	IsActive     bool    `json:"is_active" gorm:"default:true"`
	Timestamps
}
