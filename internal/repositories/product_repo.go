package repositories

import "pasar/internal/models"

// ProductRepository defines the interface for product data access. Every
// read method names its soft-delete behavior: default reads exclude
// deleted rows, GetByIDAnyState is the audit path.
type ProductRepository interface {
	List() ([]models.Product, error)
	ListBySeller(sellerID string) ([]models.Product, error)
	ListFeatured() ([]models.Product, error)
	ListTrending(limit int) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByIDAnyState(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error

	SoftDelete(id string) error
	Restore(id string) error
	HardDelete(id string) error

	IncrementViews(id string) error
	MarkSold(id string) error

	// AddLike and RemoveLike toggle the like edge and the denormalized
	// counter in one transaction, returning the resulting count.
	AddLike(productID, userID string) (uint, error)
	RemoveLike(productID, userID string) (uint, error)
	HasLike(productID, userID string) (bool, error)
	CountLikes(productID string) (int64, error)
}
