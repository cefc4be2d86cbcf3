package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"pasar/internal/apperrors"
	"pasar/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository, used as a test double and for local seeding.
type MockProductRepository struct {
	products map[string]models.Product
	likes    map[string]models.ProductLike // keyed by productID+"/"+userID
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
		likes:    make(map[string]models.ProductLike),
	}
}

// List returns all active, non-deleted products, newest first.
func (r *MockProductRepository) List() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.IsActive && !p.IsDeleted {
			productList = append(productList, p)
		}
	}
	sortNewestFirst(productList)
	return productList, nil
}

// ListBySeller returns a seller's non-deleted products.
func (r *MockProductRepository) ListBySeller(sellerID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var productList []models.Product
	for _, p := range r.products {
		if p.SellerID == sellerID && !p.IsDeleted {
			productList = append(productList, p)
		}
	}
	sortNewestFirst(productList)
	return productList, nil
}

// ListFeatured returns active, featured, non-deleted products.
func (r *MockProductRepository) ListFeatured() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var productList []models.Product
	for _, p := range r.products {
		if p.IsActive && p.IsFeatured && !p.IsDeleted {
			productList = append(productList, p)
		}
	}
	sortNewestFirst(productList)
	return productList, nil
}

// ListTrending returns the most viewed active, non-deleted products.
func (r *MockProductRepository) ListTrending(limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var productList []models.Product
	for _, p := range r.products {
		if p.IsActive && !p.IsDeleted {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		if productList[i].Views != productList[j].Views {
			return productList[i].Views > productList[j].Views
		}
		return productList[i].CreatedAt.After(productList[j].CreatedAt)
	})
	if limit > 0 && len(productList) > limit {
		productList = productList[:limit]
	}
	return productList, nil
}

// GetByID returns a non-deleted product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok || product.IsDeleted {
		return nil, fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return &product, nil
}

// GetByIDAnyState returns a product regardless of its soft-delete flag.
func (r *MockProductRepository) GetByIDAnyState(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, apperrors.ErrNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// SoftDelete flags the product as deleted, idempotently.
func (r *MockProductRepository) SoftDelete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
	}
	product.MarkDeleted(time.Now())
	r.products[id] = product
	return nil
}

// Restore clears the soft-delete flag, idempotently.
func (r *MockProductRepository) Restore(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
	}
	product.MarkRestored()
	r.products[id] = product
	return nil
}

// HardDelete removes the product and its like edges.
func (r *MockProductRepository) HardDelete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
	}
	delete(r.products, id)
	for key, like := range r.likes {
		if like.ProductID == id {
			delete(r.likes, key)
		}
	}
	return nil
}

// IncrementViews bumps the view counter.
func (r *MockProductRepository) IncrementViews(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.IsDeleted {
		return nil
	}
	product.Views++
	r.products[id] = product
	return nil
}

// MarkSold flags the product as sold.
func (r *MockProductRepository) MarkSold(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.IsDeleted {
		return fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
	}
	product.IsSold = true
	product.IsActive = false
	r.products[id] = product
	return nil
}

// AddLike creates the like edge and bumps the counter.
func (r *MockProductRepository) AddLike(productID, userID string) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := productID + "/" + userID
	if like, ok := r.likes[key]; ok && !like.IsDeleted {
		return 0, fmt.Errorf("product %s already liked: %w", productID, apperrors.ErrConflict)
	}
	r.likes[key] = models.ProductLike{ID: uuid.New().String(), ProductID: productID, UserID: userID}

	product, ok := r.products[productID]
	if !ok {
		return 0, fmt.Errorf("product with ID %s: %w", productID, apperrors.ErrNotFound)
	}
	product.Likes++
	r.products[productID] = product
	return product.Likes, nil
}

// RemoveLike drops the like edge and decrements the counter.
func (r *MockProductRepository) RemoveLike(productID, userID string) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := productID + "/" + userID
	like, ok := r.likes[key]
	if !ok || like.IsDeleted {
		return 0, fmt.Errorf("like on product %s: %w", productID, apperrors.ErrNotFound)
	}
	like.MarkDeleted(time.Now())
	r.likes[key] = like

	product, ok := r.products[productID]
	if !ok {
		return 0, fmt.Errorf("product with ID %s: %w", productID, apperrors.ErrNotFound)
	}
	if product.Likes > 0 {
		product.Likes--
	}
	r.products[productID] = product
	return product.Likes, nil
}

// HasLike reports whether the user currently likes the product.
func (r *MockProductRepository) HasLike(productID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	like, ok := r.likes[productID+"/"+userID]
	return ok && !like.IsDeleted, nil
}

// CountLikes counts the live like rows for a product.
func (r *MockProductRepository) CountLikes(productID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, like := range r.likes {
		if like.ProductID == productID && !like.IsDeleted {
			count++
		}
	}
	return count, nil
}

func sortNewestFirst(products []models.Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}
