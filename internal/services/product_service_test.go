package services_test

import (
	"fmt"
	"sync"
	"testing"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/stretchr/testify/assert"
)

func newProductService() (*services.ProductService, *repositories.MockProductRepository, *memNotificationRepo) {
	repo := repositories.NewMockProductRepository()
	recorder, _, notificationRepo, _ := newTestRecorder()
	return services.NewProductService(repo, recorder), repo, notificationRepo
}

func verifiedUser(id string) *models.User {
	return &models.User{ID: id, IsActive: true, IsVerified: true, IsSeller: true}
}

func TestProductService_Create(t *testing.T) {
	service, _, _ := newProductService()
	seller := verifiedUser("seller-1")

	product := &models.Product{Title: "Mountain bike", Price: 250}
	err := service.Create(seller, product, services.Origin{})
	assert.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "seller-1", product.SellerID)
	assert.True(t, product.IsActive)
	assert.Equal(t, models.ConditionUsed, product.Condition)

	// Unverified accounts cannot list
	err = service.Create(&models.User{ID: "user-2", IsActive: true}, &models.Product{Title: "X", Price: 1}, services.Origin{})
	assert.ErrorIs(t, err, apperrors.ErrVerificationRequired)
}

func TestProductService_GetCountsViews(t *testing.T) {
	service, repo, _ := newProductService()
	seller := verifiedUser("seller-1")
	product := &models.Product{Title: "Lamp", Price: 10}
	assert.NoError(t, service.Create(seller, product, services.Origin{}))

	// A stranger's view bumps the counter
	viewer := verifiedUser("viewer-1")
	got, err := service.Get(product.ID, viewer, services.Origin{})
	assert.NoError(t, err)
	assert.Equal(t, uint(1), got.Views)

	// Anonymous views count too
	got, err = service.Get(product.ID, nil, services.Origin{})
	assert.NoError(t, err)
	assert.Equal(t, uint(2), got.Views)

	// The seller's own view does not
	got, err = service.Get(product.ID, seller, services.Origin{})
	assert.NoError(t, err)
	assert.Equal(t, uint(2), got.Views)

	stored, _ := repo.GetByID(product.ID)
	assert.Equal(t, uint(2), stored.Views)
}

func TestProductService_UpdatePreservesOwnership(t *testing.T) {
	service, _, _ := newProductService()
	seller := verifiedUser("seller-1")
	product := &models.Product{Title: "Desk", Price: 80}
	assert.NoError(t, service.Create(seller, product, services.Origin{}))

	// A stranger cannot update
	update := &models.Product{ID: product.ID, Title: "Stolen desk", Price: 1}
	err := service.Update(verifiedUser("thief-1"), update, services.Origin{})
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	// The owner can, and the seller reference survives the write
	update = &models.Product{ID: product.ID, Title: "Standing desk", Price: 120}
	err = service.Update(seller, update, services.Origin{})
	assert.NoError(t, err)
	assert.Equal(t, "seller-1", update.SellerID)

	got, err := service.Get(product.ID, seller, services.Origin{})
	assert.NoError(t, err)
	assert.Equal(t, "Standing desk", got.Title)
}

func TestProductService_UpdateKeepsStatusFlags(t *testing.T) {
	service, repo, _ := newProductService()
	seller := verifiedUser("seller-1")
	product := &models.Product{Title: "Camera", Price: 400}
	assert.NoError(t, service.Create(seller, product, services.Origin{}))

	// A sold, featured and boosted listing
	assert.NoError(t, service.MarkSold(seller, product.ID, services.Origin{}))
	stored, err := repo.GetByIDAnyState(product.ID)
	assert.NoError(t, err)
	stored.IsFeatured = true
	stored.IsBoosted = true
	assert.NoError(t, repo.Update(stored))

	update := &models.Product{ID: product.ID, Title: "Camera, lens included", Price: 380}
	assert.NoError(t, service.Update(seller, update, services.Origin{}))

	got, err := service.GetAudit(product.ID, seller)
	assert.NoError(t, err)
	assert.Equal(t, "Camera, lens included", got.Title)
	assert.True(t, got.IsSold, "sold flag should survive an edit")
	assert.True(t, got.IsFeatured, "featured flag should survive an edit")
	assert.True(t, got.IsBoosted, "boost flag should survive an edit")
	assert.False(t, got.IsActive)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestProductService_SoftDeleteAndRestore(t *testing.T) {
	service, _, _ := newProductService()
	seller := verifiedUser("seller-1")
	product := &models.Product{Title: "Chair", Price: 30}
	assert.NoError(t, service.Create(seller, product, services.Origin{}))

	assert.NoError(t, service.SoftDelete(seller, product.ID, services.Origin{}))

	// Gone from public reads and listings
	_, err := service.Get(product.ID, nil, services.Origin{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	listed, _ := service.List()
	assert.Empty(t, listed)

	// Still reachable for the owner on the audit path
	audited, err := service.GetAudit(product.ID, seller)
	assert.NoError(t, err)
	assert.True(t, audited.IsDeleted)
	assert.NotNil(t, audited.DeletedAt)

	// Deleting again is a no-op
	assert.NoError(t, service.SoftDelete(seller, product.ID, services.Origin{}))

	// Restore brings it back, idempotently
	assert.NoError(t, service.Restore(seller, product.ID))
	assert.NoError(t, service.Restore(seller, product.ID))
	got, err := service.Get(product.ID, nil, services.Origin{})
	assert.NoError(t, err)
	assert.False(t, got.IsDeleted)
	assert.Nil(t, got.DeletedAt)

	// A stranger can do none of this
	err = service.SoftDelete(verifiedUser("thief-1"), product.ID, services.Origin{})
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	err = service.Restore(verifiedUser("thief-1"), product.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
}

func TestProductService_ToggleLike(t *testing.T) {
	service, repo, notificationRepo := newProductService()
	seller := verifiedUser("seller-1")
	buyer := verifiedUser("buyer-1")
	product := &models.Product{Title: "Guitar", Price: 300}
	assert.NoError(t, service.Create(seller, product, services.Origin{}))

	// First toggle likes and notifies the seller
	liked, likes, err := service.ToggleLike(buyer, product.ID, services.Origin{})
	assert.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, uint(1), likes)
	assert.Len(t, notificationRepo.notifications, 1)
	assert.Equal(t, models.NotificationProductLike, notificationRepo.notifications[0].NotificationType)
	assert.Equal(t, "seller-1", notificationRepo.notifications[0].RecipientID)

	// Second toggle unlikes without another notification
	liked, likes, err = service.ToggleLike(buyer, product.ID, services.Origin{})
	assert.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, uint(0), likes)
	assert.Len(t, notificationRepo.notifications, 1)

	// Counter and edge agree after re-like
	liked, likes, err = service.ToggleLike(buyer, product.ID, services.Origin{})
	assert.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, uint(1), likes)
	count, _ := repo.CountLikes(product.ID)
	assert.Equal(t, int64(1), count)
}

func TestProductService_ConcurrentLikesConverge(t *testing.T) {
	service, repo, _ := newProductService()
	seller := verifiedUser("seller-1")
	product := &models.Product{Title: "Poster", Price: 5}
	assert.NoError(t, service.Create(seller, product, services.Origin{}))

	const buyers = 32
	toggleAll := func() {
		var wg sync.WaitGroup
		errs := make(chan error, buyers)
		for i := 0; i < buyers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _, err := service.ToggleLike(verifiedUser(fmt.Sprintf("buyer-%d", i)), product.ID, services.Origin{})
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}
	}

	// Every buyer likes at once; the counter matches the edge count
	toggleAll()
	stored, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	count, err := repo.CountLikes(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(buyers), count)
	assert.Equal(t, uint(buyers), stored.Likes)

	// Every buyer unlikes at once; counter and edges converge to zero
	toggleAll()
	stored, err = repo.GetByID(product.ID)
	assert.NoError(t, err)
	count, err = repo.CountLikes(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, uint(0), stored.Likes)
}

func TestProductService_MarkSold(t *testing.T) {
	service, _, notificationRepo := newProductService()
	seller := verifiedUser("seller-1")
	product := &models.Product{Title: "Table", Price: 60}
	assert.NoError(t, service.Create(seller, product, services.Origin{}))

	err := service.MarkSold(verifiedUser("buyer-1"), product.ID, services.Origin{})
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	assert.NoError(t, service.MarkSold(seller, product.ID, services.Origin{}))
	got, err := service.GetAudit(product.ID, seller)
	assert.NoError(t, err)
	assert.True(t, got.IsSold)
	assert.False(t, got.IsActive)

	// Sold listings leave the public surface
	_, err = service.Get(product.ID, nil, services.Origin{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Len(t, notificationRepo.notifications, 1)
	assert.Equal(t, models.NotificationProductSold, notificationRepo.notifications[0].NotificationType)
}

func TestProductService_HardDelete(t *testing.T) {
	service, repo, _ := newProductService()
	seller := verifiedUser("seller-1")
	product := &models.Product{Title: "Sofa", Price: 150}
	assert.NoError(t, service.Create(seller, product, services.Origin{}))
	_, _, err := service.ToggleLike(verifiedUser("buyer-1"), product.ID, services.Origin{})
	assert.NoError(t, err)

	assert.NoError(t, service.HardDelete(seller, product.ID, services.Origin{}))

	// The row and its like edges are gone for good
	_, err = service.GetAudit(product.ID, seller)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	count, _ := repo.CountLikes(product.ID)
	assert.Equal(t, int64(0), count)
}
