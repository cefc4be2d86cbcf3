package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"pasar/internal/handlers"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test_jwt_secret"

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services wired like in production, minus the broker.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	// A named in-memory database so every connection in the pool sees the
	// same data, unique per test to keep tests independent.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserFollowing{},
		&models.UserBlock{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductLike{},
		&models.Activity{},
		&models.Notification{},
		&models.Review{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.Payment{},
		&models.BoostPackage{},
	)
	if err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	activityRepo := repositories.NewGORMActivityRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	conversationRepo := repositories.NewGORMConversationRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)

	recorder := services.NewActivityService(activityRepo, notificationRepo, nil) // nil dispatcher: no broker in tests
	authService := services.NewAuthService(userRepo, recorder, testJWTSecret)
	accountService := services.NewAccountService(userRepo, recorder)
	productService := services.NewProductService(productRepo, recorder)
	reviewService := services.NewReviewService(reviewRepo, productRepo, recorder)
	chatService := services.NewChatService(conversationRepo, userRepo, recorder)
	notificationService := services.NewNotificationService(notificationRepo)
	paymentService := services.NewPaymentService(paymentRepo, recorder)
	categoryService := services.NewCategoryService(categoryRepo)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, accountService).RegisterRoutes(apiV1)
	handlers.NewUserHandler(authService, accountService, recorder).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService, authService).RegisterRoutes(apiV1)
	handlers.NewReviewHandler(reviewService, authService).RegisterRoutes(apiV1)
	handlers.NewChatHandler(chatService, authService).RegisterRoutes(apiV1)
	handlers.NewNotificationHandler(notificationService, authService).RegisterRoutes(apiV1)
	handlers.NewPaymentHandler(paymentService, authService).RegisterRoutes(apiV1)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(apiV1)

	return app
}

// doJSON performs a JSON request against the test app and decodes the
// response body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			// List endpoints return arrays; wrap them for the caller
			var list []any
			if json.Unmarshal(raw, &list) == nil {
				decoded = map[string]any{"items": list}
			}
		}
	}
	return resp.StatusCode, decoded
}

// registerVerifiedUser registers a user, redeems the verification token
// and logs in, returning the bearer token and user id.
func registerVerifiedUser(t *testing.T, app *fiber.App, username string) (string, string) {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, status)
	verificationToken, _ := body["verification_token"].(string)
	assert.NotEmpty(t, verificationToken)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/verify-email", "", map[string]string{
		"token": verificationToken,
	})
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	user, _ := body["user"].(map[string]any)
	userID, _ := user["id"].(string)
	assert.NotEmpty(t, userID)
	return token, userID
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	app := setupApp(t)

	// Register
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, status)
	verificationToken, _ := body["verification_token"].(string)
	assert.NotEmpty(t, verificationToken)

	// Duplicate username is a conflict
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)

	// Verify email; the token is single-use
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/verify-email", "", map[string]string{"token": verificationToken})
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/verify-email", "", map[string]string{"token": verificationToken})
	assert.Equal(t, http.StatusBadRequest, status)

	// Login and use the token
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/account/", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["is_verified"])

	// Bad password stays out
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app := setupApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/products/", "", map[string]any{
		"title": "No auth", "price": 10.0,
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/notifications/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Public listing works anonymously
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestMarketplaceFlow(t *testing.T) {
	app := setupApp(t)

	sellerToken, sellerID := registerVerifiedUser(t, app, "seller")
	buyerToken, _ := registerVerifiedUser(t, app, "buyer")

	// Seller promotion
	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/account/become-seller", sellerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	// Promotion is one-way and not repeatable
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/account/become-seller", sellerToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Create a listing
	status, product := doJSON(t, app, http.MethodPost, "/api/v1/products/", sellerToken, map[string]any{
		"title":       "Road bike",
		"description": "Lightly used",
		"price":       499.99,
		"condition":   "used",
	})
	assert.Equal(t, http.StatusCreated, status)
	productID, _ := product["id"].(string)
	assert.NotEmpty(t, productID)
	assert.Equal(t, sellerID, product["seller_id"])

	// Buyer views it; the view is counted
	status, viewed := doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, buyerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), viewed["views"])

	// Buyer likes it
	status, likeResp := doJSON(t, app, http.MethodPost, "/api/v1/products/"+productID+"/like", buyerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, likeResp["liked"])
	assert.Equal(t, float64(1), likeResp["likes"])

	// Buyer reviews it
	status, review := doJSON(t, app, http.MethodPost, "/api/v1/reviews/", buyerToken, map[string]any{
		"product_id": productID,
		"rating":     5,
		"comment":    "Rides great",
	})
	assert.Equal(t, http.StatusCreated, status)
	reviewID, _ := review["id"].(string)
	assert.NotEmpty(t, reviewID)

	// A second review of the same product is rejected
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/reviews/", buyerToken, map[string]any{
		"product_id": productID,
		"rating":     1,
		"comment":    "Changed my mind",
	})
	assert.Equal(t, http.StatusConflict, status)

	// The like and the review each notified the seller
	status, notifications := doJSON(t, app, http.MethodGet, "/api/v1/notifications/", sellerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	items, _ := notifications["items"].([]any)
	assert.Len(t, items, 2)

	status, unread := doJSON(t, app, http.MethodGet, "/api/v1/notifications/unread-count", sellerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), unread["unread"])

	// Mark everything read in one go
	status, marked := doJSON(t, app, http.MethodPost, "/api/v1/notifications/read-all", sellerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), marked["updated"])
	status, unread = doJSON(t, app, http.MethodGet, "/api/v1/notifications/unread-count", sellerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), unread["unread"])

	// Only the seller may touch the listing
	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+productID, buyerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Soft delete hides it publicly but keeps the audit view for the owner
	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+productID, sellerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, buyerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, audited := doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID+"/audit", sellerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, audited["is_deleted"])

	// Restore brings it back
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/products/"+productID+"/restore", sellerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, buyerToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestReviewAuditPath(t *testing.T) {
	app := setupApp(t)

	sellerToken, _ := registerVerifiedUser(t, app, "vendor")
	buyerToken, _ := registerVerifiedUser(t, app, "shopper")

	status, product := doJSON(t, app, http.MethodPost, "/api/v1/products/", sellerToken, map[string]any{
		"title": "Turntable", "price": 150.0,
	})
	assert.Equal(t, http.StatusCreated, status)
	productID, _ := product["id"].(string)

	status, review := doJSON(t, app, http.MethodPost, "/api/v1/reviews/", buyerToken, map[string]any{
		"product_id": productID, "rating": 4, "comment": "Solid",
	})
	assert.Equal(t, http.StatusCreated, status)
	reviewID, _ := review["id"].(string)

	// Soft-delete the review
	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/reviews/"+reviewID, buyerToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// Public read misses it, the reviewer's audit read does not
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/reviews/"+reviewID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, audited := doJSON(t, app, http.MethodGet, "/api/v1/reviews/"+reviewID+"/audit", buyerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, audited["is_deleted"])

	// The seller is not the review's owner
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/reviews/"+reviewID+"/audit", sellerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestChatFlowOverHTTP(t *testing.T) {
	app := setupApp(t)

	aliceToken, _ := registerVerifiedUser(t, app, "chat_alice")
	bobToken, bobID := registerVerifiedUser(t, app, "chat_bob")

	status, conversation := doJSON(t, app, http.MethodPost, "/api/v1/conversations/", aliceToken, map[string]any{
		"participant_ids": []string{bobID},
	})
	assert.Equal(t, http.StatusCreated, status)
	conversationID, _ := conversation["id"].(string)
	assert.NotEmpty(t, conversationID)

	status, message := doJSON(t, app, http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", aliceToken, map[string]any{
		"content": "Is the bike still available?",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, message["id"])

	// Bob sees the conversation, the message and a notification
	status, conversations := doJSON(t, app, http.MethodGet, "/api/v1/conversations/", bobToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, conversations["items"].([]any), 1)

	status, messages := doJSON(t, app, http.MethodGet, "/api/v1/conversations/"+conversationID+"/messages", bobToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, messages["items"].([]any), 1)

	status, unread := doJSON(t, app, http.MethodGet, "/api/v1/notifications/unread-count", bobToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), unread["unread"])

	// After Bob blocks Alice, her messages bounce
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", bobToken, map[string]any{
		"content": "Sorry, not selling to you.",
	})
	assert.Equal(t, http.StatusCreated, status)

	// Look up Alice's id from the conversation participants for the block
	status, fetched := doJSON(t, app, http.MethodGet, "/api/v1/conversations/"+conversationID, bobToken, nil)
	assert.Equal(t, http.StatusOK, status)
	var aliceID string
	for _, p := range fetched["participants"].([]any) {
		participant := p.(map[string]any)
		if participant["user_id"].(string) != bobID {
			aliceID = participant["user_id"].(string)
		}
	}
	assert.NotEmpty(t, aliceID)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/users/"+aliceID+"/block", bobToken, map[string]any{"reason": "spam"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", aliceToken, map[string]any{
		"content": "Hello?",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAccountDeletionLocksOut(t *testing.T) {
	app := setupApp(t)
	token, _ := registerVerifiedUser(t, app, "leaver")

	status, _ := doJSON(t, app, http.MethodDelete, "/api/v1/account/", token, nil)
	assert.Equal(t, http.StatusOK, status)

	// The still-unexpired token no longer authenticates
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/account/", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// And the credentials are dead
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "leaver",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPaymentIntent(t *testing.T) {
	app := setupApp(t)
	token, _ := registerVerifiedUser(t, app, "payer")

	status, payment := doJSON(t, app, http.MethodPost, "/api/v1/payments/intent", token, map[string]any{
		"amount":      25.0,
		"description": "Boost package",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", payment["status"])
	assert.Equal(t, "USD", payment["currency"])
	ref, _ := payment["provider_ref"].(string)
	assert.Contains(t, ref, "demo_secret_")

	// Confirm settles the intent exactly once
	paymentID, _ := payment["id"].(string)
	status, confirmed := doJSON(t, app, http.MethodPost, "/api/v1/payments/"+paymentID+"/confirm", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", confirmed["status"])
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/payments/"+paymentID+"/confirm", token, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Another user cannot confirm someone else's payment
	otherToken, _ := registerVerifiedUser(t, app, "bystander")
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/payments/"+paymentID+"/confirm", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, payments := doJSON(t, app, http.MethodGet, "/api/v1/payments/", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, payments["items"].([]any), 1)

	// Zero amounts are rejected
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/payments/intent", token, map[string]any{
		"amount": 0.0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
