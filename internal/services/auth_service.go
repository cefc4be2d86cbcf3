package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication.
type AuthService struct {
	userRepo   repositories.UserRepository
	recorder   *ActivityService
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, recorder *ActivityService, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		recorder:   recorder,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// RegisterUser registers a new user, hashes their password and issues an
// email verification token. The token is returned so the mail
// collaborator can send it; the account starts unverified.
func (s *AuthService) RegisterUser(user *models.User, origin Origin) (string, error) {
	if _, err := s.userRepo.GetByUsername(user.Username); err == nil {
		return "", fmt.Errorf("username '%s' already taken: %w", user.Username, apperrors.ErrConflict)
	}
	if _, err := s.userRepo.GetByEmail(user.Email); err == nil {
		return "", fmt.Errorf("email '%s' already registered: %w", user.Email, apperrors.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword) // Store the hashed password

	verificationToken := uuid.New().String()
	user.IsVerified = false
	user.EmailVerificationToken = verificationToken
	user.IsActive = true
	user.LastActive = time.Now()

	if err := s.userRepo.Create(user); err != nil {
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	s.recorder.Record(Event{
		ActorID:     user.ID,
		Type:        models.ActivityRegistration,
		Description: "User registered",
		Origin:      origin,
	})

	return verificationToken, nil
}

// LoginUser authenticates a user and returns a JWT token. A banned user
// can still authenticate; the guard rejects their privileged actions
// later. An anonymized (inactive) account cannot.
func (s *AuthService) LoginUser(username, password string, origin Origin) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		// Do not reveal whether the username exists.
		return "", nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrAuthenticationRequired)
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrAuthenticationRequired)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrAuthenticationRequired)
	}

	user.LastActive = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("Warning: failed to update last_active for %s: %v", user.ID, err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":      time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.recorder.Record(Event{
		ActorID:     user.ID,
		Type:        models.ActivityLogin,
		Description: "User logged in",
		Origin:      origin,
	})

	return tokenString, user, nil
}

// Logout records the logout activity. Token invalidation is left to
// expiry; there is no server-side session state.
func (s *AuthService) Logout(actor *models.User, origin Origin) {
	if actor == nil {
		return
	}
	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityLogout,
		Description: "User logged out",
		Origin:      origin,
	})
}

// ChangePassword verifies the old password and stores a new hash.
func (s *AuthService) ChangePassword(actor *models.User, oldPassword, newPassword string, origin Origin) error {
	if err := (Guard{}).Authorize(actor, Action{Resource: "account", Op: OpUpdate}); err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(actor.Password), []byte(oldPassword)); err != nil {
		return fmt.Errorf("current password mismatch: %w", apperrors.ErrValidationFailed)
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("new password too short: %w", apperrors.ErrValidationFailed)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	actor.Password = string(hashedPassword)
	if err := s.userRepo.Update(actor); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityPasswordChange,
		Description: "User changed password",
		Origin:      origin,
	})
	return nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// UserFromClaims loads the authenticated user behind validated claims.
func (s *AuthService) UserFromClaims(claims jwt.MapClaims) (*models.User, error) {
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("token missing user_id: %w", apperrors.ErrAuthenticationRequired)
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("token user lookup: %w", apperrors.ErrAuthenticationRequired)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account deactivated: %w", apperrors.ErrAuthenticationRequired)
	}
	return user, nil
}
