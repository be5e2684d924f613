package api

import (
	"errors"   // Error comparison
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Password hashing

	"gig_ledger/internal/domain"     // Importing domain models
	"gig_ledger/internal/middleware" // Request-scoped logger
	"gig_ledger/internal/repository" // Persistence contract
	"gig_ledger/internal/utils"      // Utility functions
	"gig_ledger/pkg/response"        // Response envelope
	"gig_ledger/pkg/validation"      // Field error formatting
)

// Request struct for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"` // Display name
	Email    string `json:"email" binding:"required,email"`        // Login email
	Password string `json:"password" binding:"required"`           // Plain password, hashed before storage
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// isValidPassword checks the password length; bcrypt ignores bytes past 72
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72 // Return true if length is valid
}

// RegisterHandler creates a user together with a zero-balance account
func RegisterHandler(repo repository.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			response.WriteValidation(c, http.StatusBadRequest, "Invalid input", validation.FormatValidationError(err))
			return
		}
		// Validate password length
		if !isValidPassword(req.Password) {
			// If password is invalid, return bad request
			response.WriteValidation(c, http.StatusBadRequest, "Invalid input", []string{"Password must be 8-72 characters"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			response.WriteError(c, http.StatusInternalServerError, "Failed to hash password", "")
			return
		}
		user := domain.User{
			Name:     strings.TrimSpace(req.Name),
			Email:    strings.ToLower(strings.TrimSpace(req.Email)), // Lowercase email to ensure uniqueness
			Password: string(hash),
			Role:     domain.RoleUser,
		}
		// Attempt to create the user and its account in the database
		if err := repo.CreateUser(c.Request.Context(), &user); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				response.WriteError(c, http.StatusConflict, "Email already registered", "")
				return
			}
			middleware.Logger(c).WithField("error", err.Error()).Error("Failed to register user")
			response.WriteError(c, http.StatusInternalServerError, "Internal server error", "")
			return
		}
		// Return success response
		response.WriteSuccess(c, http.StatusCreated, "User registered successfully", newUserView(&user))
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(repo repository.Repository, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			response.WriteValidation(c, http.StatusBadRequest, "Invalid input", validation.FormatValidationError(err))
			return
		}
		user, err := repo.FindUserByEmail(c.Request.Context(), strings.TrimSpace(req.Email)) // Fetch user from database
		if err != nil {
			// If user not found, return unauthorized
			response.WriteError(c, http.StatusUnauthorized, "Invalid credentials", "")
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			response.WriteError(c, http.StatusUnauthorized, "Invalid credentials", "")
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Email, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			response.WriteError(c, http.StatusInternalServerError, "Failed to generate token", "")
			return
		}
		// Return the token in the response
		response.WriteSuccess(c, http.StatusOK, "Login successful", AuthResponse{Token: token})
	}
}
