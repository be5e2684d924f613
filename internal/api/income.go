package api

import (
	"errors"   // Error comparison
	"net/http" // HTTP status codes
	"strings"  // Name trimming

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money values
	"github.com/sirupsen/logrus"    // Logging library

	"gig_ledger/internal/ledger"     // Income ledger
	"gig_ledger/internal/middleware" // Auth helpers
	"gig_ledger/internal/repository" // Persistence contract
	"gig_ledger/internal/utils"      // Cache
	"gig_ledger/pkg/response"        // Response envelope
	"gig_ledger/pkg/validation"      // Field error formatting
)

// maxAmountScale is the number of decimal places accepted on input
const maxAmountScale = 2

// IncomeRequest represents an income deposit
type IncomeRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`         // Gross amount, missing reads as zero
	Source      string          `json:"source" binding:"max=64"`       // Optional origin, e.g. a platform name
	Description string          `json:"description" binding:"max=255"` // Optional free text
}

// IncomeResponse is returned for a committed deposit
type IncomeResponse struct {
	WalletBalance decimal.Decimal `json:"walletBalance"` // Balance after the deposit
	TaxVault      decimal.Decimal `json:"taxVault"`      // Vault after the deposit
	Transaction   TransactionView `json:"transaction"`   // The split that was applied
}

// UpdateUserRequest updates the profile and optionally tops up the wallet
type UpdateUserRequest struct {
	Name        *string         `json:"name" binding:"omitempty,min=2,max=120"` // New display name
	WalletTopUp decimal.Decimal `json:"walletTopUp"`                            // Gross income to deposit, zero skips
}

// amountErrors checks the limits that the binding tags cannot express
func amountErrors(amount, maxDeposit decimal.Decimal) []string {
	var errs []string
	if amount.GreaterThan(maxDeposit) {
		errs = append(errs, "amount must not exceed "+maxDeposit.StringFixed(2))
	}
	if !amount.Equal(amount.Truncate(maxAmountScale)) {
		errs = append(errs, "amount must have at most 2 decimal places")
	}
	return errs
}

// IncomeHandler deposits gross income, splitting it into wallet and tax vault
func IncomeHandler(l *ledger.IncomeLedger, cache *utils.Cache, maxDeposit decimal.Decimal) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			response.WriteError(c, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		var req IncomeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			response.WriteValidation(c, http.StatusBadRequest, "Invalid input", validation.FormatValidationError(err))
			return
		}
		if errs := amountErrors(req.Amount, maxDeposit); len(errs) > 0 {
			response.WriteValidation(c, http.StatusBadRequest, "Invalid input", errs)
			return
		}
		// Run the deposit as one unit of work
		res, err := l.ProcessDeposit(c.Request.Context(), ledger.Deposit{
			UserID:      userID,
			Amount:      req.Amount,
			Source:      strings.TrimSpace(req.Source),
			Description: strings.TrimSpace(req.Description),
		})
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		// Invalidate the balance and history cache
		if err := cache.InvalidateUser(c.Request.Context(), userID); err != nil {
			middleware.Logger(c).WithField("error", err.Error()).Warn("Failed to invalidate cache")
		}
		middleware.Logger(c).WithFields(logrus.Fields{
			"user_id":        userID,                    // Depositing user
			"transaction_id": res.Transaction.ID,        // Income row
			"amount":         req.Amount.StringFixed(2), // Gross amount
		}).Info("Income deposited")
		response.WriteSuccess(c, http.StatusOK, "Income processed successfully", IncomeResponse{
			WalletBalance: res.WalletBalance,
			TaxVault:      res.TaxVault,
			Transaction:   newTransactionView(res.Transaction),
		})
	}
}

// UpdateUserHandler updates the name and routes walletTopUp through the ledger
func UpdateUserHandler(repo repository.Repository, l *ledger.IncomeLedger, cache *utils.Cache, maxDeposit decimal.Decimal) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			response.WriteError(c, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		var req UpdateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			response.WriteValidation(c, http.StatusBadRequest, "Invalid input", validation.FormatValidationError(err))
			return
		}
		// Validate the top-up before touching anything
		if req.WalletTopUp.IsNegative() {
			response.WriteValidation(c, http.StatusBadRequest, "Invalid input", []string{"walletTopUp must be a positive number"})
			return
		}
		topUp := req.WalletTopUp.IsPositive()
		if topUp {
			if errs := amountErrors(req.WalletTopUp, maxDeposit); len(errs) > 0 {
				response.WriteValidation(c, http.StatusBadRequest, "Invalid input", errs)
				return
			}
		}
		ctx := c.Request.Context()
		if req.Name != nil {
			if name := strings.TrimSpace(*req.Name); name != "" {
				if err := repo.UpdateUserName(ctx, userID, name); err != nil {
					if errors.Is(err, repository.ErrUserNotFound) {
						response.WriteError(c, http.StatusNotFound, "User not found", "")
						return
					}
					writeLedgerError(c, err)
					return
				}
			}
		}
		if topUp {
			if _, err := l.Process(ctx, userID, req.WalletTopUp); err != nil {
				writeLedgerError(c, err)
				return
			}
			if err := cache.InvalidateUser(ctx, userID); err != nil {
				middleware.Logger(c).WithField("error", err.Error()).Warn("Failed to invalidate cache")
			}
		}
		user, err := repo.FindUserByID(ctx, userID) // Reload the user with its balances
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				response.WriteError(c, http.StatusNotFound, "User not found", "")
				return
			}
			writeLedgerError(c, err)
			return
		}
		response.WriteSuccess(c, http.StatusOK, "User updated successfully", gin.H{"user": newUserView(user)})
	}
}
