package api

import (
	"strconv" // Query parsing
	"time"    // Transaction dates

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money values

	"gig_ledger/internal/domain"     // Importing domain models
	"gig_ledger/internal/repository" // Paging
	"gig_ledger/pkg/response"        // Response envelope
)

// UserView is the public shape of a user and its balances
type UserView struct {
	ID            uint            `json:"id"`            // User ID
	Name          string          `json:"name"`          // Display name
	Email         string          `json:"email"`         // Login email
	Role          string          `json:"role"`          // User role
	WalletBalance decimal.Decimal `json:"walletBalance"` // Spendable balance
	TaxVault      decimal.Decimal `json:"taxVault"`      // Reserved tax
}

func newUserView(u *domain.User) UserView {
	return UserView{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		WalletBalance: u.Account.WalletBalance,
		TaxVault:      u.Account.TaxVault,
	}
}

// TransactionView is the split of one deposit
type TransactionView struct {
	TotalAmount decimal.Decimal `json:"totalAmount"` // Gross amount
	TaxAmount   decimal.Decimal `json:"taxAmount"`   // Amount moved to the vault
	NetAmount   decimal.Decimal `json:"netAmount"`   // Amount credited to the wallet
	Date        time.Time       `json:"date"`        // Deposit time
}

func newTransactionView(tx domain.IncomeTransaction) TransactionView {
	return TransactionView{
		TotalAmount: tx.TotalAmount,
		TaxAmount:   tx.TaxAmount,
		NetAmount:   tx.NetAmount,
		Date:        tx.Date,
	}
}

// pageFromQuery reads page and limit (page_size is accepted as an alias)
func pageFromQuery(c *gin.Context, defaultSize int) repository.Page {
	p := repository.Page{Number: 1, Size: defaultSize}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Number = v // Set page if valid
	}
	size := c.Query("limit")
	if size == "" {
		size = c.Query("page_size")
	}
	if v, err := strconv.Atoi(size); err == nil && v > 0 {
		p.Size = v // Clamped by Normalize
	}
	return p.Normalize()
}

func pageMeta(p repository.Page, total int64) *response.Meta {
	return &response.Meta{
		Page:       p.Number,
		Limit:      p.Size,
		Total:      total,
		TotalPages: p.TotalPages(total),
	}
}
