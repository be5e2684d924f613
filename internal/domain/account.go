package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultHealthScore is assigned at signup.
const DefaultHealthScore = 100

// Account Model. Balances are only changed by the income ledger; the health
// score belongs to other processes and is read-only here.
type Account struct {
	ID     uint `gorm:"primaryKey" json:"-"`
	UserID uint `gorm:"uniqueIndex;not null" json:"userId"`

	// Spendable funds.
	WalletBalance decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0;check:chk_accounts_wallet,wallet_balance >= 0" json:"walletBalance"`
	// Reserved tax funds, released only inside the filing season.
	TaxVault decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0;check:chk_accounts_vault,tax_vault >= 0" json:"taxVault"`
	// Behavioral score in [0,100].
	HealthScore int `gorm:"not null;default:100;check:chk_accounts_score,health_score BETWEEN 0 AND 100" json:"healthScore"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// NewAccount returns the zero-balance account created at signup.
func NewAccount(userID uint) Account {
	return Account{
		UserID:        userID,
		WalletBalance: decimal.Zero,
		TaxVault:      decimal.Zero,
		HealthScore:   DefaultHealthScore,
	}
}
