package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeStatus is the outcome stored on an income record.
type IncomeStatus string

const (
	IncomeSuccess IncomeStatus = "success"
	IncomeFailed  IncomeStatus = "failed"
)

// IncomeTransaction Model. Append-only: rows are written once and never updated.
type IncomeTransaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`                                 // Primary key
	UserID        uint            `gorm:"index;not null" json:"userId"`                         // Back-reference to the user
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"totalAmount"`       // Gross deposit
	TaxAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"taxAmount"`         // Portion moved to the tax vault
	NetAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"netAmount"`         // Portion credited to the wallet
	Date          time.Time       `gorm:"index;not null" json:"date"`                           // Processing time
	Status        IncomeStatus    `gorm:"size:16;not null;default:success" json:"status"`       // success or failed
	Source        string          `gorm:"size:64" json:"source,omitempty"`                      // Optional income source (platform name)
	Description   string          `gorm:"size:255" json:"description,omitempty"`                // Optional free text
	FailureReason string          `gorm:"size:255" json:"failureReason,omitempty"`              // Set on failed rows only
}

func (IncomeTransaction) TableName() string { return "income_transactions" }

// TopUp Model. Denormalized copy of the wallet side of a successful income
// transaction, used for history pages.
type TopUp struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`                           // Primary key
	UserID              uint            `gorm:"index;not null" json:"userId"`                   // Back-reference to the user
	IncomeTransactionID uint            `gorm:"index;not null" json:"incomeTransactionId"`      // Source income record
	Amount              decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`      // Net amount credited
	Status              IncomeStatus    `gorm:"size:16;not null;default:success" json:"status"` // Always success today
	Date                time.Time       `gorm:"index;not null" json:"date"`                     // Processing time
}

func (TopUp) TableName() string { return "wallet_topups" }
