package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrLedgerSign is wrapped by every sign-convention violation so callers can
// match the whole family with errors.Is.
var ErrLedgerSign = errors.New("ledger sign violation")

// Ledger transaction types. Credits carry positive amounts, debits negative.
const (
	TxEarnSwap       = "earn_swap"
	TxEarnRedemption = "earn_redemption"
	TxRedeemItem     = "redeem_item"
	TxBonus          = "bonus"
	TxRefund         = "refund"
)

// PointsTransaction is one append-only ledger row. CreatedAt (from gorm.Model)
// is the ledger timestamp. There is no update or delete path.
type PointsTransaction struct {
	gorm.Model
	UserID          uint   `gorm:"not null;index"    json:"user_id"`
	ChangeAmount    int    `gorm:"not null"          json:"change_amount"`
	TransactionType string `gorm:"size:50;not null"  json:"transaction_type"`
	ReferenceID     *uint  `gorm:"index"             json:"reference_id,omitempty"`
}

// ValidateSign enforces the ledger sign convention: earn_*, bonus, and refund
// types must be positive; redeem_* and spend_* types must be negative.
func (t *PointsTransaction) ValidateSign() error {
	if t.ChangeAmount == 0 {
		return fmt.Errorf("%w: change_amount must be non-zero", ErrLedgerSign)
	}
	positive := t.ChangeAmount > 0
	switch {
	case creditType(t.TransactionType):
		if !positive {
			return fmt.Errorf("%w: %s must carry a positive amount", ErrLedgerSign, t.TransactionType)
		}
	case debitType(t.TransactionType):
		if positive {
			return fmt.Errorf("%w: %s must carry a negative amount", ErrLedgerSign, t.TransactionType)
		}
	default:
		return fmt.Errorf("%w: unknown transaction_type %q", ErrLedgerSign, t.TransactionType)
	}
	return nil
}

func creditType(tt string) bool {
	if tt == TxBonus || tt == TxRefund {
		return true
	}
	return len(tt) > 5 && tt[:5] == "earn_"
}

func debitType(tt string) bool {
	if len(tt) > 7 && tt[:7] == "redeem_" {
		return true
	}
	return len(tt) > 6 && tt[:6] == "spend_"
}
