package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rewearhq/rewear/app/models"
)

func TestValidateSign(t *testing.T) {
	cases := []struct {
		name   string
		txType string
		amount int
		ok     bool
	}{
		{"earn_swap positive", models.TxEarnSwap, 20, true},
		{"earn_swap negative", models.TxEarnSwap, -20, false},
		{"earn_redemption positive", models.TxEarnRedemption, 5, true},
		{"custom earn prefix positive", "earn_listing", 10, true},
		{"redeem_item negative", models.TxRedeemItem, -20, true},
		{"redeem_item positive", models.TxRedeemItem, 20, false},
		{"custom spend prefix negative", "spend_boost", -3, true},
		{"bonus positive", models.TxBonus, 1, true},
		{"bonus negative", models.TxBonus, -1, false},
		{"refund positive", models.TxRefund, 20, true},
		{"zero amount", models.TxBonus, 0, false},
		{"unknown type", "gift", 10, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := models.PointsTransaction{
				UserID:          1,
				ChangeAmount:    tc.amount,
				TransactionType: tc.txType,
			}
			err := tx.ValidateSign()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, models.ErrLedgerSign)
			}
		})
	}
}

func TestSwapIsTerminal(t *testing.T) {
	terminal := []string{
		models.SwapStatusRejected,
		models.SwapStatusCancelled,
		models.SwapStatusCompleted,
	}
	for _, status := range terminal {
		s := models.Swap{Status: status}
		assert.True(t, s.IsTerminal(), status)
	}
	for _, status := range []string{models.SwapStatusPending, models.SwapStatusAccepted} {
		s := models.Swap{Status: status}
		assert.False(t, s.IsTerminal(), status)
	}
}
