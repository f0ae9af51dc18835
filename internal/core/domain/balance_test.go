package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
)

func balance(available, withdrawable int64) domain.Balance {
	return domain.Balance{
		UserID:       "user-1",
		Available:    decimal.NewFromInt(available),
		Withdrawable: decimal.NewFromInt(withdrawable),
	}
}

func TestBalance_Apply(t *testing.T) {
	tests := []struct {
		name    string
		start   domain.Balance
		delta   domain.BalanceDelta
		wantErr error
	}{
		{
			name:  "top-up credit goes to available only",
			start: balance(0, 0),
			delta: domain.BalanceDelta{
				Available: decimal.NewFromInt(99),
				Deposited: decimal.NewFromInt(99),
			},
		},
		{
			name:  "withdrawal debits both sides",
			start: balance(500, 300),
			delta: domain.BalanceDelta{
				Available:    decimal.NewFromInt(-200),
				Withdrawable: decimal.NewFromInt(-200),
				Withdrawn:    decimal.NewFromInt(200),
			},
		},
		{
			name:  "overdraw available is rejected",
			start: balance(100, 0),
			delta: domain.BalanceDelta{
				Available: decimal.NewFromInt(-150),
			},
			wantErr: apperrors.ErrNegativeBalance,
		},
		{
			name:  "overdraw withdrawable is rejected",
			start: balance(500, 100),
			delta: domain.BalanceDelta{
				Available:    decimal.NewFromInt(-200),
				Withdrawable: decimal.NewFromInt(-200),
			},
			wantErr: apperrors.ErrNegativeBalance,
		},
		{
			name:  "withdrawable cannot exceed available",
			start: balance(100, 50),
			delta: domain.BalanceDelta{
				Withdrawable: decimal.NewFromInt(100),
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:  "lifetime counters cannot decrease",
			start: balance(100, 0),
			delta: domain.BalanceDelta{
				Deposited: decimal.NewFromInt(-10),
			},
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.start.Apply(tt.delta)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, next.Available.Equal(tt.start.Available.Add(tt.delta.Available)))
			assert.True(t, next.Withdrawable.Equal(tt.start.Withdrawable.Add(tt.delta.Withdrawable)))
			assert.False(t, next.Withdrawable.GreaterThan(next.Available))
		})
	}
}

func TestBalance_ApplyFailureLeavesOriginalUntouched(t *testing.T) {
	start := balance(100, 50)

	_, err := start.Apply(domain.BalanceDelta{Available: decimal.NewFromInt(-150)})

	require.Error(t, err)
	assert.True(t, start.Available.Equal(decimal.NewFromInt(100)))
	assert.True(t, start.Withdrawable.Equal(decimal.NewFromInt(50)))
}

func TestNewZeroBalance(t *testing.T) {
	b := domain.NewZeroBalance("user-1", domain.AuditFields{CreatedBy: "user-1"})

	assert.True(t, b.Available.IsZero())
	assert.True(t, b.Withdrawable.IsZero())
	assert.True(t, b.TotalDeposited.IsZero())
	assert.True(t, b.TotalWithdrawn.IsZero())
}
