package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Setting keys persisted in the system_settings table.
const (
	SettingPlatformOrangeNumber   = "platform_orange_number"
	SettingTopUpMinAmount         = "topup_min_amount"
	SettingTopUpCommissionPercent = "topup_commission_percent"
	SettingWithdrawFeePercent     = "withdraw_fee_percent"
	SettingMinWithdrawAmount      = "min_withdraw_amount"
	SettingMaxWithdrawAmount      = "max_withdraw_amount"
	SettingHoldPeriodHours        = "hold_period_hours"
)

// WalletSettings are the operator-tunable parameters of the wallet. They are
// read at submission time for the displayed quote and re-read at approval
// time; stored quotes are never the authority for money movement.
type WalletSettings struct {
	// PlatformOrangeNumber is the mobile-money number users send top-ups to.
	PlatformOrangeNumber string
	// TopUpMinAmount is the minimum accepted claimed deposit.
	TopUpMinAmount decimal.Decimal
	// TopUpCommissionPercent is the default platform cut shown to the user;
	// the actual commission follows from the admin-entered credit amount.
	TopUpCommissionPercent decimal.Decimal
	// WithdrawFeePercent is the platform cut taken from each withdrawal.
	WithdrawFeePercent decimal.Decimal
	// MinWithdrawAmount and MaxWithdrawAmount bound a single withdrawal.
	MinWithdrawAmount decimal.Decimal
	MaxWithdrawAmount decimal.Decimal
	// HoldPeriod is how long approved deposits stay non-withdrawable.
	HoldPeriod time.Duration
}
