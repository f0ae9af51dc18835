package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
)

// Defaults applied when a setting key is absent from the table.
var defaultWalletSettings = domain.WalletSettings{
	TopUpMinAmount:         decimal.NewFromInt(50),
	TopUpCommissionPercent: decimal.NewFromInt(2),
	WithdrawFeePercent:     decimal.NewFromInt(2),
	MinWithdrawAmount:      decimal.NewFromInt(50),
	MaxWithdrawAmount:      decimal.NewFromInt(50000),
	HoldPeriod:             72 * time.Hour,
}

var settingKeys = []string{
	domain.SettingPlatformOrangeNumber,
	domain.SettingTopUpMinAmount,
	domain.SettingTopUpCommissionPercent,
	domain.SettingWithdrawFeePercent,
	domain.SettingMinWithdrawAmount,
	domain.SettingMaxWithdrawAmount,
	domain.SettingHoldPeriodHours,
}

type settingsService struct {
	BaseService
	settingsRepo portsrepo.SettingsRepositoryFacade
}

// NewSettingsService creates the settings service.
func NewSettingsService(settingsRepo portsrepo.SettingsRepositoryFacade) portssvc.SettingsSvcFacade {
	return &settingsService{settingsRepo: settingsRepo}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetWalletSettings reads the current wallet parameters, falling back to
// defaults for absent keys. Values are read fresh on every call.
func (s *settingsService) GetWalletSettings(ctx context.Context) (domain.WalletSettings, error) {
	raw, err := s.settingsRepo.GetSettings(ctx, settingKeys)
	if err != nil {
		return domain.WalletSettings{}, fmt.Errorf("failed to load wallet settings: %w", err)
	}

	settings := defaultWalletSettings
	if v, ok := raw[domain.SettingPlatformOrangeNumber]; ok {
		settings.PlatformOrangeNumber = v
	}
	if d, ok := parseDecimalSetting(raw, domain.SettingTopUpMinAmount); ok {
		settings.TopUpMinAmount = d
	}
	if d, ok := parseDecimalSetting(raw, domain.SettingTopUpCommissionPercent); ok {
		settings.TopUpCommissionPercent = d
	}
	if d, ok := parseDecimalSetting(raw, domain.SettingWithdrawFeePercent); ok {
		settings.WithdrawFeePercent = d
	}
	if d, ok := parseDecimalSetting(raw, domain.SettingMinWithdrawAmount); ok {
		settings.MinWithdrawAmount = d
	}
	if d, ok := parseDecimalSetting(raw, domain.SettingMaxWithdrawAmount); ok {
		settings.MaxWithdrawAmount = d
	}
	if v, ok := raw[domain.SettingHoldPeriodHours]; ok {
		if hours, err := strconv.Atoi(v); err == nil && hours >= 0 {
			settings.HoldPeriod = time.Duration(hours) * time.Hour
		}
	}
	return settings, nil
}

func parseDecimalSetting(raw map[string]string, key string) (decimal.Decimal, bool) {
	v, ok := raw[key]
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// UpdateSetting upserts one setting value after validating it parses for
// its key.
func (s *settingsService) UpdateSetting(ctx context.Context, admin domain.AdminActor, key, value string) error {
	switch key {
	case domain.SettingPlatformOrangeNumber:
		// free-form
	case domain.SettingHoldPeriodHours:
		if hours, err := strconv.Atoi(value); err != nil || hours < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", apperrors.ErrValidation, key)
		}
	case domain.SettingTopUpMinAmount, domain.SettingTopUpCommissionPercent,
		domain.SettingWithdrawFeePercent, domain.SettingMinWithdrawAmount,
		domain.SettingMaxWithdrawAmount:
		d, err := decimal.NewFromString(value)
		if err != nil || d.IsNegative() {
			return fmt.Errorf("%w: %s must be a non-negative number", apperrors.ErrValidation, key)
		}
	default:
		return fmt.Errorf("%w: unknown setting key %s", apperrors.ErrValidation, key)
	}

	if err := s.settingsRepo.PutSetting(ctx, key, value, admin.UserID); err != nil {
		return fmt.Errorf("failed to update setting %s: %w", key, err)
	}
	s.LogInfo(ctx, "Setting updated", "key", key, "admin_id", admin.UserID)
	return nil
}
