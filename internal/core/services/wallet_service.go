package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
	"github.com/konnectsl/wallet_backend/internal/utils/money"
)

type walletService struct {
	BaseService
	balanceRepo    portsrepo.BalanceReader
	ledgerRepo     portsrepo.LedgerRepositoryFacade
	settlementRepo portsrepo.SettlementRepository
}

// NewWalletService creates the wallet read/spend service.
func NewWalletService(
	balanceRepo portsrepo.BalanceReader,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	settlementRepo portsrepo.SettlementRepository,
) portssvc.WalletSvcFacade {
	return &walletService{
		balanceRepo:    balanceRepo,
		ledgerRepo:     ledgerRepo,
		settlementRepo: settlementRepo,
	}
}

var _ portssvc.WalletSvcFacade = (*walletService)(nil)

// GetWallet returns the user's balance plus recent ledger activity.
func (s *walletService) GetWallet(ctx context.Context, userID string, params dto.ListParams) (*dto.WalletResponse, error) {
	balance, err := s.balanceRepo.FindBalanceByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, nextToken, err := s.ledgerRepo.ListEntriesByUser(ctx, userID, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return &dto.WalletResponse{
		Balance:   dto.ToBalanceResponse(balance),
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// GetBalance returns the user's current balance.
func (s *walletService) GetBalance(ctx context.Context, userID string) (*domain.Balance, error) {
	return s.balanceRepo.FindBalanceByUserID(ctx, userID)
}

// ListLedgerByReference returns all entries linked to one settlement
// reference. Admin-only: it crosses account boundaries.
func (s *walletService) ListLedgerByReference(ctx context.Context, admin domain.AdminActor, reference string) ([]domain.LedgerEntry, error) {
	return s.ledgerRepo.ListEntriesByReference(ctx, reference)
}

// ListUserLedger returns any user's entries; admin-only.
func (s *walletService) ListUserLedger(ctx context.Context, admin domain.AdminActor, userID string, params dto.ListParams) (*dto.WalletResponse, error) {
	return s.GetWallet(ctx, userID, params)
}

// CheckLedgerConsistency verifies the ledger sum equals the denormalized
// available balance for a user. A divergence is a correctness defect.
func (s *walletService) CheckLedgerConsistency(ctx context.Context, admin domain.AdminActor, userID string) (bool, error) {
	balance, err := s.balanceRepo.FindBalanceByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	sum, err := s.ledgerRepo.SumEntriesByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	consistent := sum.Equal(balance.Available)
	if !consistent {
		s.LogWarn(ctx, "Ledger does not reconcile with balance",
			"user_id", userID, "ledger_sum", sum.String(), "available", balance.Available.String())
	}
	return consistent, nil
}

// Spend debits the user's available balance for a platform action. The
// withdrawable balance is reduced only as far as needed to keep it within
// the new available balance.
func (s *walletService) Spend(ctx context.Context, userID string, req dto.SpendRequest) (*domain.LedgerEntry, error) {
	amount := money.Round(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: spend amount must be positive", apperrors.ErrValidation)
	}

	balance, err := s.balanceRepo.FindBalanceByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance.Available.LessThan(amount) {
		return nil, fmt.Errorf("%w: available %s is less than spend %s",
			apperrors.ErrInsufficientBalance, balance.Available.String(), amount.String())
	}

	delta := domain.BalanceDelta{Available: amount.Neg()}
	// Keep withdrawable <= available after the debit.
	newAvailable := balance.Available.Sub(amount)
	if balance.Withdrawable.GreaterThan(newAvailable) {
		delta.Withdrawable = newAvailable.Sub(balance.Withdrawable)
	}

	now := time.Now()
	entry := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		UserID:       userID,
		Kind:         domain.EntryPurchaseDebit,
		Amount:       amount.Neg(),
		CurrencyCode: domain.DefaultCurrency,
		Reference:    req.Reference,
		ActorID:      userID,
		CreatedAt:    now,
	}
	if req.Notes != "" {
		entry.Metadata = map[string]string{"notes": req.Notes}
	}

	if err := s.settlementRepo.Spend(ctx, entry, delta); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Spend settled", "user_id", userID, "amount", amount.String(), "reference", req.Reference)
	return &entry, nil
}

// Refund credits back a previous spend against the same reference. Refunded
// value is spendable but not withdrawable until it matures through a top-up;
// refunds never increase the withdrawable balance.
func (s *walletService) Refund(ctx context.Context, admin domain.AdminActor, req dto.RefundRequest) (*domain.LedgerEntry, error) {
	amount := money.Round(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: refund amount must be positive", apperrors.ErrValidation)
	}

	// The refund must not exceed what was actually spent on the reference.
	prior, err := s.ledgerRepo.ListEntriesByReference(ctx, req.Reference)
	if err != nil {
		return nil, err
	}
	spent := decimal.Zero
	for _, e := range prior {
		if e.UserID != req.UserID {
			continue
		}
		switch e.Kind {
		case domain.EntryPurchaseDebit:
			spent = spent.Add(e.Amount.Neg())
		case domain.EntryRefund:
			spent = spent.Sub(e.Amount)
		}
	}
	if amount.GreaterThan(spent) {
		return nil, fmt.Errorf("%w: refund %s exceeds refundable %s for reference %s",
			apperrors.ErrValidation, amount.String(), spent.String(), req.Reference)
	}

	now := time.Now()
	entry := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		UserID:       req.UserID,
		Kind:         domain.EntryRefund,
		Amount:       amount,
		CurrencyCode: domain.DefaultCurrency,
		Reference:    req.Reference,
		ActorID:      admin.UserID,
		CreatedAt:    now,
	}
	if req.Notes != "" {
		entry.Metadata = map[string]string{"notes": req.Notes}
	}

	delta := domain.BalanceDelta{Available: amount}
	if err := s.settlementRepo.Spend(ctx, entry, delta); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Refund settled", "user_id", req.UserID, "amount", amount.String(), "reference", req.Reference, "admin_id", admin.UserID)
	return &entry, nil
}
