package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/metrics"
)

// maturationBatchSize bounds one scheduler run.
const maturationBatchSize = 200

// systemActorID attributes scheduled promotions in the audit trail.
const systemActorID = "system"

type maturationService struct {
	BaseService
	topUpRepo      portsrepo.TopUpReader
	settlementRepo portsrepo.SettlementRepository
	notifier       portssvc.NotifierSvc
}

// NewMaturationService creates the held-funds maturation job service.
func NewMaturationService(
	topUpRepo portsrepo.TopUpReader,
	settlementRepo portsrepo.SettlementRepository,
	notifier portssvc.NotifierSvc,
) portssvc.MaturationSvc {
	return &maturationService{
		topUpRepo:      topUpRepo,
		settlementRepo: settlementRepo,
		notifier:       notifier,
	}
}

var _ portssvc.MaturationSvc = (*maturationService)(nil)

// ReleaseMaturedHolds promotes every approved top-up whose hold period has
// passed. Each promotion is its own transaction guarded by a conditional
// flag update, so overlapping runs cannot double-promote and one failure
// does not block the rest of the batch.
func (s *maturationService) ReleaseMaturedHolds(ctx context.Context) (int, error) {
	now := time.Now()
	matured, err := s.topUpRepo.ListMaturedHolds(ctx, now, maturationBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list matured holds: %w", err)
	}

	released := 0
	for _, req := range matured {
		audit := domain.AuditRecord{
			RecordID:         uuid.NewString(),
			AdminID:          systemActorID,
			Action:           "release_hold",
			TargetUserID:     req.UserID,
			TargetEntityType: "topup_request",
			TargetEntityID:   req.RequestID,
			Details:          map[string]string{"tokens_credited": req.TokensCredited.String()},
			CreatedAt:        now,
		}

		err := s.settlementRepo.ReleaseTopUpHold(ctx, req.RequestID, req.UserID, req.TokensCredited, now, audit)
		if err != nil {
			if errors.Is(err, apperrors.ErrAlreadyProcessed) {
				continue // raced with a concurrent run
			}
			s.LogError(ctx, err, "Failed to release matured hold", "request_id", req.RequestID)
			continue
		}

		released++
		metrics.HoldsReleasedTotal.Inc()
		s.notifier.Notify(ctx, newNotification(req.UserID, domain.NotifyTopUpReleased,
			"Funds available for withdrawal",
			fmt.Sprintf("%s tokens from your top-up are now withdrawable.", req.TokensCredited.String()),
			req.RequestID, now))
	}

	if released > 0 {
		s.LogInfo(ctx, "Matured holds released", "count", released)
	}
	return released, nil
}
