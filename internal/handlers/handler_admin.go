package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
	"github.com/konnectsl/wallet_backend/internal/middleware"
)

type adminHandler struct {
	services *portssvc.ServiceContainer
}

// registerAdminRoutes mounts the admin endpoints. The group must already
// carry AdminMiddleware so the admin actor is present in the context.
func registerAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &adminHandler{services: services}

	rg.GET("/topups", h.listTopUpQueue)
	rg.POST("/topups/:id/decision", h.decideTopUp)
	rg.GET("/withdrawals", h.listWithdrawalQueue)
	rg.POST("/withdrawals/:id/decision", h.decideWithdrawal)
	rg.GET("/audit", h.listAuditRecords)
	rg.GET("/ledger", h.listLedgerByReference)
	rg.GET("/users/:id/ledger", h.listUserLedger)
	rg.GET("/users/:id/consistency", h.checkLedgerConsistency)
	rg.POST("/wallet/refund", h.refund)
	rg.PUT("/settings/:key", h.updateSetting)
}

// pendingQueue reads the ?pending= flag, defaulting to the pending queue.
func pendingQueue(c *gin.Context) (bool, error) {
	raw := c.DefaultQuery("pending", "true")
	return strconv.ParseBool(raw)
}

// listTopUpQueue godoc
// @Summary List the top-up review queue
// @Description pending=true returns requests awaiting a decision,
// @Description pending=false the processed ones.
// @Tags admin
// @Produce json
// @Param pending query bool false "Queue selector" default(true)
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTopUpsResponse
// @Security BearerAuth
// @Router /admin/topups [get]
func (h *adminHandler) listTopUpQueue(c *gin.Context) {
	admin, ok := mustAdminActor(c)
	if !ok {
		return
	}
	pending, err := pendingQueue(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pending flag"})
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	res, err := h.services.TopUp.ListTopUpQueue(c.Request.Context(), admin, pending, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list top-up queue")
		return
	}
	c.JSON(http.StatusOK, res)
}

// decideTopUp godoc
// @Summary Decide a top-up request
// @Description Applies an approve, reject or request_info decision. Approval
// @Description credits tokens and books the commission atomically.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param decision body dto.TopUpDecisionRequest true "Decision"
// @Success 200 {object} dto.TopUpResponse
// @Failure 409 {object} map[string]string "Request already processed"
// @Security BearerAuth
// @Router /admin/topups/{id}/decision [post]
func (h *adminHandler) decideTopUp(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	admin, ok := mustAdminActor(c)
	if !ok {
		return
	}
	var req dto.TopUpDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for top-up decision", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	topUp, err := h.services.TopUp.DecideTopUp(c.Request.Context(), admin, c.Param("id"), req.ToDomainDecision())
	if err != nil {
		respondServiceError(c, err, "Failed to process top-up decision")
		return
	}

	logger.Info("Top-up decision processed",
		slog.String("request_id", topUp.RequestID),
		slog.String("decision", req.Type),
		slog.String("status", string(topUp.Status)))
	c.JSON(http.StatusOK, dto.ToTopUpResponse(topUp))
}

// listWithdrawalQueue godoc
// @Summary List the withdrawal review queue
// @Tags admin
// @Produce json
// @Param pending query bool false "Queue selector" default(true)
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListWithdrawalsResponse
// @Security BearerAuth
// @Router /admin/withdrawals [get]
func (h *adminHandler) listWithdrawalQueue(c *gin.Context) {
	admin, ok := mustAdminActor(c)
	if !ok {
		return
	}
	pending, err := pendingQueue(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pending flag"})
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	res, err := h.services.Withdrawal.ListWithdrawalQueue(c.Request.Context(), admin, pending, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list withdrawal queue")
		return
	}
	c.JSON(http.StatusOK, res)
}

// decideWithdrawal godoc
// @Summary Decide a withdrawal request
// @Description Applies a pay or reject decision. Paying re-checks the
// @Description withdrawable balance and debits the wallet atomically.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param decision body dto.WithdrawalDecisionRequest true "Decision"
// @Success 200 {object} dto.WithdrawalResponse
// @Failure 409 {object} map[string]string "Request already processed"
// @Failure 422 {object} map[string]string "Insufficient withdrawable balance"
// @Security BearerAuth
// @Router /admin/withdrawals/{id}/decision [post]
func (h *adminHandler) decideWithdrawal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	admin, ok := mustAdminActor(c)
	if !ok {
		return
	}
	var req dto.WithdrawalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for withdrawal decision", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	withdrawal, err := h.services.Withdrawal.DecideWithdrawal(c.Request.Context(), admin, c.Param("id"), req.ToDomainDecision())
	if err != nil {
		respondServiceError(c, err, "Failed to process withdrawal decision")
		return
	}

	logger.Info("Withdrawal decision processed",
		slog.String("request_id", withdrawal.RequestID),
		slog.String("decision", req.Type),
		slog.String("status", string(withdrawal.Status)))
	c.JSON(http.StatusOK, dto.ToWithdrawalResponse(withdrawal))
}

// listAuditRecords godoc
// @Summary List the privileged-action audit trail
// @Tags admin
// @Produce json
// @Param targetUserID query string false "Filter by target user"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAuditRecordsResponse
// @Security BearerAuth
// @Router /admin/audit [get]
func (h *adminHandler) listAuditRecords(c *gin.Context) {
	admin, ok := mustAdminActor(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	res, err := h.services.Audit.ListAuditRecords(c.Request.Context(), admin, c.Query("targetUserID"), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list audit records")
		return
	}
	c.JSON(http.StatusOK, res)
}

// listLedgerByReference godoc
// @Summary List ledger entries by settlement reference
// @Description Returns every entry linked to one settlement, across accounts.
// @Tags admin
// @Produce json
// @Param reference query string true "Settlement reference"
// @Success 200 {array} dto.LedgerEntryResponse
// @Security BearerAuth
// @Router /admin/ledger [get]
func (h *adminHandler) listLedgerByReference(c *gin.Context) {
	admin, ok := mustAdminActor(c)
	if !ok {
		return
	}
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing reference parameter"})
		return
	}

	entries, err := h.services.Wallet.ListLedgerByReference(c.Request.Context(), admin, reference)
	if err != nil {
		respondServiceError(c, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponses(entries))
}

// listUserLedger godoc
// @Summary List any user's wallet and ledger
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.WalletResponse
// @Security BearerAuth
// @Router /admin/users/{id}/ledger [get]
func (h *adminHandler) listUserLedger(c *gin.Context) {
	admin, ok := mustAdminActor(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	wallet, err := h.services.Wallet.ListUserLedger(c.Request.Context(), admin, c.Param("id"), params)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve user ledger")
		return
	}
	c.JSON(http.StatusOK, wallet)
}

// checkLedgerConsistency godoc
// @Summary Reconcile a user's ledger against the stored balance
// @Description Compares the ledger sum with the denormalized available
// @Description balance. A divergence indicates a settlement defect.
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]bool "consistent"
// @Security BearerAuth
// @Router /admin/users/{id}/consistency [get]
func (h *adminHandler) checkLedgerConsistency(c *gin.Context) {
	admin, ok := mustAdminActor(c)
	if !ok {
		return
	}

	consistent, err := h.services.Wallet.CheckLedgerConsistency(c.Request.Context(), admin, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to check ledger consistency")
		return
	}
	c.JSON(http.StatusOK, gin.H{"consistent": consistent})
}

// refund godoc
// @Summary Refund a previous spend
// @Description Credits tokens back against a spend reference. Refunded value
// @Description is spendable but not withdrawable.
// @Tags admin
// @Accept json
// @Produce json
// @Param refund body dto.RefundRequest true "Refund details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Security BearerAuth
// @Router /admin/wallet/refund [post]
func (h *adminHandler) refund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	admin, ok := mustAdminActor(c)
	if !ok {
		return
	}
	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.services.Wallet.Refund(c.Request.Context(), admin, req)
	if err != nil {
		respondServiceError(c, err, "Failed to process refund")
		return
	}

	logger.Info("Refund settled",
		slog.String("entry_id", entry.EntryID),
		slog.String("user_id", req.UserID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(*entry))
}

// updateSetting godoc
// @Summary Update a wallet setting
// @Tags admin
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param setting body dto.UpdateSettingRequest true "New value"
// @Success 204
// @Failure 400 {object} map[string]string "Unknown key or invalid value"
// @Security BearerAuth
// @Router /admin/settings/{key} [put]
func (h *adminHandler) updateSetting(c *gin.Context) {
	admin, ok := mustAdminActor(c)
	if !ok {
		return
	}
	var req dto.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.services.Settings.UpdateSetting(c.Request.Context(), admin, c.Param("key"), req.Value); err != nil {
		respondServiceError(c, err, "Failed to update setting")
		return
	}
	c.Status(http.StatusNoContent)
}
