package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
	"github.com/konnectsl/wallet_backend/internal/middleware"
)

type withdrawalHandler struct {
	withdrawalSvc portssvc.WithdrawalSvcFacade
}

// registerWithdrawalRoutes mounts the user-facing withdrawal endpoints.
func registerWithdrawalRoutes(rg *gin.RouterGroup, withdrawalSvc portssvc.WithdrawalSvcFacade) {
	h := &withdrawalHandler{withdrawalSvc: withdrawalSvc}

	withdrawals := rg.Group("/withdrawals")
	withdrawals.GET("/quote", h.quoteWithdrawal)
	withdrawals.POST("", h.submitWithdrawal)
	withdrawals.GET("/:id", h.getWithdrawal)
	withdrawals.GET("", h.listMyWithdrawals)
}

// quoteWithdrawal godoc
// @Summary Preview the fee for a withdrawal amount
// @Description Display-only: the fee is recomputed from current settings when
// @Description an admin marks the request paid.
// @Tags withdrawals
// @Produce json
// @Param amount query string true "Requested amount"
// @Success 200 {object} dto.WithdrawalQuoteResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /withdrawals/quote [get]
func (h *withdrawalHandler) quoteWithdrawal(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: " + err.Error()})
		return
	}

	quote, err := h.withdrawalSvc.QuoteWithdrawal(c.Request.Context(), amount)
	if err != nil {
		respondServiceError(c, err, "Failed to compute withdrawal quote")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// submitWithdrawal godoc
// @Summary Submit a withdrawal request
// @Description Checks the withdrawable balance and creates a PENDING request.
// @Description Funds stay in the wallet until an admin pays out.
// @Tags withdrawals
// @Accept json
// @Produce json
// @Param withdrawal body dto.SubmitWithdrawalRequest true "Withdrawal details"
// @Success 201 {object} dto.WithdrawalResponse
// @Failure 422 {object} map[string]string "Insufficient withdrawable balance"
// @Security BearerAuth
// @Router /withdrawals [post]
func (h *withdrawalHandler) submitWithdrawal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.SubmitWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for withdrawal submission", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	withdrawal, err := h.withdrawalSvc.SubmitWithdrawal(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to submit withdrawal request")
		return
	}

	logger.Info("Withdrawal request submitted", slog.String("request_id", withdrawal.RequestID))
	c.JSON(http.StatusCreated, dto.ToWithdrawalResponse(withdrawal))
}

// getWithdrawal godoc
// @Summary Get one of the caller's withdrawal requests
// @Tags withdrawals
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.WithdrawalResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /withdrawals/{id} [get]
func (h *withdrawalHandler) getWithdrawal(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	_, isAdmin := middleware.GetAdminActorFromContext(c)
	withdrawal, err := h.withdrawalSvc.GetWithdrawal(c.Request.Context(), userID, isAdmin, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve withdrawal request")
		return
	}
	c.JSON(http.StatusOK, dto.ToWithdrawalResponse(withdrawal))
}

// listMyWithdrawals godoc
// @Summary List the caller's withdrawal requests
// @Tags withdrawals
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListWithdrawalsResponse
// @Security BearerAuth
// @Router /withdrawals [get]
func (h *withdrawalHandler) listMyWithdrawals(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	res, err := h.withdrawalSvc.ListMyWithdrawals(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list withdrawal requests")
		return
	}
	c.JSON(http.StatusOK, res)
}
