package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
	"github.com/konnectsl/wallet_backend/internal/middleware"
)

type walletHandler struct {
	walletSvc portssvc.WalletSvcFacade
	notifier  portssvc.NotifierSvc
}

// registerWalletRoutes mounts the authenticated wallet and notification
// endpoints.
func registerWalletRoutes(rg *gin.RouterGroup, walletSvc portssvc.WalletSvcFacade, notifier portssvc.NotifierSvc) {
	h := &walletHandler{walletSvc: walletSvc, notifier: notifier}

	wallet := rg.Group("/wallet")
	wallet.GET("", h.getWallet)
	wallet.GET("/balance", h.getBalance)
	wallet.POST("/spend", h.spend)

	notifications := rg.Group("/notifications")
	notifications.GET("", h.listNotifications)
	notifications.POST("/:id/read", h.markNotificationRead)
}

// getWallet godoc
// @Summary Get the caller's wallet
// @Description Returns the balance plus recent ledger activity
// @Tags wallet
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.WalletResponse
// @Security BearerAuth
// @Router /wallet [get]
func (h *walletHandler) getWallet(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve wallet")
		return
	}
	c.JSON(http.StatusOK, wallet)
}

// getBalance godoc
// @Summary Get the caller's balance
// @Tags wallet
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Security BearerAuth
// @Router /wallet/balance [get]
func (h *walletHandler) getBalance(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	balance, err := h.walletSvc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance))
}

// spend godoc
// @Summary Spend tokens on a platform action
// @Description Debits the available balance; fails on insufficient funds
// @Tags wallet
// @Accept json
// @Produce json
// @Param spend body dto.SpendRequest true "Spend details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Security BearerAuth
// @Router /wallet/spend [post]
func (h *walletHandler) spend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for spend", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.walletSvc.Spend(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to spend")
		return
	}

	logger.Info("Spend settled", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(*entry))
}

// listNotifications godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.ListNotificationsResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *walletHandler) listNotifications(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	res, err := h.notifier.ListMyNotifications(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, res)
}

// markNotificationRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *walletHandler) markNotificationRead(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.notifier.MarkRead(c.Request.Context(), userID, c.Param("id"), time.Now()); err != nil {
		respondServiceError(c, err, "Failed to mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}
