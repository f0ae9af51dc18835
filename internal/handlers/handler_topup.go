package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
	"github.com/konnectsl/wallet_backend/internal/middleware"
)

type topUpHandler struct {
	topUpSvc    portssvc.TopUpSvcFacade
	evidenceSvc portssvc.EvidenceStoreSvc
}

// registerTopUpRoutes mounts the user-facing top-up endpoints.
func registerTopUpRoutes(rg *gin.RouterGroup, topUpSvc portssvc.TopUpSvcFacade, evidenceSvc portssvc.EvidenceStoreSvc) {
	h := &topUpHandler{topUpSvc: topUpSvc, evidenceSvc: evidenceSvc}

	topups := rg.Group("/topups")
	topups.POST("", h.submitTopUp)
	topups.PUT("/:id", h.resubmitTopUp)
	topups.GET("/:id", h.getTopUp)
	topups.GET("", h.listMyTopUps)
	topups.POST("/evidence", h.uploadEvidence)
}

// submitTopUp godoc
// @Summary Submit a top-up request
// @Description Records an off-band deposit claim for admin review. No tokens
// @Description are credited until an admin approves the request.
// @Tags topups
// @Accept json
// @Produce json
// @Param topup body dto.SubmitTopUpRequest true "Top-up details"
// @Success 201 {object} dto.TopUpResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /topups [post]
func (h *topUpHandler) submitTopUp(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.SubmitTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for top-up submission", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	topUp, err := h.topUpSvc.SubmitTopUp(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to submit top-up request")
		return
	}

	logger.Info("Top-up request submitted", slog.String("request_id", topUp.RequestID))
	c.JSON(http.StatusCreated, dto.ToTopUpResponse(topUp))
}

// resubmitTopUp godoc
// @Summary Correct a top-up request after an info request
// @Description Only the owner may resubmit, and only while the request is not
// @Description yet approved or rejected.
// @Tags topups
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param topup body dto.SubmitTopUpRequest true "Corrected details"
// @Success 200 {object} dto.TopUpResponse
// @Failure 409 {object} map[string]string "Request already processed"
// @Security BearerAuth
// @Router /topups/{id} [put]
func (h *topUpHandler) resubmitTopUp(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.SubmitTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	topUp, err := h.topUpSvc.ResubmitTopUp(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to resubmit top-up request")
		return
	}
	c.JSON(http.StatusOK, dto.ToTopUpResponse(topUp))
}

// getTopUp godoc
// @Summary Get one of the caller's top-up requests
// @Tags topups
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.TopUpResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /topups/{id} [get]
func (h *topUpHandler) getTopUp(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	_, isAdmin := middleware.GetAdminActorFromContext(c)
	topUp, err := h.topUpSvc.GetTopUp(c.Request.Context(), userID, isAdmin, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve top-up request")
		return
	}
	c.JSON(http.StatusOK, dto.ToTopUpResponse(topUp))
}

// listMyTopUps godoc
// @Summary List the caller's top-up requests
// @Tags topups
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTopUpsResponse
// @Security BearerAuth
// @Router /topups [get]
func (h *topUpHandler) listMyTopUps(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	res, err := h.topUpSvc.ListMyTopUps(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list top-up requests")
		return
	}
	c.JSON(http.StatusOK, res)
}

// uploadEvidence godoc
// @Summary Upload payment evidence
// @Description Stores a payment screenshot or receipt and returns the URL to
// @Description reference in a top-up submission.
// @Tags topups
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Evidence file (png, jpg or pdf)"
// @Success 201 {object} map[string]string "evidenceURL"
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /topups/evidence [post]
func (h *topUpHandler) uploadEvidence(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing evidence file: " + err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read evidence file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read evidence file"})
		return
	}

	url, err := h.evidenceSvc.Store(c.Request.Context(), userID, fileHeader.Filename, content)
	if err != nil {
		respondServiceError(c, err, "Failed to store evidence")
		return
	}

	logger.Info("Evidence stored", slog.String("url", url))
	c.JSON(http.StatusCreated, gin.H{"evidenceURL": url})
}
