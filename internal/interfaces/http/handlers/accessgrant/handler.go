// Package accessgrant serves the grant lifecycle endpoints used by the marketplace backend.
package accessgrant

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pinegate/pinegate/internal/application/accessgrant/usecases"
	"github.com/pinegate/pinegate/internal/interfaces/http/middleware"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
	"github.com/pinegate/pinegate/internal/shared/utils"
)

type Handler struct {
	createGrantUC createGrantUseCase
	getGrantUC    getGrantUseCase
	listLogsUC    listGrantLogsUseCase
	assignUC      assignAccessUseCase
	revokeUC      revokeAccessUseCase
	retryUC       retryGrantUseCase
	verifyUC      verifyAccessUseCase
	logger        logger.Interface
}

func NewHandler(
	createGrantUC createGrantUseCase,
	getGrantUC getGrantUseCase,
	listLogsUC listGrantLogsUseCase,
	assignUC assignAccessUseCase,
	revokeUC revokeAccessUseCase,
	retryUC retryGrantUseCase,
	verifyUC verifyAccessUseCase,
	logger logger.Interface,
) *Handler {
	return &Handler{
		createGrantUC: createGrantUC,
		getGrantUC:    getGrantUC,
		listLogsUC:    listLogsUC,
		assignUC:      assignUC,
		revokeUC:      revokeUC,
		retryUC:       retryUC,
		verifyUC:      verifyUC,
		logger:        logger,
	}
}

// CreateGrant handles POST /access/grants
func (h *Handler) CreateGrant(c *gin.Context) {
	var req CreateGrantRequest
	if err := bindRequest(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create grant", "error", err)
		utils.GrantFailureResponse(c, err, 0, nil)
		return
	}

	result, err := h.createGrantUC.Execute(c.Request.Context(), usecases.CreateGrantCommand{
		PurchaseID:            req.PurchaseID,
		SellerID:              req.SellerID,
		BuyerID:               req.BuyerID,
		ProgramID:             req.ProgramID,
		PineID:                req.PineID,
		BuyerUsername:         req.BuyerUsername,
		AccessType:            req.AccessType,
		TrialDurationDays:     req.TrialDurationDays,
		SubscriptionExpiresAt: req.SubscriptionExpiresAt,
	})
	if err != nil {
		utils.GrantFailureResponse(c, err, 0, nil)
		return
	}

	utils.CreatedResponse(c, result, "Access grant created")
}

// GetGrant handles GET /access/grants/:id
func (h *Handler) GetGrant(c *gin.Context) {
	grantID, err := parseGrantID(c)
	if err != nil {
		utils.GrantFailureResponse(c, err, 0, nil)
		return
	}

	result, err := h.getGrantUC.Execute(c.Request.Context(), grantID)
	if err != nil {
		utils.GrantFailureResponse(c, err, grantID, nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListLogs handles GET /access/grants/:id/logs
func (h *Handler) ListLogs(c *gin.Context) {
	grantID, err := parseGrantID(c)
	if err != nil {
		utils.GrantFailureResponse(c, err, 0, nil)
		return
	}

	result, err := h.listLogsUC.Execute(c.Request.Context(), grantID)
	if err != nil {
		utils.GrantFailureResponse(c, err, grantID, nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Assign handles POST /access/assign
func (h *Handler) Assign(c *gin.Context) {
	var req AssignAccessRequest
	if err := bindRequest(c, &req); err != nil {
		h.logger.Warnw("invalid request body for assign access", "error", err)
		utils.GrantFailureResponse(c, err, req.GrantID, nil)
		return
	}

	result, err := h.assignUC.Execute(c.Request.Context(), usecases.AssignAccessCommand{
		GrantID:               req.GrantID,
		PineID:                req.PineID,
		BuyerUsername:         req.BuyerUsername,
		AccessType:            req.AccessType,
		TrialDurationDays:     req.TrialDurationDays,
		SubscriptionExpiresAt: req.SubscriptionExpiresAt,
		Actor:                 middleware.ActorFromContext(c),
	})
	if err != nil {
		h.grantFailure(c, err, req.GrantID)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Revoke handles POST /access/revoke
func (h *Handler) Revoke(c *gin.Context) {
	var req RevokeAccessRequest
	if err := bindRequest(c, &req); err != nil {
		h.logger.Warnw("invalid request body for revoke access", "error", err)
		utils.GrantFailureResponse(c, err, req.GrantID, nil)
		return
	}

	result, err := h.revokeUC.Execute(c.Request.Context(), usecases.RevokeAccessCommand{
		GrantID:       req.GrantID,
		PineID:        req.PineID,
		BuyerUsername: req.BuyerUsername,
		Actor:         middleware.ActorFromContext(c),
	})
	if err != nil {
		h.grantFailure(c, err, req.GrantID)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Retry handles POST /access/grants/:id/retry
func (h *Handler) Retry(c *gin.Context) {
	grantID, err := parseGrantID(c)
	if err != nil {
		utils.GrantFailureResponse(c, err, 0, nil)
		return
	}

	result, err := h.retryUC.Execute(c.Request.Context(), usecases.RetryGrantCommand{
		GrantID: grantID,
		Actor:   middleware.ActorFromContext(c),
	})
	if err != nil {
		h.grantFailure(c, err, grantID)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Verify handles GET /access/grants/:id/verify
func (h *Handler) Verify(c *gin.Context) {
	grantID, err := parseGrantID(c)
	if err != nil {
		utils.GrantFailureResponse(c, err, 0, nil)
		return
	}

	result, err := h.verifyUC.Execute(c.Request.Context(), grantID)
	if err != nil {
		utils.GrantFailureResponse(c, err, grantID, nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// grantFailure renders a failed attempt with the diagnostics stored on the grant.
func (h *Handler) grantFailure(c *gin.Context, err error, grantID uint) {
	var failure *usecases.GrantFailure
	if stderrors.As(err, &failure) {
		utils.GrantFailureResponse(c, failure.Err, failure.GrantID, failure.Details)
		return
	}
	if !errors.IsAppError(err) {
		h.logger.Errorw("grant operation failed", "grant_id", grantID, "error", err)
	}
	utils.GrantFailureResponse(c, err, grantID, nil)
}

func bindRequest(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.NewValidationError("invalid request body", err.Error())
	}
	return utils.ValidateStruct(req)
}

func parseGrantID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid grant ID")
	}
	return uint(id), nil
}
