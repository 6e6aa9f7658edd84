// Package seller serves seller connection, catalog and session health endpoints.
package seller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogusecases "github.com/pinegate/pinegate/internal/application/catalog/usecases"
	"github.com/pinegate/pinegate/internal/application/seller/usecases"
	"github.com/pinegate/pinegate/internal/interfaces/http/middleware"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
	"github.com/pinegate/pinegate/internal/shared/utils"
)

type Handler struct {
	connectUC    connectSellerUseCase
	getUC        sellerIDUseCase
	testUC       sellerIDUseCase
	disconnectUC sellerIDUseCase
	syncUC       syncCatalogUseCase
	listUC       listCatalogUseCase
	probeUC      probeSessionsUseCase
	logger       logger.Interface
}

func NewHandler(
	connectUC connectSellerUseCase,
	getUC sellerIDUseCase,
	testUC sellerIDUseCase,
	disconnectUC sellerIDUseCase,
	syncUC syncCatalogUseCase,
	listUC listCatalogUseCase,
	probeUC probeSessionsUseCase,
	logger logger.Interface,
) *Handler {
	return &Handler{
		connectUC:    connectUC,
		getUC:        getUC,
		testUC:       testUC,
		disconnectUC: disconnectUC,
		syncUC:       syncUC,
		listUC:       listUC,
		probeUC:      probeUC,
		logger:       logger,
	}
}

// Connect handles PUT /sellers/:id/connection
func (h *Handler) Connect(c *gin.Context) {
	sellerID, err := parseSellerID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ConnectSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for connect seller", "seller_id", sellerID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.connectUC.Execute(c.Request.Context(), usecases.ConnectSellerCommand{
		SellerID:         sellerID,
		PlatformUsername: req.PlatformUsername,
		SessionID:        req.SessionID,
		SessionSign:      req.SessionSign,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("seller connection updated", "seller_id", sellerID, "actor", middleware.ActorFromContext(c))
	utils.SuccessResponse(c, http.StatusOK, "Seller connection saved", result)
}

// GetConnection handles GET /sellers/:id/connection
func (h *Handler) GetConnection(c *gin.Context) {
	h.bySeller(c, h.getUC, "")
}

// TestConnection handles POST /sellers/:id/connection/test
func (h *Handler) TestConnection(c *gin.Context) {
	h.bySeller(c, h.testUC, "Seller connection tested")
}

// Disconnect handles DELETE /sellers/:id/connection
func (h *Handler) Disconnect(c *gin.Context) {
	h.bySeller(c, h.disconnectUC, "Seller disconnected")
}

func (h *Handler) bySeller(c *gin.Context, uc sellerIDUseCase, message string) {
	sellerID, err := parseSellerID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := uc.Execute(c.Request.Context(), sellerID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, message, result)
}

// SyncCatalog handles POST /sellers/:id/catalog/sync
func (h *Handler) SyncCatalog(c *gin.Context) {
	sellerID, err := parseSellerID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.syncUC.Execute(c.Request.Context(), catalogusecases.SyncCatalogCommand{SellerID: sellerID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Catalog synchronized", result)
}

// ListCatalog handles GET /sellers/:id/catalog
func (h *Handler) ListCatalog(c *gin.Context) {
	sellerID, err := parseSellerID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	p := utils.ParseListParams(c)
	result, err := h.listUC.Execute(c.Request.Context(), catalogusecases.ListCatalogQuery{
		SellerID:  sellerID,
		Page:      p.Page.Page,
		PageSize:  p.Page.PageSize,
		SortBy:    p.Sort.SortBy,
		SortOrder: p.Sort.SortOrder,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// CheckSessions handles POST /health/sessions/check
func (h *Handler) CheckSessions(c *gin.Context) {
	result, err := h.probeUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Session health check completed", result)
}

func parseSellerID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid seller ID")
	}
	return uint(id), nil
}
