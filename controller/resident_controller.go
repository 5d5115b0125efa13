package controller

import (
	"net/http"

	"wastewise-backend/models"
	"wastewise-backend/services"
	"wastewise-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ResidentController serves the resident's own pickup requests and QR code
type ResidentController struct {
	pickupService       services.PickupServiceInterface
	verificationService services.VerificationServiceInterface
	validator           *validator.Validate
	logger              logger.Logger
}

func NewResidentController(pickupService services.PickupServiceInterface, verificationService services.VerificationServiceInterface, log logger.Logger) *ResidentController {
	return &ResidentController{
		pickupService:       pickupService,
		verificationService: verificationService,
		validator:           validator.New(),
		logger:              log,
	}
}

// ListRequests handles GET /api/v1/resident/requests
// @Summary List my pickup requests
// @Description Newest first
// @Tags Resident
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.PickupView} "Pickup requests retrieved successfully"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 403 {object} models.APIResponse "Forbidden - Residents only"
// @Router /resident/requests [get]
func (h *ResidentController) ListRequests(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	views, err := h.pickupService.ListForResident(c.Request.Context(), actor)
	if err != nil {
		respondError(c, "Failed to list pickup requests", err)
		return
	}
	respondSuccess(c, http.StatusOK, "Pickup requests retrieved successfully", views)
}

// CreateRequest handles POST /api/v1/resident/requests
// @Summary Create a pickup request
// @Description The request starts PENDING with a generated request code
// @Tags Resident
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreatePickupRequest true "Pickup request"
// @Success 201 {object} models.APIResponse{data=models.PickupView} "Pickup request created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid pickup request"
// @Failure 403 {object} models.APIResponse "Forbidden - Residents only"
// @Router /resident/requests [post]
func (h *ResidentController) CreateRequest(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var req models.CreatePickupRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	view, err := h.pickupService.CreateRequest(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, "Failed to create pickup request", err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Pickup request created successfully", view)
}

// GetRequest handles GET /api/v1/resident/requests/{id}
// @Summary Get one of my pickup requests
// @Tags Resident
// @Security BearerAuth
// @Produce json
// @Param id path string true "Pickup request ID"
// @Success 200 {object} models.APIResponse{data=models.PickupView} "Pickup request retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /resident/requests/{id} [get]
func (h *ResidentController) GetRequest(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	view, err := h.pickupService.GetForResident(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get pickup request", err)
		return
	}
	respondSuccess(c, http.StatusOK, "Pickup request retrieved successfully", view)
}

// GetQRCode handles GET /api/v1/resident/qr-code
// @Summary Get my verification QR code
// @Description Returns the signed payload and a base64 PNG rendering
// @Tags Resident
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.QRCode} "QR code issued successfully"
// @Failure 403 {object} models.APIResponse "Forbidden - Residents only"
// @Router /resident/qr-code [get]
func (h *ResidentController) GetQRCode(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	code, err := h.verificationService.IssueQRCode(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, "Failed to issue QR code", err)
		return
	}
	respondSuccess(c, http.StatusOK, "QR code issued successfully", code)
}

// GetQRCodePNG handles GET /api/v1/resident/qr-code.png
// @Summary Get my verification QR code as an image
// @Tags Resident
// @Security BearerAuth
// @Produce png
// @Success 200 {file} binary "QR code image"
// @Failure 403 {object} models.APIResponse "Forbidden - Residents only"
// @Router /resident/qr-code.png [get]
func (h *ResidentController) GetQRCodePNG(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	png, err := h.verificationService.QRCodePNG(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, "Failed to render QR code", err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
