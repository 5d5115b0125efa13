package controller

import (
	"io"
	"net/http"
	"strings"

	"wastewise-backend/models"
	"wastewise-backend/services"
	"wastewise-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const maxProofPhotoBytes = 10 << 20

// CrewController serves a collection crew member's assignments
type CrewController struct {
	pickupService   services.PickupServiceInterface
	workflowService services.WorkflowServiceInterface
	validator       *validator.Validate
	logger          logger.Logger
}

func NewCrewController(pickupService services.PickupServiceInterface, workflowService services.WorkflowServiceInterface, log logger.Logger) *CrewController {
	return &CrewController{
		pickupService:   pickupService,
		workflowService: workflowService,
		validator:       validator.New(),
		logger:          log,
	}
}

// ListAssignments handles GET /api/v1/crew/pickup-requests
// @Summary List my active assignments
// @Description APPROVED and IN_PROGRESS requests assigned to the caller, by scheduled date
// @Tags Collection Crew
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.PickupView} "Assignments retrieved successfully"
// @Failure 403 {object} models.APIResponse "Forbidden - Crew members only"
// @Router /crew/pickup-requests [get]
func (h *CrewController) ListAssignments(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	views, err := h.pickupService.ListAssignedToCrew(c.Request.Context(), actor)
	if err != nil {
		respondError(c, "Failed to list assignments", err)
		return
	}
	respondSuccess(c, http.StatusOK, "Assignments retrieved successfully", views)
}

// StartCollection handles PUT /api/v1/crew/pickup-requests/{id}/start
// @Summary Start a collection
// @Tags Collection Crew
// @Security BearerAuth
// @Produce json
// @Param id path string true "Pickup request ID"
// @Success 200 {object} models.APIResponse{data=models.PickupView} "Collection started"
// @Failure 403 {object} models.APIResponse "Forbidden - Not assigned to this request"
// @Failure 409 {object} models.APIResponse "Conflict - Invalid transition or concurrent update"
// @Router /crew/pickup-requests/{id}/start [put]
func (h *CrewController) StartCollection(c *gin.Context) {
	h.transition(c, models.PickupStatusInProgress, &models.TransitionPayload{}, "Collection started")
}

// CompleteCollection handles PUT /api/v1/crew/pickup-requests/{id}/complete
// @Summary Complete a collection
// @Description Requires the resident's scanned QR token. Accepts JSON {token} or multipart token + optional photo.
// @Tags Collection Crew
// @Security BearerAuth
// @Accept json
// @Accept mpfd
// @Produce json
// @Param id path string true "Pickup request ID"
// @Param request body models.CompletePickupRequest false "Scanned token (JSON form)"
// @Param token formData string false "Scanned token (multipart form)"
// @Param photo formData file false "Proof-of-collection photo"
// @Success 200 {object} models.APIResponse{data=models.PickupView} "Collection completed"
// @Failure 403 {object} models.APIResponse "Forbidden - Verification failed or not assigned"
// @Failure 409 {object} models.APIResponse "Conflict - Invalid transition or concurrent update"
// @Router /crew/pickup-requests/{id}/complete [put]
func (h *CrewController) CompleteCollection(c *gin.Context) {
	payload := &models.TransitionPayload{}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		payload.Token = c.PostForm("token")

		photo, err := readProofPhoto(c)
		if err != nil {
			respondBadRequest(c, err.Error(), "photo")
			return
		}
		payload.Photo = photo
	} else if c.Request.ContentLength != 0 {
		var req models.CompletePickupRequest
		if !bindJSON(c, h.validator, &req) {
			return
		}
		payload.Token = req.Token
	}

	h.transition(c, models.PickupStatusCompleted, payload, "Collection completed")
}

func (h *CrewController) transition(c *gin.Context, desired models.PickupStatus, payload *models.TransitionPayload, message string) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	updated, err := h.workflowService.AttemptTransition(c.Request.Context(), actor, c.Param("id"), desired, payload)
	if err != nil {
		respondError(c, "Failed to update pickup request", err)
		return
	}

	view, err := h.pickupService.View(c.Request.Context(), updated)
	if err != nil {
		respondError(c, "Failed to load pickup request", err)
		return
	}
	respondSuccess(c, http.StatusOK, message, view)
}

// readProofPhoto returns nil when no photo part was sent
func readProofPhoto(c *gin.Context) (*models.ProofPhoto, error) {
	header, err := c.FormFile("photo")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if header.Size > maxProofPhotoBytes {
		return nil, models.NewValidation("photo", "photo exceeds 10MB")
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxProofPhotoBytes+1))
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, models.NewValidation("photo", "photo must be an image")
	}

	return &models.ProofPhoto{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
