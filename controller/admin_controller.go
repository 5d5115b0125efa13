package controller

import (
	"net/http"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/services"
	"wastewise-backend/utils"
	"wastewise-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// AdminController serves the administrator dashboard
type AdminController struct {
	pickupService         services.PickupServiceInterface
	workflowService       services.WorkflowServiceInterface
	userService           services.UserServiceInterface
	reportService         services.ReportServiceInterface
	infrastructureService services.InfrastructureServiceInterface
	validator             *validator.Validate
	logger                logger.Logger
}

func NewAdminController(svc services.ServiceContainerInterface, log logger.Logger) *AdminController {
	return &AdminController{
		pickupService:         svc.GetPickupService(),
		workflowService:       svc.GetWorkflowService(),
		userService:           svc.GetUserService(),
		reportService:         svc.GetReportService(),
		infrastructureService: svc.GetInfrastructureService(),
		validator:             validator.New(),
		logger:                log,
	}
}

// ListPickupRequests handles GET /api/v1/admin/pickup-requests
// @Summary List all pickup requests
// @Tags Administrator
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED, IN_PROGRESS, COMPLETED)
// @Param requestType query string false "Filter by waste category" Enums(BULK, HAZMAT, E_WASTE, PLASTIC, PAPER, GLASS, METAL)
// @Param residentId query string false "Filter by resident"
// @Param assignedCrewId query string false "Filter by assigned crew member"
// @Param fromDate query string false "Scheduled on or after (YYYY-MM-DD or RFC3339)"
// @Param toDate query string false "Scheduled on or before (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} models.APIResponse{data=[]models.PickupView} "Pickup requests retrieved successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid filter"
// @Failure 403 {object} models.APIResponse "Forbidden - Administrators only"
// @Router /admin/pickup-requests [get]
func (h *AdminController) ListPickupRequests(c *gin.Context) {
	filter, err := parsePickupFilter(c)
	if err != nil {
		respondError(c, "Invalid filter", err)
		return
	}

	views, err := h.pickupService.ListAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to list pickup requests", err)
		return
	}
	respondSuccess(c, http.StatusOK, "Pickup requests retrieved successfully", views)
}

// GetPickupRequest handles GET /api/v1/admin/pickup-requests/{id}
// @Summary Get a pickup request
// @Tags Administrator
// @Security BearerAuth
// @Produce json
// @Param id path string true "Pickup request ID"
// @Success 200 {object} models.APIResponse{data=models.PickupView} "Pickup request retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /admin/pickup-requests/{id} [get]
func (h *AdminController) GetPickupRequest(c *gin.Context) {
	view, err := h.pickupService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get pickup request", err)
		return
	}
	respondSuccess(c, http.StatusOK, "Pickup request retrieved successfully", view)
}

// TransitionPickupRequest handles PUT /api/v1/admin/pickup-requests/{id}
// @Summary Approve or reject a pending pickup request
// @Description APPROVED requires assignedCrew, the ID of an active collection crew member
// @Tags Administrator
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Pickup request ID"
// @Param request body models.AdminTransitionRequest true "Decision"
// @Success 200 {object} models.APIResponse{data=models.PickupView} "Pickup request updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Missing or invalid crew"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Failure 409 {object} models.APIResponse "Conflict - Invalid transition or concurrent update"
// @Router /admin/pickup-requests/{id} [put]
func (h *AdminController) TransitionPickupRequest(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var req models.AdminTransitionRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	updated, err := h.workflowService.AttemptTransition(c.Request.Context(), actor, c.Param("id"), req.Status, &models.TransitionPayload{
		CrewID: req.CrewID(),
		Reason: req.Reason,
	})
	if err != nil {
		respondError(c, "Failed to update pickup request", err)
		return
	}

	view, err := h.pickupService.View(c.Request.Context(), updated)
	if err != nil {
		respondError(c, "Failed to load pickup request", err)
		return
	}
	respondSuccess(c, http.StatusOK, "Pickup request updated successfully", view)
}

// ListCrewMembers handles GET /api/v1/admin/crew-members
// @Summary List active crew members
// @Description Roster for the assignment dropdown, with active-assignment counts
// @Tags Administrator
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.CrewMember} "Crew members retrieved successfully"
// @Router /admin/crew-members [get]
func (h *AdminController) ListCrewMembers(c *gin.Context) {
	crew, err := h.userService.ListCrewMembers(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list crew members", err)
		return
	}
	respondSuccess(c, http.StatusOK, "Crew members retrieved successfully", crew)
}

// ListUsers handles GET /api/v1/admin/users
// @Summary List users
// @Tags Administrator
// @Security BearerAuth
// @Produce json
// @Param role query string false "Filter by role" Enums(Resident, Administrator, CollectionCrewMember)
// @Param status query string false "Filter by status" Enums(active, inactive, suspended)
// @Success 200 {object} models.APIResponse{data=[]models.User} "Users retrieved successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid filter"
// @Router /admin/users [get]
func (h *AdminController) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context(), &models.UserFilter{
		Role:   models.UserRole(c.Query("role")),
		Status: models.UserStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, "Failed to list users", err)
		return
	}
	respondSuccess(c, http.StatusOK, "Users retrieved successfully", users)
}

// UpdateUserStatus handles PUT /api/v1/admin/users/{id}/status
// @Summary Activate, deactivate or suspend an account
// @Tags Administrator
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body models.UpdateUserStatusRequest true "New status"
// @Success 200 {object} models.APIResponse{data=models.User} "User status updated successfully"
// @Failure 403 {object} models.APIResponse "Forbidden - Cannot change own status"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /admin/users/{id}/status [put]
func (h *AdminController) UpdateUserStatus(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var req models.UpdateUserStatusRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	user, err := h.userService.UpdateUserStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, "Failed to update user status", err)
		return
	}
	h.logger.Infof("User %s set to %s by %s", user.ID, user.Status, actor.ID)
	respondSuccess(c, http.StatusOK, "User status updated successfully", user)
}

// WasteLevels handles GET /api/v1/admin/reports/waste-levels
// @Summary Waste level report
// @Description Counts of pickup requests by category and by status
// @Tags Administrator
// @Security BearerAuth
// @Produce json
// @Param fromDate query string false "Scheduled on or after (YYYY-MM-DD or RFC3339)"
// @Param toDate query string false "Scheduled on or before (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} models.APIResponse{data=models.WasteLevelReport} "Report generated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid date range"
// @Router /admin/reports/waste-levels [get]
func (h *AdminController) WasteLevels(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		respondError(c, "Invalid date range", err)
		return
	}

	var fromPtr, toPtr *time.Time
	if !from.IsZero() {
		fromPtr = &from
	}
	if !to.IsZero() {
		toPtr = &to
	}

	report, err := h.reportService.WasteLevels(c.Request.Context(), fromPtr, toPtr)
	if err != nil {
		respondError(c, "Failed to generate report", err)
		return
	}
	respondSuccess(c, http.StatusOK, "Report generated successfully", report)
}

// GetWorkerStatus handles GET /api/v1/admin/worker-status
// @Summary Infrastructure worker status
// @Tags Administrator
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ExecutionResult} "Worker status retrieved successfully"
// @Failure 503 {object} models.APIResponse "Worker unhealthy"
// @Router /admin/worker-status [get]
func (h *AdminController) GetWorkerStatus(c *gin.Context) {
	status, err := h.infrastructureService.GetWorkerStatus(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to read worker status", err)
		return
	}

	healthy, reason := h.infrastructureService.IsWorkerHealthy(c.Request.Context())
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, models.APIResponse{
			Status:  "error",
			Code:    http.StatusServiceUnavailable,
			Message: reason,
			Data:    status,
		})
		return
	}
	respondSuccess(c, http.StatusOK, "Worker status retrieved successfully", status)
}

func parsePickupFilter(c *gin.Context) (*models.PickupFilter, error) {
	filter := &models.PickupFilter{
		Status:         models.PickupStatus(c.Query("status")),
		RequestType:    models.RequestType(c.Query("requestType")),
		ResidentID:     c.Query("residentId"),
		AssignedCrewID: c.Query("assignedCrewId"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, models.NewValidation("status", "unknown status "+string(filter.Status))
	}
	if filter.RequestType != "" && !filter.RequestType.Valid() {
		return nil, models.NewValidation("requestType", "unknown request type "+string(filter.RequestType))
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return nil, err
	}
	filter.FromDate, filter.ToDate = from, to
	return filter, nil
}

// parseDateRange reads fromDate/toDate. A date-only toDate covers the whole day.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	if v := c.Query("fromDate"); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			return from, to, models.NewValidation("fromDate", "fromDate must be YYYY-MM-DD or RFC3339")
		}
		from = t.UTC()
	}
	if v := c.Query("toDate"); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			return from, to, models.NewValidation("toDate", "toDate must be YYYY-MM-DD or RFC3339")
		}
		to = t.UTC()
		if len(v) == len("2006-01-02") {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, models.NewValidation("toDate", "toDate must not be before fromDate")
	}
	return from, to, nil
}
