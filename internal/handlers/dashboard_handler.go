package handlers

import (
	"errors"
	"net/http"

	"towdash/internal/repositories/interfaces"
	"towdash/internal/services"
	"towdash/internal/utils"
	"towdash/internal/validators"
	"towdash/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// CreateTow allocates a new tow record seeded from the template payload.
func (h *DashboardHandler) CreateTow(c *gin.Context) {
	var request validators.CreateTowRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	record, payload, err := h.dashboardService.CreateTow(c.Request.Context(), &request)
	if err != nil {
		h.writeError(c, err, "TOW_CREATE_FAILED", "Failed to create tow")
		return
	}

	utils.CreatedResponse(c, "Tow created successfully", gin.H{
		"id":        record.ID,
		"dashboard": payload,
	})
}

// ListTows returns summaries of every tow, newest first.
func (h *DashboardHandler) ListTows(c *gin.Context) {
	summaries, err := h.dashboardService.ListTows(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "TOW_LIST_FAILED", "Failed to list tows")
		return
	}

	utils.SuccessResponse(c, "Tows retrieved successfully", summaries)
}

// GetDashboard is the bootstrap endpoint: the full payload for one tow.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	payload, err := h.dashboardService.GetDashboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "DASHBOARD_FETCH_FAILED", "Failed to fetch dashboard")
		return
	}

	utils.SuccessResponse(c, "Dashboard retrieved successfully", payload)
}

// UpdateStatus accepts either an explicit target label or the implicit
// advance-one-step signal.
func (h *DashboardHandler) UpdateStatus(c *gin.Context) {
	var request validators.StatusUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if request.Status == "" && !request.Advance {
		utils.BadRequestResponse(c, "Either status or advance is required")
		return
	}

	towID := c.Param("id")
	var err error
	var payload interface{}
	if request.Status != "" {
		payload, err = h.dashboardService.AdvanceStatus(c.Request.Context(), towID, request.Status)
	} else {
		payload, err = h.dashboardService.AdvanceNext(c.Request.Context(), towID)
	}
	if err != nil {
		h.writeError(c, err, "STATUS_UPDATE_FAILED", "Failed to update status")
		return
	}

	utils.SuccessResponse(c, "Status updated successfully", payload)
}

func (h *DashboardHandler) AddNote(c *gin.Context) {
	var request validators.AddNoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	note, err := h.dashboardService.AddNote(c.Request.Context(), c.Param("id"), request.Text, request.Author)
	if err != nil {
		h.writeError(c, err, "NOTE_ADD_FAILED", "Failed to add note")
		return
	}

	utils.CreatedResponse(c, "Note added successfully", note)
}

func (h *DashboardHandler) CapturePhoto(c *gin.Context) {
	var request validators.CapturePhotoRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	photo, err := h.dashboardService.CapturePhoto(c.Request.Context(), c.Param("id"), request.Label, request.URL)
	if err != nil {
		h.writeError(c, err, "PHOTO_CAPTURE_FAILED", "Failed to record photo")
		return
	}

	utils.CreatedResponse(c, "Photo recorded successfully", photo)
}

func (h *DashboardHandler) UpdateAddresses(c *gin.Context) {
	var request validators.UpdateAddressesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	payload, err := h.dashboardService.UpdateAddresses(c.Request.Context(), c.Param("id"), &request)
	if err != nil {
		h.writeError(c, err, "ADDRESS_UPDATE_FAILED", "Failed to update addresses")
		return
	}

	utils.SuccessResponse(c, "Addresses updated successfully", payload)
}

func (h *DashboardHandler) UpdateChecklistItem(c *gin.Context) {
	var request validators.ChecklistUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	payload, err := h.dashboardService.ToggleChecklist(c.Request.Context(), c.Param("id"), c.Param("item_id"), request.Complete)
	if err != nil {
		h.writeError(c, err, "CHECKLIST_UPDATE_FAILED", "Failed to update checklist item")
		return
	}

	utils.SuccessResponse(c, "Checklist updated successfully", payload)
}

func (h *DashboardHandler) UpdateTow(c *gin.Context) {
	var request validators.UpdateTowRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	payload, err := h.dashboardService.UpdateTow(c.Request.Context(), c.Param("id"), &request)
	if err != nil {
		h.writeError(c, err, "TOW_UPDATE_FAILED", "Failed to update tow")
		return
	}

	utils.SuccessResponse(c, "Tow updated successfully", payload)
}

// writeError maps service errors onto the response envelope: NotFound to
// 404, Conflict to 409, validation failures to 400, everything else 500.
func (h *DashboardHandler) writeError(c *gin.Context, err error, code, message string) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		utils.NotFoundResponse(c, "Tow")
	case errors.Is(err, interfaces.ErrConflict):
		utils.ConflictResponse(c, "Tow was modified concurrently, retry with fresh data")
	case errors.Is(err, workflow.ErrUnknownStatus):
		utils.BadRequestResponse(c, "Unknown status label")
	case errors.Is(err, services.ErrChecklistItemUnknown):
		utils.NotFoundResponse(c, "Checklist item")
	case errors.As(err, &validationErrs):
		utils.ValidationErrorResponse(c, utils.ValidationDetails(validationErrs))
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, code, message+": "+err.Error())
	}
}
