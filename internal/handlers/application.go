// internal/handlers/application.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grantdesk/grantdesk-backend/internal/models"
	"github.com/grantdesk/grantdesk-backend/internal/services"
	"github.com/grantdesk/grantdesk-backend/internal/utils"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
	storageService     *services.StorageService
}

func NewApplicationHandler(applicationService *services.ApplicationService, storageService *services.StorageService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		storageService:     storageService,
	}
}

// POST /applications
func (h *ApplicationHandler) Submit(c *gin.Context) {
	editorID, ok := h.editorID(c)
	if !ok {
		return
	}

	var req services.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	application, err := h.applicationService.Submit(editorID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, application)
}

// GET /applications
func (h *ApplicationHandler) List(c *gin.Context) {
	params := services.ApplicationSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if status := c.Query("status"); status != "" {
		appStatus := models.ApplicationStatus(status)
		params.Status = &appStatus
	}
	if editorIDStr := c.Query("editor_id"); editorIDStr != "" {
		if editorID, err := uuid.Parse(editorIDStr); err == nil {
			params.EditorID = &editorID
		}
	}
	if partnerIDStr := c.Query("partner_id"); partnerIDStr != "" {
		if partnerID, err := uuid.Parse(partnerIDStr); err == nil {
			params.PartnerID = &partnerID
		}
	}
	if expiredStr := c.Query("expired"); expiredStr != "" {
		if expired, err := strconv.ParseBool(expiredStr); err == nil {
			params.Expired = &expired
		}
	}

	applications, total, err := h.applicationService.Search(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(applications, total, params.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /applications/expiring
func (h *ApplicationHandler) ListExpiring(c *gin.Context) {
	withinDays := 30
	if daysStr := c.Query("within_days"); daysStr != "" {
		if days, err := strconv.Atoi(daysStr); err == nil && days > 0 {
			withinDays = days
		}
	}

	applications, err := h.applicationService.ListExpiring(withinDays)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, applications)
}

// GET /applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := h.applicationID(c)
	if !ok {
		return
	}

	application, err := h.applicationService.Get(id)
	if err != nil {
		utils.NotFoundResponse(c, "Application")
		return
	}

	utils.SuccessResponse(c, application)
}

// PUT /applications/:id
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, ok := h.applicationID(c)
	if !ok {
		return
	}
	editorID, ok := h.editorID(c)
	if !ok {
		return
	}

	var req services.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	application, err := h.applicationService.Update(id, editorID, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotApplicationOwner) {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, application)
}

// POST /applications/:id/evaluate
func (h *ApplicationHandler) Evaluate(c *gin.Context) {
	id, ok := h.applicationID(c)
	if !ok {
		return
	}
	reviewerID, ok := h.editorID(c)
	if !ok {
		return
	}

	var req services.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	application, err := h.applicationService.Review(id, reviewerID, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotCoordinator) {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, application)
}

// GET /applications/:id/history
func (h *ApplicationHandler) History(c *gin.Context) {
	id, ok := h.applicationID(c)
	if !ok {
		return
	}

	revisions, err := h.applicationService.ListRevisions(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	count, err := h.applicationService.VersionCount(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, revisions, gin.H{"version_count": count})
}

// POST /applications/:id/attachments
func (h *ApplicationHandler) UploadAttachment(c *gin.Context) {
	id, ok := h.applicationID(c)
	if !ok {
		return
	}
	editorID, ok := h.editorID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Missing file upload", err.Error())
		return
	}
	defer file.Close()

	upload, err := h.storageService.UploadFile(file, header, services.UploadOptions{
		Folder:       "applications/" + id.String(),
		MaxSize:      10 << 20, // 10 MB
		AllowedTypes: []string{".pdf", ".png", ".jpg", ".jpeg"},
	})
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	attachment, err := h.applicationService.AddAttachment(id, editorID, header.Filename, upload)
	if err != nil {
		if errors.Is(err, services.ErrNotApplicationOwner) {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, attachment)
}

// GET /applications/:id/attachments
func (h *ApplicationHandler) ListAttachments(c *gin.Context) {
	id, ok := h.applicationID(c)
	if !ok {
		return
	}

	attachments, err := h.applicationService.ListAttachments(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, attachments)
}

func (h *ApplicationHandler) applicationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ApplicationHandler) editorID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	editorID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return editorID, true
}
