// internal/handlers/partner.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grantdesk/grantdesk-backend/internal/models"
	"github.com/grantdesk/grantdesk-backend/internal/services"
	"github.com/grantdesk/grantdesk-backend/internal/utils"
)

type PartnerHandler struct {
	partnerService *services.PartnerService
}

func NewPartnerHandler(partnerService *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
	}
}

// GET /partners
//
// Anonymous callers see only partners open for applications; a coordinator
// token widens the listing to the full catalog.
func (h *PartnerHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	role, _ := utils.GetRoleFromContext(c)
	includeUnavailable := role == string(models.EditorRoleCoordinator)

	partners, total, err := h.partnerService.List(params, includeUnavailable)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(partners, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /partners/:id
func (h *PartnerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid partner ID", nil)
		return
	}

	partner, err := h.partnerService.Get(id)
	if err != nil {
		utils.NotFoundResponse(c, "Partner")
		return
	}

	utils.SuccessResponse(c, partner)
}

// POST /partners
func (h *PartnerHandler) Create(c *gin.Context) {
	var req services.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	partner, err := h.partnerService.Create(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, partner)
}

// PUT /partners/:id
func (h *PartnerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid partner ID", nil)
		return
	}

	var req services.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	partner, err := h.partnerService.Update(id, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, partner)
}

// POST /partners/:id/streams
func (h *PartnerHandler) AddStream(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid partner ID", nil)
		return
	}

	var req services.CreateStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	stream, err := h.partnerService.AddStream(id, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, stream)
}
