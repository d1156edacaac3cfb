package controllers

import (
	"net/http"

	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/app/services"
	"github.com/ensab/scolarite/internal/middleware"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/gin-gonic/gin"
)

// ComplaintController handles complaints (réclamations)
type ComplaintController struct {
	complaintService services.ComplaintService
}

// NewComplaintController creates a new ComplaintController
func NewComplaintController(complaintService services.ComplaintService) *ComplaintController {
	return &ComplaintController{complaintService: complaintService}
}

// List godoc
// @Summary List complaints
// @Tags reclamations
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search term"
// @Param status query string false "EN_ATTENTE, TRAITEE or ALL"
// @Success 200 {object} dto.APIResponse{data=[]models.Complaint}
// @Router /admin/reclamations [get]
// @Router /etudiant/reclamations [get]
func (c *ComplaintController) List(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	complaints, err := c.complaintService.List(ctx.Request.Context(), p, listing.FromQuery(ctx.Request.URL.Query()))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(complaints))
}

// Get godoc
// @Summary Get a complaint
// @Tags reclamations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} dto.APIResponse{data=models.Complaint}
// @Router /admin/reclamations/{id} [get]
func (c *ComplaintController) Get(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "Complaint ID")
	if !ok {
		return
	}
	complaint, err := c.complaintService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(complaint))
}

// Create godoc
// @Summary File a complaint for a student
// @Tags reclamations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateComplaintRequest true "Complaint"
// @Success 201 {object} dto.APIResponse{data=models.Complaint}
// @Router /admin/reclamations [post]
func (c *ComplaintController) Create(ctx *gin.Context) {
	var req dto.CreateComplaintRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	complaint, err := c.complaintService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(complaint).WithMessage("Réclamation créée avec succès"))
}

// CreateMine godoc
// @Summary File a complaint as the current student
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ComplaintFields true "Complaint"
// @Success 201 {object} dto.APIResponse{data=models.Complaint}
// @Router /etudiant/reclamations [post]
func (c *ComplaintController) CreateMine(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req dto.ComplaintFields
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	complaint, err := c.complaintService.CreateForStudent(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(complaint).WithMessage("Réclamation envoyée avec succès"))
}

// Treat godoc
// @Summary Answer a complaint
// @Description Stores the response and marks the complaint TRAITEE
// @Tags reclamations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param request body dto.TreatComplaintRequest true "Response"
// @Success 200 {object} dto.APIResponse{data=models.Complaint}
// @Failure 409 {object} dto.ErrorResponse "Complaint already treated"
// @Router /admin/reclamations/{id}/treat [put]
func (c *ComplaintController) Treat(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "Complaint ID")
	if !ok {
		return
	}
	var req dto.TreatComplaintRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	complaint, err := c.complaintService.Treat(ctx.Request.Context(), p, id, req.Response)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(complaint).WithMessage("Réclamation traitée"))
}
