package controllers

import (
	"net/http"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/app/services"
	"github.com/ensab/scolarite/internal/middleware"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/gin-gonic/gin"
)

// EnrollmentController handles enrollments (inscriptions)
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// List godoc
// @Summary List enrollments
// @Tags inscriptions
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search term"
// @Param status query string false "ENREGISTRE, CONFIRME, ANNULE or ALL"
// @Param type query string false "MASTER, DOCTORAT, REINSC or ALL"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment}
// @Router /admin/inscriptions [get]
// @Router /etudiant/inscriptions [get]
func (c *EnrollmentController) List(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	enrollments, err := c.enrollmentService.List(ctx.Request.Context(), p, listing.FromQuery(ctx.Request.URL.Query()))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollments))
}

// Get godoc
// @Summary Get an enrollment
// @Tags inscriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment}
// @Router /admin/inscriptions/{id} [get]
func (c *EnrollmentController) Get(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "Enrollment ID")
	if !ok {
		return
	}
	enrollment, err := c.enrollmentService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollment))
}

// Create godoc
// @Summary Register an enrollment for a student
// @Tags inscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEnrollmentRequest true "Enrollment"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment}
// @Router /admin/inscriptions [post]
func (c *EnrollmentController) Create(ctx *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	enrollment, err := c.enrollmentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(enrollment).WithMessage("Inscription enregistrée avec succès"))
}

// CreateMine godoc
// @Summary Enroll as the current student
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollmentFields true "Enrollment"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment}
// @Router /etudiant/inscriptions [post]
func (c *EnrollmentController) CreateMine(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req dto.EnrollmentFields
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	enrollment, err := c.enrollmentService.CreateForStudent(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(enrollment).WithMessage("Inscription enregistrée avec succès"))
}

// Transition returns the handler applying action to an enrollment
// @Summary Confirm or cancel an enrollment
// @Tags inscriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 409 {object} dto.ErrorResponse "Action not allowed in the current status"
// @Router /admin/inscriptions/{id}/confirm [put]
// @Router /admin/inscriptions/{id}/cancel [put]
func (c *EnrollmentController) Transition(action models.Action) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p, ok := principal(ctx)
		if !ok {
			return
		}
		id, ok := parseID(ctx, "id", "Enrollment ID")
		if !ok {
			return
		}
		enrollment, err := c.enrollmentService.Transition(ctx.Request.Context(), p, id, action)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollment))
	}
}
