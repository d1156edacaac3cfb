package controllers

import (
	"net/http"

	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/app/services"
	"github.com/ensab/scolarite/internal/middleware"
	"github.com/gin-gonic/gin"
)

// GradeController handles module grades
type GradeController struct {
	gradeService services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService services.GradeService) *GradeController {
	return &GradeController{gradeService: gradeService}
}

// ListByStudent godoc
// @Summary Grades of a student
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Router /admin/etudiants/{id}/notes [get]
func (c *GradeController) ListByStudent(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	studentID, ok := parseID(ctx, "id", "Student ID")
	if !ok {
		return
	}
	grades, err := c.gradeService.ListByStudent(ctx.Request.Context(), p, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(grades))
}

// Mine godoc
// @Summary Grades of the current student
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Router /etudiant/notes [get]
func (c *GradeController) Mine(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	grades, err := c.gradeService.ListByStudent(ctx.Request.Context(), p, p.ProfileID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(grades))
}

// Create godoc
// @Summary Add a grade
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GradeRequest true "Grade"
// @Success 201 {object} dto.APIResponse{data=models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Value outside [0, 20]"
// @Router /admin/notes [post]
func (c *GradeController) Create(ctx *gin.Context) {
	var req dto.GradeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	grade, err := c.gradeService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(grade).WithMessage("Note ajoutée avec succès"))
}

// Update godoc
// @Summary Update a grade
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Param request body dto.GradeRequest true "Grade"
// @Success 200 {object} dto.APIResponse{data=models.Grade}
// @Router /admin/notes/{id} [put]
func (c *GradeController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "Grade ID")
	if !ok {
		return
	}
	var req dto.GradeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	grade, err := c.gradeService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(grade).WithMessage("Note modifiée avec succès"))
}

// Delete godoc
// @Summary Delete a grade
// @Tags grades
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Success 204
// @Router /admin/notes/{id} [delete]
func (c *GradeController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "Grade ID")
	if !ok {
		return
	}
	if err := c.gradeService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
