package controllers

import (
	"net/http"

	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/app/services"
	"github.com/ensab/scolarite/internal/middleware"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/gin-gonic/gin"
)

// StudentController handles student accounts and the student profile
type StudentController struct {
	studentService  services.StudentService
	documentService services.DocumentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, documentService services.DocumentService) *StudentController {
	return &StudentController{studentService: studentService, documentService: documentService}
}

// List godoc
// @Summary List students
// @Description Lists students, optionally filtered by a free-text term
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search term (name, email, code Apogée, CIN, filière)"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/etudiants [get]
func (c *StudentController) List(ctx *gin.Context) {
	students, err := c.studentService.List(ctx.Request.Context(), listing.FromQuery(ctx.Request.URL.Query()))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// Get godoc
// @Summary Get a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/etudiants/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "Student ID")
	if !ok {
		return
	}
	student, err := c.studentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// Create godoc
// @Summary Create a student
// @Description Creates a student and its login (username = email, default password)
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StudentRequest true "Student"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email, code Apogée or CIN already used"
// @Router /admin/etudiants [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	student, err := c.studentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student).WithMessage("Étudiant créé avec succès"))
}

// Update godoc
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.StudentRequest true "Student"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/etudiants/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "Student ID")
	if !ok {
		return
	}
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	student, err := c.studentService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student).WithMessage("Étudiant modifié avec succès"))
}

// Delete godoc
// @Summary Delete a student
// @Description Deletes the student, its login and all its records
// @Tags students
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/etudiants/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "Student ID")
	if !ok {
		return
	}
	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Profile godoc
// @Summary Current student profile
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /etudiant/profile [get]
func (c *StudentController) Profile(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	student, err := c.studentService.Profile(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// ProfileQR godoc
// @Summary Identity QR code
// @Description PNG QR code encoding the student's identity card as JSON
// @Tags student
// @Produce png
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /etudiant/profile/qr [get]
func (c *StudentController) ProfileQR(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	png, err := c.documentService.IdentityQR(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}
