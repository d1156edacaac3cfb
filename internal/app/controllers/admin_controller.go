package controllers

import (
	"net/http"

	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/app/services"
	"github.com/ensab/scolarite/internal/middleware"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/gin-gonic/gin"
)

// AdminController handles administrator accounts and the dashboard
type AdminController struct {
	adminService services.AdminService
	statsService services.StatsService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, statsService services.StatsService) *AdminController {
	return &AdminController{adminService: adminService, statsService: statsService}
}

// List godoc
// @Summary List administrators
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search term"
// @Success 200 {object} dto.APIResponse{data=[]models.Admin}
// @Router /admin/admins [get]
func (c *AdminController) List(ctx *gin.Context) {
	admins, err := c.adminService.List(ctx.Request.Context(), listing.FromQuery(ctx.Request.URL.Query()))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(admins))
}

// Get godoc
// @Summary Get an administrator
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} dto.APIResponse{data=models.Admin}
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/admins/{id} [get]
func (c *AdminController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "Admin ID")
	if !ok {
		return
	}
	admin, err := c.adminService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(admin))
}

// Create godoc
// @Summary Create an administrator
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdminRequest true "Administrator"
// @Success 201 {object} dto.APIResponse{data=models.Admin}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Username or CIN already used"
// @Router /admin/admins [post]
func (c *AdminController) Create(ctx *gin.Context) {
	var req dto.AdminRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	admin, err := c.adminService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(admin).WithMessage("Administrateur créé avec succès"))
}

// Update godoc
// @Summary Update an administrator
// @Description An empty motDePasse keeps the current password
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Param request body dto.AdminRequest true "Administrator"
// @Success 200 {object} dto.APIResponse{data=models.Admin}
// @Router /admin/admins/{id} [put]
func (c *AdminController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "Admin ID")
	if !ok {
		return
	}
	var req dto.AdminRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	admin, err := c.adminService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(admin).WithMessage("Administrateur modifié avec succès"))
}

// Delete godoc
// @Summary Delete an administrator
// @Tags admins
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Own account or last administrator"
// @Router /admin/admins/{id} [delete]
func (c *AdminController) Delete(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "Admin ID")
	if !ok {
		return
	}
	if err := c.adminService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Statistics godoc
// @Summary Dashboard statistics
// @Description Counts by status, average processing delays and complaint satisfaction rate
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.DashboardStats}
// @Router /admin/statistiques [get]
func (c *AdminController) Statistics(ctx *gin.Context) {
	stats, err := c.statsService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}
