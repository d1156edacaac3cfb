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

// RequestController handles document requests (demandes)
type RequestController struct {
	requestService  services.RequestService
	documentService services.DocumentService
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService services.RequestService, documentService services.DocumentService) *RequestController {
	return &RequestController{requestService: requestService, documentService: documentService}
}

// List godoc
// @Summary List document requests
// @Description Administrators see every request, students only their own
// @Tags demandes
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search term"
// @Param status query string false "EN_ATTENTE, APPROVEE, REFUSEE or ALL"
// @Param type query string false "Document type or ALL"
// @Success 200 {object} dto.APIResponse{data=[]models.DocumentRequest}
// @Router /admin/demandes [get]
// @Router /etudiant/demandes [get]
func (c *RequestController) List(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	requests, err := c.requestService.List(ctx.Request.Context(), p, listing.FromQuery(ctx.Request.URL.Query()))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// Get godoc
// @Summary Get a document request
// @Tags demandes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.DocumentRequest}
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/demandes/{id} [get]
func (c *RequestController) Get(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "Request ID")
	if !ok {
		return
	}
	req, err := c.requestService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(req))
}

// Create godoc
// @Summary File a request for a student
// @Description The student is resolved from email, code Apogée and CIN
// @Tags demandes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRequestRequest true "Request"
// @Success 201 {object} dto.APIResponse{data=models.DocumentRequest}
// @Failure 404 {object} dto.ErrorResponse "Unknown student"
// @Failure 409 {object} dto.ErrorResponse "A pending request of this type exists"
// @Router /admin/demandes [post]
func (c *RequestController) Create(ctx *gin.Context) {
	var req dto.CreateRequestRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	created, err := c.requestService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created).WithMessage("Demande créée avec succès"))
}

// CreateMine godoc
// @Summary File a request as the current student
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StudentRequestRequest true "Request"
// @Success 201 {object} dto.APIResponse{data=models.DocumentRequest}
// @Failure 409 {object} dto.ErrorResponse "A pending request of this type exists"
// @Router /etudiant/demandes [post]
func (c *RequestController) CreateMine(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req dto.StudentRequestRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	created, err := c.requestService.CreateForStudent(ctx.Request.Context(), p, req.Type)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created).WithMessage("Demande envoyée avec succès"))
}

// Transition returns the handler applying action to a request
// @Summary Approve or reject a request
// @Tags demandes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.DocumentRequest}
// @Failure 409 {object} dto.ErrorResponse "Request already processed"
// @Router /admin/demandes/{id}/approve [put]
// @Router /admin/demandes/{id}/reject [put]
func (c *RequestController) Transition(action models.Action) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p, ok := principal(ctx)
		if !ok {
			return
		}
		id, ok := parseID(ctx, "id", "Request ID")
		if !ok {
			return
		}
		req, err := c.requestService.Transition(ctx.Request.Context(), p, id, action)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	}
}

// PDF godoc
// @Summary Download the requested document
// @Description Students only get documents of approved requests
// @Tags demandes
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {file} binary
// @Failure 409 {object} dto.ErrorResponse "Request not approved yet"
// @Router /admin/demandes/{id}/pdf [get]
// @Router /etudiant/demandes/{id}/pdf [get]
func (c *RequestController) PDF(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "Request ID")
	if !ok {
		return
	}
	doc, err := c.documentService.RequestPDF(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, doc)
}
