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

// PaymentController handles payments (paiements)
type PaymentController struct {
	paymentService  services.PaymentService
	documentService services.DocumentService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService, documentService services.DocumentService) *PaymentController {
	return &PaymentController{paymentService: paymentService, documentService: documentService}
}

// List godoc
// @Summary List payments
// @Tags paiements
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search term"
// @Param status query string false "PAYE, NON_PAYE, EN_COURS or ALL"
// @Param type query string false "Payment type or ALL"
// @Success 200 {object} dto.APIResponse{data=[]models.Payment}
// @Router /admin/paiements [get]
// @Router /etudiant/paiements [get]
func (c *PaymentController) List(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	payments, err := c.paymentService.List(ctx.Request.Context(), p, listing.FromQuery(ctx.Request.URL.Query()))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(payments))
}

// Get godoc
// @Summary Get a payment
// @Tags paiements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=models.Payment}
// @Router /admin/paiements/{id} [get]
func (c *PaymentController) Get(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "Payment ID")
	if !ok {
		return
	}
	payment, err := c.paymentService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(payment))
}

// Create godoc
// @Summary Record a payment for a student
// @Tags paiements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePaymentRequest true "Payment"
// @Success 201 {object} dto.APIResponse{data=models.Payment}
// @Failure 400 {object} dto.ErrorResponse "Amount must be positive"
// @Router /admin/paiements [post]
func (c *PaymentController) Create(ctx *gin.Context) {
	var req dto.CreatePaymentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	payment, err := c.paymentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(payment).WithMessage("Paiement créé avec succès"))
}

// CreateMine godoc
// @Summary Declare a payment as the current student
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PaymentFields true "Payment"
// @Success 201 {object} dto.APIResponse{data=models.Payment}
// @Router /etudiant/paiements [post]
func (c *PaymentController) CreateMine(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req dto.PaymentFields
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	payment, err := c.paymentService.CreateForStudent(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(payment).WithMessage("Paiement enregistré avec succès"))
}

// Transition returns the handler applying action to a payment
// @Summary Mark paid or cancel a payment
// @Tags paiements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=models.Payment}
// @Failure 409 {object} dto.ErrorResponse "Action not allowed in the current status"
// @Router /admin/paiements/{id}/pay [put]
// @Router /admin/paiements/{id}/cancel [put]
func (c *PaymentController) Transition(action models.Action) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p, ok := principal(ctx)
		if !ok {
			return
		}
		id, ok := parseID(ctx, "id", "Payment ID")
		if !ok {
			return
		}
		payment, err := c.paymentService.Transition(ctx.Request.Context(), p, id, action)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(payment))
	}
}

// Receipt godoc
// @Summary Download a payment receipt
// @Tags paiements
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {file} binary
// @Router /admin/paiements/{id}/recu [get]
// @Router /etudiant/paiements/{id}/recu [get]
func (c *PaymentController) Receipt(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "Payment ID")
	if !ok {
		return
	}
	doc, err := c.documentService.ReceiptPDF(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, doc)
}
