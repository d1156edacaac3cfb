// Package controllers handles HTTP request handling
package controllers

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/middleware"
	"github.com/ensab/scolarite/internal/pkg/documents"
	"github.com/gin-gonic/gin"
)

// parseID reads a positive int64 path parameter, answering 400 otherwise.
func parseID(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Identifiant invalide")
		errorDetail = errorDetail.WithDetails(label + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// principal returns the authenticated caller, answering 401 when absent.
func principal(ctx *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentification requise")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return auth.Principal{}, false
	}
	return p, true
}

// sendPDF streams a rendered document as an attachment.
func sendPDF(ctx *gin.Context, doc *documents.Document) {
	ctx.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	ctx.Header("X-Document-Reference", doc.Reference)
	ctx.Data(http.StatusOK, "application/pdf", doc.Content)
}
