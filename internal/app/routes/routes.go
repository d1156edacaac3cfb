package routes

import (
	"github.com/ensab/scolarite/internal/app/controllers"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	Student    *controllers.StudentController
	Admin      *controllers.AdminController
	Grade      *controllers.GradeController
	Request    *controllers.RequestController
	Payment    *controllers.PaymentController
	Enrollment *controllers.EnrollmentController
	Complaint  *controllers.ComplaintController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
	}

	// --- Administration ---
	admin := api.Group("/admin")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleAdmin))
	{
		students := admin.Group("/etudiants")
		{
			students.GET("", c.Student.List)
			students.POST("", c.Student.Create)
			students.GET("/:id", c.Student.Get)
			students.PUT("/:id", c.Student.Update)
			students.DELETE("/:id", c.Student.Delete)
			students.GET("/:id/notes", c.Grade.ListByStudent)
		}

		grades := admin.Group("/notes")
		{
			grades.POST("", c.Grade.Create)
			grades.PUT("/:id", c.Grade.Update)
			grades.DELETE("/:id", c.Grade.Delete)
		}

		requests := admin.Group("/demandes")
		{
			requests.GET("", c.Request.List)
			requests.POST("", c.Request.Create)
			requests.GET("/:id", c.Request.Get)
			requests.PUT("/:id/approve", c.Request.Transition(models.ActionApprove))
			requests.PUT("/:id/reject", c.Request.Transition(models.ActionReject))
			requests.GET("/:id/pdf", c.Request.PDF)
		}

		payments := admin.Group("/paiements")
		{
			payments.GET("", c.Payment.List)
			payments.POST("", c.Payment.Create)
			payments.GET("/:id", c.Payment.Get)
			payments.PUT("/:id/pay", c.Payment.Transition(models.ActionPay))
			payments.PUT("/:id/cancel", c.Payment.Transition(models.ActionCancel))
			payments.GET("/:id/recu", c.Payment.Receipt)
		}

		enrollments := admin.Group("/inscriptions")
		{
			enrollments.GET("", c.Enrollment.List)
			enrollments.POST("", c.Enrollment.Create)
			enrollments.GET("/:id", c.Enrollment.Get)
			enrollments.PUT("/:id/confirm", c.Enrollment.Transition(models.ActionConfirm))
			enrollments.PUT("/:id/cancel", c.Enrollment.Transition(models.ActionCancel))
		}

		complaints := admin.Group("/reclamations")
		{
			complaints.GET("", c.Complaint.List)
			complaints.POST("", c.Complaint.Create)
			complaints.GET("/:id", c.Complaint.Get)
			complaints.PUT("/:id/treat", c.Complaint.Treat)
		}

		admins := admin.Group("/admins")
		{
			admins.GET("", c.Admin.List)
			admins.POST("", c.Admin.Create)
			admins.GET("/:id", c.Admin.Get)
			admins.PUT("/:id", c.Admin.Update)
			admins.DELETE("/:id", c.Admin.Delete)
		}

		admin.GET("/statistiques", c.Admin.Statistics)
	}

	// --- Student space; no transition endpoints here ---
	student := api.Group("/etudiant")
	student.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/profile", c.Student.Profile)
		student.GET("/profile/qr", c.Student.ProfileQR)
		student.GET("/notes", c.Grade.Mine)

		student.GET("/demandes", c.Request.List)
		student.POST("/demandes", c.Request.CreateMine)
		student.GET("/demandes/:id/pdf", c.Request.PDF)

		student.GET("/paiements", c.Payment.List)
		student.POST("/paiements", c.Payment.CreateMine)
		student.GET("/paiements/:id/recu", c.Payment.Receipt)

		student.GET("/inscriptions", c.Enrollment.List)
		student.POST("/inscriptions", c.Enrollment.CreateMine)

		student.GET("/reclamations", c.Complaint.List)
		student.POST("/reclamations", c.Complaint.CreateMine)
	}
}
