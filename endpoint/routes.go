package endpoint

import (
	"github.com/ariebrainware/sisreg/middleware"
	"github.com/ariebrainware/sisreg/model"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API on r. Database and service middlewares must
// already be installed.
func RegisterRoutes(r gin.IRouter, loginLimit middleware.RateLimitConfig) {
	r.POST("/login", middleware.RateLimiter(loginLimit), Login)

	auth := r.Group("/")
	auth.Use(middleware.ValidateLoginToken())
	{
		auth.GET("/token/validate", ValidateToken)
		auth.DELETE("/logout", Logout)
		auth.PATCH("/user/password", ChangePassword)

		auth.GET("/health-unit", ListHealthUnits)
		auth.GET("/exam-type", ListExamTypes)
		auth.GET("/consultation-type", ListConsultationTypes)

		auth.GET("/patient", ListPatients)
		auth.POST("/patient", CreatePatient)
		auth.GET("/patient/:id", GetPatient)
		auth.POST("/patient/:id/documents", UploadPatientDocument)
		auth.GET("/patient/:id/documents/:side", DownloadPatientDocument)

		auth.POST("/request", middleware.RequireRole(model.RoleRecepcao, model.RoleAdmin), CreateRequest)
		auth.GET("/request", ListRequests)
		auth.GET("/request/pending", ListPendingRequests)
		auth.GET("/request/suspended", ListSuspendedRequests)
		auth.GET("/request/:id", GetRequest)
		auth.POST("/request/:id/attachment", UploadAttachment)
		auth.GET("/request/:id/attachment", DownloadAttachment)
		auth.GET("/request/:id/result", DownloadResult)

		// Role checks for these live in the referral service.
		auth.POST("/request/approve-bulk", BulkApprove)
		auth.POST("/request/forward-batch", ForwardBatch)
		auth.POST("/request/:id/approve", ApproveRequest)
		auth.POST("/request/:id/reject", RejectRequest)
		auth.PATCH("/request/:id/status", UpdateRequestStatus)
		auth.POST("/request/:id/complete", CompleteRequest)
		auth.POST("/request/:id/suspend", SuspendRequest)
		auth.POST("/request/:id/revert", RevertRequest)
		auth.POST("/request/:id/fix-failed", FixFailedRequest)
		auth.POST("/request/:id/forward", ForwardRequest)
		auth.DELETE("/request/:id", DeleteRequest)

		admin := auth.Group("/")
		admin.Use(middleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/user", ListUsers)
			admin.POST("/user", CreateUser)
			admin.PATCH("/user/:id", UpdateUserByID)
			admin.DELETE("/user/:id", DeleteUser)

			admin.POST("/health-unit", CreateHealthUnit)
			admin.PATCH("/health-unit/:id", UpdateHealthUnit)
			admin.DELETE("/health-unit/:id", DeleteHealthUnit)

			admin.POST("/exam-type", CreateExamType)
			admin.PATCH("/exam-type/:id", UpdateExamType)
			admin.DELETE("/exam-type/:id", DeactivateExamType)
			admin.POST("/consultation-type", CreateConsultationType)
			admin.PATCH("/consultation-type/:id", UpdateConsultationType)
			admin.DELETE("/consultation-type/:id", DeactivateConsultationType)
		}

		oversight := auth.Group("/")
		oversight.Use(middleware.RequireRole(model.RoleAdmin, model.RoleRegulacao))
		{
			oversight.GET("/report/quota", QuotaReport)
			oversight.GET("/report/spending", SpendingReport)
			oversight.GET("/report/duplicates", DuplicatesReport)
			oversight.GET("/report/monthly-authorizations", MonthlyAuthorizationsReport)
			oversight.GET("/report/dashboard", DashboardReport)
			oversight.GET("/activity", ListActivity)
			oversight.GET("/notification", ListNotifications)
		}
	}
}
