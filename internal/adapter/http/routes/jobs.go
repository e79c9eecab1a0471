package routes

import (
	"net/http"

	"mecanica_jobs/internal/adapter/http/handlers"
	"mecanica_jobs/internal/adapter/http/middleware"
	"mecanica_jobs/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

const (
	PathJobs      = "/jobs"
	PathLineItems = "/line-items"
	PathInternal  = "/internal"
)

// addInternalRoutes holds the routes only the platform may call.
func addInternalRoutes(rg *gin.RouterGroup, h *handlers.JobHandler) {
	internal := rg.Group(PathInternal, middleware.RequireRole(entities.RoleSystem))
	{
		internal.POST("/jobs", h.OpenContract)
		internal.POST("/sweeps/line-items", h.SweepLineItems)
	}
}

func addJobRoutes(rg *gin.RouterGroup, h *handlers.JobHandler) {
	jobs := rg.Group(PathJobs)
	{
		jobs.GET("/:job_id", h.GetJob)
		jobs.GET("/:job_id/events", h.ListEvents)
		jobs.GET("/:job_id/stream", h.StreamJob)

		jobs.POST("/:job_id/depart", h.Depart)
		jobs.POST("/:job_id/arrive", h.Arrive)
		jobs.POST("/:job_id/confirm-arrival", h.ConfirmArrival)
		jobs.POST("/:job_id/start", h.StartWork)
		jobs.POST("/:job_id/complete", h.Complete)
		jobs.POST("/:job_id/confirm-complete", h.ConfirmComplete)

		jobs.POST("/:job_id/cancel", h.Cancel)
		jobs.GET("/:job_id/cancellation-quote", h.CancellationQuote)
		jobs.POST("/:job_id/dispute", h.Dispute)

		jobs.POST("/:job_id/acknowledgements", h.AcceptAcknowledgement)
		jobs.GET("/:job_id/acknowledgements", h.CheckAcknowledgement)

		jobs.POST("/:job_id/line-items", h.AddLineItem)
	}

	items := rg.Group(PathLineItems)
	{
		items.POST("/:item_id/approve", h.ApproveLineItem)
		items.POST("/:item_id/reject", h.RejectLineItem)
	}
}

func addPingRoutes(router *gin.Engine) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}
