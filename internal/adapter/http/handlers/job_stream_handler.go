package handlers

import (
	"io"
	"time"

	"mecanica_jobs/internal/adapter/http/middleware"
	"mecanica_jobs/pkg/logger"

	"github.com/gin-gonic/gin"
)

// StreamJob godoc
// @Summary      Server-sent events with the caller's job view on every change
// @Tags         jobs
// @Produce      text/event-stream
// @Param        job_id path string true "Job ID"
// @Success      200 {string} string "event stream"
// @Failure      503 {object} pkg.HTTPError
// @Security     Bearer
// @Router       /jobs/{job_id}/stream [get]
func (h *JobHandler) StreamJob(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	actor := middleware.GetActor(c)

	changes, cancel, err := h.usecase.SubscribeChanges(ctx, actor, jobID)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer cancel()

	// Subscribe first so no change between the initial read and the
	// subscription is lost.
	view, err := h.usecase.GetJobView(ctx, actor, jobID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("job", view)
	c.Writer.Flush()
	lastVersion := view.Version

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case change, ok := <-changes:
			if !ok {
				return false
			}
			if change.Version <= lastVersion {
				return true
			}
			view, err := h.usecase.GetJobView(ctx, actor, jobID)
			if err != nil {
				logger.Warn(ctx, "[http][stream] re-read failed", "job_id", jobID, "err", err)
				c.SSEvent("error", mapJobError(err).ToHTTPError())
				return false
			}
			lastVersion = view.Version
			c.SSEvent("job", view)
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
