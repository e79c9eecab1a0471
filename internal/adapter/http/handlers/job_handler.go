package handlers

import (
	"net/http"
	"strings"
	"time"

	request "mecanica_jobs/internal/adapter/http/dto/request"
	response "mecanica_jobs/internal/adapter/http/dto/response"
	"mecanica_jobs/internal/adapter/http/middleware"
	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/projection"
	"mecanica_jobs/internal/usecase"

	"github.com/gin-gonic/gin"
)

const defaultStreamKeepAlive = 25 * time.Second

// JobHandler exposes the job coordination façade over HTTP. The actor always
// comes from the authenticated token, never from the payload.
type JobHandler struct {
	usecase   usecase.IJobUseCase
	keepAlive time.Duration
}

func NewJobHandler(uc usecase.IJobUseCase) *JobHandler {
	return &JobHandler{usecase: uc, keepAlive: defaultStreamKeepAlive}
}

// OpenContract godoc
// @Summary      Open the job contract of an accepted quote
// @Tags         internal
// @Accept       json
// @Produce      json
// @Param        payload body request.OpenContractRequest true "Accepted quote"
// @Success      201 {object} response.OpenContractResponse
// @Success      200 {object} response.OpenContractResponse
// @Failure      400 {object} pkg.HTTPError
// @Security     Bearer
// @Router       /internal/jobs [post]
func (h *JobHandler) OpenContract(c *gin.Context) {
	var payload request.OpenContractRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.fail(c, errInvalidJobPayload)
		return
	}

	view, created, err := h.usecase.OpenContract(c.Request.Context(), middleware.GetActor(c), payload.ToInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, response.OpenContractResponse{Success: true, Created: created, Job: view})
}

// SweepLineItems godoc
// @Summary      Auto-reject line items whose approval window expired
// @Tags         internal
// @Produce      json
// @Success      200 {object} response.SweepResponse
// @Security     Bearer
// @Router       /internal/sweeps/line-items [post]
func (h *JobHandler) SweepLineItems(c *gin.Context) {
	res, err := h.usecase.SweepExpiredLineItems(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SweepResponse{Success: true, Result: res})
}

// GetJob godoc
// @Summary      Current view of a job for the caller's role
// @Tags         jobs
// @Produce      json
// @Param        job_id path string true "Job ID"
// @Success      200 {object} response.JobResponse
// @Failure      403 {object} pkg.HTTPError
// @Failure      404 {object} pkg.HTTPError
// @Security     Bearer
// @Router       /jobs/{job_id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	view, err := h.usecase.GetJobView(c.Request.Context(), middleware.GetActor(c), jobID)
	h.respondView(c, view, err)
}

// ListEvents godoc
// @Summary      Job timeline
// @Tags         jobs
// @Produce      json
// @Param        job_id path string true "Job ID"
// @Success      200 {object} response.JobEventsResponse
// @Security     Bearer
// @Router       /jobs/{job_id}/events [get]
func (h *JobHandler) ListEvents(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	events, err := h.usecase.ListEvents(c.Request.Context(), middleware.GetActor(c), jobID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromJobEvents(events))
}

// @Summary      Mechanic left for the job
// @Tags         progress
// @Accept       json
// @Produce      json
// @Param        job_id path string true "Job ID"
// @Param        payload body request.DepartRequest false "Location and ETA"
// @Success      200 {object} response.JobResponse
// @Security     Bearer
// @Router       /jobs/{job_id}/depart [post]
func (h *JobHandler) Depart(c *gin.Context) {
	var payload request.DepartRequest
	jobID, ok := h.bindOptional(c, &payload)
	if !ok {
		return
	}
	view, err := h.usecase.MarkDeparted(c.Request.Context(), middleware.GetActor(c), jobID, payload.ToInput())
	h.respondView(c, view, err)
}

// @Summary      Mechanic arrived
// @Tags         progress
// @Param        job_id path string true "Job ID"
// @Param        payload body request.ArriveRequest false "Location"
// @Success      200 {object} response.JobResponse
// @Security     Bearer
// @Router       /jobs/{job_id}/arrive [post]
func (h *JobHandler) Arrive(c *gin.Context) {
	var payload request.ArriveRequest
	jobID, ok := h.bindOptional(c, &payload)
	if !ok {
		return
	}
	view, err := h.usecase.MarkArrived(c.Request.Context(), middleware.GetActor(c), jobID, payload.ToInput())
	h.respondView(c, view, err)
}

// @Summary      Customer confirms the mechanic's arrival
// @Tags         progress
// @Param        job_id path string true "Job ID"
// @Success      200 {object} response.JobResponse
// @Security     Bearer
// @Router       /jobs/{job_id}/confirm-arrival [post]
func (h *JobHandler) ConfirmArrival(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	view, err := h.usecase.ConfirmArrival(c.Request.Context(), middleware.GetActor(c), jobID)
	h.respondView(c, view, err)
}

// @Summary      Mechanic starts work
// @Tags         progress
// @Param        job_id path string true "Job ID"
// @Success      200 {object} response.JobResponse
// @Failure      412 {object} pkg.HTTPError
// @Security     Bearer
// @Router       /jobs/{job_id}/start [post]
func (h *JobHandler) StartWork(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	view, err := h.usecase.StartWork(c.Request.Context(), middleware.GetActor(c), jobID)
	h.respondView(c, view, err)
}

// @Summary      Mechanic marks the work complete
// @Tags         progress
// @Param        job_id path string true "Job ID"
// @Param        payload body request.CompleteRequest false "Work summary"
// @Success      200 {object} response.JobResponse
// @Failure      412 {object} pkg.HTTPError
// @Security     Bearer
// @Router       /jobs/{job_id}/complete [post]
func (h *JobHandler) Complete(c *gin.Context) {
	var payload request.CompleteRequest
	jobID, ok := h.bindOptional(c, &payload)
	if !ok {
		return
	}
	view, err := h.usecase.MarkComplete(c.Request.Context(), middleware.GetActor(c), jobID, usecase.CompleteInput{WorkSummary: payload.WorkSummary})
	h.respondView(c, view, err)
}

// @Summary      Customer confirms completion
// @Tags         progress
// @Param        job_id path string true "Job ID"
// @Success      200 {object} response.JobResponse
// @Security     Bearer
// @Router       /jobs/{job_id}/confirm-complete [post]
func (h *JobHandler) ConfirmComplete(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	view, err := h.usecase.ConfirmComplete(c.Request.Context(), middleware.GetActor(c), jobID)
	h.respondView(c, view, err)
}

// @Summary      Cancel a job before work starts
// @Tags         exits
// @Param        job_id path string true "Job ID"
// @Param        payload body request.CancelRequest true "Reason"
// @Success      200 {object} response.JobResponse
// @Security     Bearer
// @Router       /jobs/{job_id}/cancel [post]
func (h *JobHandler) Cancel(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	var payload request.CancelRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.fail(c, errInvalidJobPayload)
		return
	}
	view, err := h.usecase.CancelJob(c.Request.Context(), middleware.GetActor(c), jobID, usecase.CancelInput{Reason: payload.Reason, Note: payload.Note})
	h.respondView(c, view, err)
}

// @Summary      Preview the cancellation fee
// @Tags         exits
// @Param        job_id path string true "Job ID"
// @Success      200 {object} response.CancellationQuoteResponse
// @Security     Bearer
// @Router       /jobs/{job_id}/cancellation-quote [get]
func (h *JobHandler) CancellationQuote(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	q, err := h.usecase.CancellationQuote(c.Request.Context(), middleware.GetActor(c), jobID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.CancellationQuoteResponse{Success: true, Quote: q})
}

// @Summary      Open a dispute
// @Tags         exits
// @Param        job_id path string true "Job ID"
// @Param        payload body request.DisputeRequest true "Dispute"
// @Success      200 {object} response.JobResponse
// @Security     Bearer
// @Router       /jobs/{job_id}/dispute [post]
func (h *JobHandler) Dispute(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	var payload request.DisputeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.fail(c, errInvalidJobPayload)
		return
	}
	view, err := h.usecase.OpenDispute(c.Request.Context(), middleware.GetActor(c), jobID, usecase.DisputeInput{Category: payload.Category, Description: payload.Description})
	h.respondView(c, view, err)
}

// @Summary      Accept the job acknowledgement for the caller's role
// @Tags         acknowledgements
// @Param        job_id path string true "Job ID"
// @Param        payload body request.AcknowledgementRequest false "Version and text"
// @Success      200 {object} response.AcknowledgementResponse
// @Security     Bearer
// @Router       /jobs/{job_id}/acknowledgements [post]
func (h *JobHandler) AcceptAcknowledgement(c *gin.Context) {
	var payload request.AcknowledgementRequest
	jobID, ok := h.bindOptional(c, &payload)
	if !ok {
		return
	}
	ack, err := h.usecase.AcceptAcknowledgement(c.Request.Context(), middleware.GetActor(c), jobID, payload.ToInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.AcknowledgementResponse{Success: true, Acknowledgement: ack})
}

// @Summary      Check whether a party accepted the acknowledgement
// @Tags         acknowledgements
// @Param        job_id path string true "Job ID"
// @Param        role query string true "customer or mechanic"
// @Param        user_id query string false "defaults to the job's party for role"
// @Success      200 {object} response.AcknowledgementStatusResponse
// @Security     Bearer
// @Router       /jobs/{job_id}/acknowledgements [get]
func (h *JobHandler) CheckAcknowledgement(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	role := entities.Role(strings.ToLower(strings.TrimSpace(c.Query("role"))))
	userID := strings.TrimSpace(c.Query("user_id"))
	accepted, err := h.usecase.CheckAcknowledgement(c.Request.Context(), middleware.GetActor(c), jobID, userID, role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.AcknowledgementStatusResponse{Success: true, UserID: userID, Role: string(role), Accepted: accepted})
}

// @Summary      Mechanic proposes an invoice line item
// @Tags         invoice
// @Param        job_id path string true "Job ID"
// @Param        payload body request.LineItemRequest true "Line item"
// @Success      201 {object} response.LineItemResponse
// @Security     Bearer
// @Router       /jobs/{job_id}/line-items [post]
func (h *JobHandler) AddLineItem(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	var payload request.LineItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.fail(c, errInvalidJobPayload)
		return
	}
	item, view, err := h.usecase.AddLineItem(c.Request.Context(), middleware.GetActor(c), jobID, payload.ToInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.LineItemResponse{Success: true, LineItem: item, Job: view})
}

// @Summary      Customer approves a line item
// @Tags         invoice
// @Param        item_id path string true "Line item ID"
// @Success      200 {object} response.JobResponse
// @Security     Bearer
// @Router       /line-items/{item_id}/approve [post]
func (h *JobHandler) ApproveLineItem(c *gin.Context) {
	view, err := h.usecase.ApproveLineItem(c.Request.Context(), middleware.GetActor(c), c.Param("item_id"))
	h.respondView(c, view, err)
}

// @Summary      Customer rejects a line item
// @Tags         invoice
// @Param        item_id path string true "Line item ID"
// @Param        payload body request.RejectLineItemRequest false "Reason"
// @Success      200 {object} response.JobResponse
// @Security     Bearer
// @Router       /line-items/{item_id}/reject [post]
func (h *JobHandler) RejectLineItem(c *gin.Context) {
	var payload request.RejectLineItemRequest
	if !bindOptionalJSON(c, &payload) {
		h.fail(c, errInvalidJobPayload)
		return
	}
	view, err := h.usecase.RejectLineItem(c.Request.Context(), middleware.GetActor(c), c.Param("item_id"), payload.Reason)
	h.respondView(c, view, err)
}

func (h *JobHandler) jobID(c *gin.Context) (string, bool) {
	jobID := strings.TrimSpace(c.Param("job_id"))
	if jobID == "" {
		h.fail(c, errMissingJobID)
		return "", false
	}
	return jobID, true
}

// bindOptional reads the job id and, when a body was sent, decodes it.
func (h *JobHandler) bindOptional(c *gin.Context, payload any) (string, bool) {
	jobID, ok := h.jobID(c)
	if !ok {
		return "", false
	}
	if !bindOptionalJSON(c, payload) {
		h.fail(c, errInvalidJobPayload)
		return "", false
	}
	return jobID, true
}

func bindOptionalJSON(c *gin.Context, payload any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return c.ShouldBindJSON(payload) == nil
}

func (h *JobHandler) respondView(c *gin.Context, view projection.JobView, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromJobView(view))
}

func (h *JobHandler) fail(c *gin.Context, err error) {
	appErr := mapJobError(err)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
