package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmabena/claimflow/internal/application/service"
	"github.com/tmabena/claimflow/internal/domain/entity"
	"github.com/tmabena/claimflow/internal/domain/workflow"
	"github.com/tmabena/claimflow/pkg/utils"
)

// Identity headers set by the authenticating front end.
const (
	headerUserID    = "X-User-ID"
	headerUserRole  = "X-User-Role"
	headerUserEmail = "X-User-Email"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	claimService  service.ClaimService
	verification  service.VerificationService
	notifications service.NotificationService
	lecturers     service.LecturerService
	logger        Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	claimService service.ClaimService,
	verification service.VerificationService,
	notifications service.NotificationService,
	lecturers service.LecturerService,
	logger Logger,
) *Handlers {
	return &Handlers{
		claimService:  claimService,
		verification:  verification,
		notifications: notifications,
		lecturers:     lecturers,
		logger:        logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateClaimRequest is the body for POST /api/claims
type CreateClaimRequest struct {
	LecturerName string     `json:"lecturer_name"`
	HoursWorked  float64    `json:"hours_worked"`
	HourlyRate   float64    `json:"hourly_rate"`
	Notes        string     `json:"notes"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
}

// EditClaimRequest is the body for PUT /api/claims/:id
type EditClaimRequest struct {
	HoursWorked float64    `json:"hours_worked"`
	HourlyRate  float64    `json:"hourly_rate"`
	Notes       string     `json:"notes"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// ApplyActionRequest is the body for POST /api/claims/:id/actions
type ApplyActionRequest struct {
	Action string `json:"action"`
}

// LecturerRequest is the body for POST /api/lecturers and PUT /api/lecturers/:id
type LecturerRequest struct {
	FullName          string  `json:"full_name"`
	IDNumber          string  `json:"id_number"`
	Email             string  `json:"email"`
	DefaultHourlyRate float64 `json:"default_hourly_rate"`
	BankName          string  `json:"bank_name"`
	BankAccountNumber string  `json:"bank_account_number"`
}

// ClaimResponse pairs a claim with its advisory verification result.
// Verification never blocks: a failed check is surfaced here and left to the
// Coordinator's judgement.
type ClaimResponse struct {
	Claim        *entity.Claim              `json:"claim"`
	Verification *entity.VerificationResult `json:"verification,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// CreateClaim handles POST /api/claims
func (h *Handlers) CreateClaim(c *gin.Context) {
	actorID := c.GetHeader(headerUserID)
	if actorID == "" {
		h.respondError(c, http.StatusBadRequest, "missing user identity")
		return
	}

	email := c.GetHeader(headerUserEmail)
	if email != "" {
		if err := utils.ValidateEmail(email); err != nil {
			h.respondError(c, http.StatusBadRequest, "invalid user email")
			return
		}
	}

	var req CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.CreateClaimInput{
		OwnerID:      actorID,
		OwnerEmail:   email,
		LecturerName: req.LecturerName,
		HoursWorked:  req.HoursWorked,
		HourlyRate:   req.HourlyRate,
		Notes:        req.Notes,
	}
	if req.SubmittedAt != nil {
		input.SubmittedAt = *req.SubmittedAt
	}

	claim, err := h.claimService.CreateClaim(c.Request.Context(), input)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: h.withVerification(c, claim)})
}

// EditClaim handles PUT /api/claims/:id
func (h *Handlers) EditClaim(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}
	actorID := c.GetHeader(headerUserID)

	var req EditClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.EditClaimInput{
		HoursWorked: req.HoursWorked,
		HourlyRate:  req.HourlyRate,
		Notes:       req.Notes,
	}
	if req.SubmittedAt != nil {
		input.SubmittedAt = *req.SubmittedAt
	}

	claim, err := h.claimService.EditClaim(c.Request.Context(), id, actorID, input)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: h.withVerification(c, claim)})
}

// ApplyAction handles POST /api/claims/:id/actions
func (h *Handlers) ApplyAction(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	actorID := c.GetHeader(headerUserID)
	actorRole := workflow.Role(c.GetHeader(headerUserRole))
	if !actorRole.IsValid() {
		h.respondError(c, http.StatusForbidden, "unknown or missing role")
		return
	}

	var req ApplyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	claim, err := h.claimService.Apply(c.Request.Context(), id, workflow.Action(req.Action), actorRole, actorID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: claim})
}

// GetClaim handles GET /api/claims/:id
func (h *Handlers) GetClaim(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	claim, err := h.claimService.GetClaim(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: claim})
}

// ListClaims handles GET /api/claims
func (h *Handlers) ListClaims(c *gin.Context) {
	filter := entity.ClaimFilter{
		OwnerID: c.Query("owner_id"),
		Search:  utils.SanitizeString(c.Query("search")),
	}
	if status := c.Query("status"); status != "" {
		state := workflow.State(status)
		if !state.IsValid() {
			h.respondError(c, http.StatusBadRequest, "unknown status filter")
			return
		}
		filter.Status = state
	}

	claims, err := h.claimService.ListClaims(c.Request.Context(), filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: claims})
}

// ListPendingClaims handles GET /api/claims/pending. It returns the claims
// currently awaiting the caller's role, scoped to the caller for owner-only
// actions such as resubmission.
func (h *Handlers) ListPendingClaims(c *gin.Context) {
	actorRole := workflow.Role(c.GetHeader(headerUserRole))
	if !actorRole.IsValid() {
		h.respondError(c, http.StatusForbidden, "unknown or missing role")
		return
	}

	claims, err := h.claimService.ListPending(c.Request.Context(), actorRole, c.GetHeader(headerUserID))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: claims})
}

// DeleteClaim handles DELETE /api/claims/:id
func (h *Handlers) DeleteClaim(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	if err := h.claimService.DeleteClaim(c.Request.Context(), id, c.GetHeader(headerUserID)); err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// VerifyClaim handles GET /api/claims/:id/verification
func (h *Handlers) VerifyClaim(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	result, err := h.verification.VerifyByID(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// AddDocument handles POST /api/claims/:id/documents
func (h *Handlers) AddDocument(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "missing file upload")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "unreadable file upload")
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "unreadable file upload")
		return
	}

	doc, err := h.claimService.AddDocument(c.Request.Context(), id, c.GetHeader(headerUserID), file.Filename, content)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: doc})
}

// DownloadDocument handles GET /api/claims/:id/documents/:docID
func (h *Handlers) DownloadDocument(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}
	docID, ok := h.documentID(c)
	if !ok {
		return
	}

	doc, content, err := h.claimService.GetDocument(c.Request.Context(), id, docID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, "application/octet-stream", content)
}

// DeleteDocument handles DELETE /api/claims/:id/documents/:docID
func (h *Handlers) DeleteDocument(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}
	docID, ok := h.documentID(c)
	if !ok {
		return
	}

	if err := h.claimService.DeleteDocument(c.Request.Context(), id, docID, c.GetHeader(headerUserID)); err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// CreateLecturer handles POST /api/lecturers
func (h *Handlers) CreateLecturer(c *gin.Context) {
	if !h.requireHR(c) {
		return
	}

	var req LecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	lecturer, err := h.lecturers.CreateLecturer(c.Request.Context(), lecturerInput(req))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: lecturer})
}

// UpdateLecturer handles PUT /api/lecturers/:id
func (h *Handlers) UpdateLecturer(c *gin.Context) {
	if !h.requireHR(c) {
		return
	}
	id, ok := h.lecturerID(c)
	if !ok {
		return
	}

	var req LecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	lecturer, err := h.lecturers.UpdateLecturer(c.Request.Context(), id, lecturerInput(req))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: lecturer})
}

// GetLecturer handles GET /api/lecturers/:id
func (h *Handlers) GetLecturer(c *gin.Context) {
	id, ok := h.lecturerID(c)
	if !ok {
		return
	}

	lecturer, err := h.lecturers.GetLecturer(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: lecturer})
}

// ListLecturers handles GET /api/lecturers
func (h *Handlers) ListLecturers(c *gin.Context) {
	lecturers, err := h.lecturers.ListLecturers(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: lecturers})
}

// DeleteLecturer handles DELETE /api/lecturers/:id
func (h *Handlers) DeleteLecturer(c *gin.Context) {
	if !h.requireHR(c) {
		return
	}
	id, ok := h.lecturerID(c)
	if !ok {
		return
	}

	if err := h.lecturers.DeleteLecturer(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// ListUnreadNotifications handles GET /api/notifications
func (h *Handlers) ListUnreadNotifications(c *gin.Context) {
	userID := c.GetHeader(headerUserID)
	if userID == "" {
		h.respondError(c, http.StatusBadRequest, "missing user identity")
		return
	}

	notifications, err := h.notifications.ListUnread(c.Request.Context(), userID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: notifications})
}

// MarkNotificationRead handles POST /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// withVerification attaches the advisory checks to a claim response. A
// verification failure is logged and omitted, never turned into an error.
func (h *Handlers) withVerification(c *gin.Context, claim *entity.Claim) ClaimResponse {
	result, err := h.verification.Verify(c.Request.Context(), claim)
	if err != nil {
		h.logger.Error("Verification unavailable for response", "error", err, "claim_id", claim.ID)
		return ClaimResponse{Claim: claim}
	}
	return ClaimResponse{Claim: claim, Verification: result}
}

func (h *Handlers) claimID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid claim id")
		return 0, false
	}
	return id, true
}

func (h *Handlers) documentID(c *gin.Context) (int64, bool) {
	idStr := c.Param("docID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid document id")
		return 0, false
	}
	return id, true
}

func (h *Handlers) lecturerID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid lecturer id")
		return 0, false
	}
	return id, true
}

// requireHR gates lecturer mutations behind the HR role.
func (h *Handlers) requireHR(c *gin.Context) bool {
	if workflow.Role(c.GetHeader(headerUserRole)) != workflow.RoleHR {
		h.respondError(c, http.StatusForbidden, "lecturer management requires the HR role")
		return false
	}
	return true
}

func lecturerInput(req LecturerRequest) service.LecturerInput {
	return service.LecturerInput{
		FullName:          req.FullName,
		IDNumber:          req.IDNumber,
		Email:             req.Email,
		DefaultHourlyRate: req.DefaultHourlyRate,
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
	}
}

func (h *Handlers) respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

// respondServiceError maps domain errors onto HTTP status codes
func (h *Handlers) respondServiceError(c *gin.Context, err error) {
	switch {
	case entity.IsValidation(err):
		h.respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrNotFound):
		h.respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrForbidden):
		h.respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, workflow.ErrInvalidTransition):
		h.respondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, entity.ErrConflict):
		h.respondError(c, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Unhandled service error", "error", err)
		h.respondError(c, http.StatusInternalServerError, "internal error")
	}
}
