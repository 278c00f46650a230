package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wiremail/wiremail-backend/internal/common"
	"github.com/wiremail/wiremail-backend/internal/domain"
	"github.com/wiremail/wiremail-backend/internal/mailbox"
	"github.com/wiremail/wiremail-backend/internal/middleware"
	"github.com/wiremail/wiremail-backend/internal/service"
)

// MailboxHandler handles mailbox HTTP requests
type MailboxHandler struct {
	service service.MailboxService
}

// NewMailboxHandler creates a new MailboxHandler
func NewMailboxHandler(service service.MailboxService) *MailboxHandler {
	return &MailboxHandler{service: service}
}

// List handles GET /messages
// @Summary List the viewer's projected mailbox view
// @Tags messages
// @Produce json
// @Param folder query string false "inbox | sent | starred | all"
// @Param q query string false "search query"
// @Success 200 {object} common.APIResponse{data=[]domain.MessageResponse}
// @Router /messages [get]
func (h *MailboxHandler) List(c *gin.Context) {
	viewer := middleware.GetUsername(c)
	if viewer == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	folder := mailbox.ParseFolder(c.Query("folder"))
	messages, meta, err := h.service.View(viewer, folder, c.Query("q"))
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load mailbox", err)
		return
	}

	common.SuccessResponse(c, messages, meta)
}

// Send handles POST /messages — multipart so attachments ride along
// with the draft and the whole send stays one atomic pipeline
// @Summary Send a message
// @Tags messages
// @Accept mpfd
// @Produce json
// @Param to formData string true "recipient identity"
// @Param subject formData string false "subject"
// @Param content formData string false "body"
// @Param reply_to formData string false "parent message id"
// @Param original_content formData string false "quoted original"
// @Param images formData file false "attachments"
// @Success 200 {object} common.APIResponse{data=domain.MessageResponse}
// @Router /messages [post]
func (h *MailboxHandler) Send(c *gin.Context) {
	sender := middleware.GetUsername(c)
	if sender == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	draft := &domain.ComposeDraft{
		To:      c.PostForm("to"),
		Subject: c.PostForm("subject"),
		Content: c.PostForm("content"),
	}
	if v := c.PostForm("reply_to"); v != "" {
		draft.ReplyTo = &v
	}
	if v := c.PostForm("original_content"); v != "" {
		draft.OriginalContent = &v
	}

	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "Failed to read attachment", err)
			return
		}
		defer f.Close()

		draft.Attachments = append(draft.Attachments, domain.PendingAttachment{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		})
	}

	result, err := h.service.Send(c.Request.Context(), sender, draft)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// Get handles GET /messages/:id
// @Summary Fetch one message by identifier
// @Tags messages
// @Produce json
// @Param id path string true "message id"
// @Success 200 {object} common.APIResponse{data=domain.MessageResponse}
// @Router /messages/{id} [get]
func (h *MailboxHandler) Get(c *gin.Context) {
	viewer := middleware.GetUsername(c)
	if viewer == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	msg, err := h.service.GetMessage(c.Param("id"), viewer)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, msg, nil)
}

// SetRead handles PATCH /messages/:id/read
// @Summary Mark a message read or unread
// @Tags messages
// @Accept json
// @Produce json
// @Param id path string true "message id"
// @Param request body domain.FlagRequest true "read flag"
// @Success 200 {object} common.APIResponse
// @Router /messages/{id}/read [patch]
func (h *MailboxHandler) SetRead(c *gin.Context) {
	h.setFlag(c, func(id, viewer string, value bool) error {
		return h.service.SetRead(c.Request.Context(), id, viewer, value)
	})
}

// SetStarred handles PATCH /messages/:id/star
// @Summary Star or unstar a message
// @Tags messages
// @Accept json
// @Produce json
// @Param id path string true "message id"
// @Param request body domain.FlagRequest true "starred flag"
// @Success 200 {object} common.APIResponse
// @Router /messages/{id}/star [patch]
func (h *MailboxHandler) SetStarred(c *gin.Context) {
	h.setFlag(c, func(id, viewer string, value bool) error {
		return h.service.SetStarred(c.Request.Context(), id, viewer, value)
	})
}

func (h *MailboxHandler) setFlag(c *gin.Context, apply func(id, viewer string, value bool) error) {
	viewer := middleware.GetUsername(c)
	if viewer == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req domain.FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := apply(c.Param("id"), viewer, req.Value); err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"updated": true}, nil)
}

// ReplyDraft handles GET /messages/:id/reply
// @Summary Build a reply prefill for a message
// @Tags messages
// @Produce json
// @Param id path string true "message id"
// @Success 200 {object} common.APIResponse{data=domain.ReplyPrefill}
// @Router /messages/{id}/reply [get]
func (h *MailboxHandler) ReplyDraft(c *gin.Context) {
	viewer := middleware.GetUsername(c)
	if viewer == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	prefill, err := h.service.ReplyDraft(c.Param("id"), viewer)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, prefill, nil)
}

// respondError maps service errors to HTTP responses. An
// unauthorized view never echoes anything about the record — the
// client gets the same generic placeholder regardless of what exists.
func (h *MailboxHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrUnauthorizedView):
		common.ErrorResponse(c, http.StatusForbidden, "You do not have permission to view this message", nil)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed", err)
	case errors.Is(err, common.ErrRecipientUnresolved):
		common.ErrorResponse(c, http.StatusUnprocessableEntity, "Cannot find that recipient. Check the username and try again.", err)
	case errors.Is(err, common.ErrAttachmentUploadFailed):
		common.ErrorResponse(c, http.StatusBadGateway, "Failed to upload attachment. Your draft was not sent; please try again.", err)
	case errors.Is(err, common.ErrNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Message not found", nil)
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "Internal error", err)
	}
}
