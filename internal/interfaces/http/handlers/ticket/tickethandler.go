package ticket

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk/internal/application/ticket/usecases"
	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
	"github.com/campusdesk/campusdesk/internal/shared/utils"
)

type TicketHandler struct {
	createTicketUC   usecases.CreateTicketExecutor
	listForOwnerUC   usecases.ListForOwnerExecutor
	listForHandlerUC usecases.ListForHandlerExecutor
	getDetailUC      usecases.GetTicketDetailExecutor
	replyUC          usecases.ReplyExecutor
	updateStatusUC   usecases.UpdateStatusExecutor
	assignTicketUC   usecases.AssignTicketExecutor
	markReadUC       usecases.MarkReadExecutor
	deleteTicketUC   usecases.DeleteTicketExecutor
	openAttachmentUC usecases.OpenAttachmentExecutor
	maxFileBytes     int64
	logger           logger.Interface
}

func NewTicketHandler(
	createTicketUC usecases.CreateTicketExecutor,
	listForOwnerUC usecases.ListForOwnerExecutor,
	listForHandlerUC usecases.ListForHandlerExecutor,
	getDetailUC usecases.GetTicketDetailExecutor,
	replyUC usecases.ReplyExecutor,
	updateStatusUC usecases.UpdateStatusExecutor,
	assignTicketUC usecases.AssignTicketExecutor,
	markReadUC usecases.MarkReadExecutor,
	deleteTicketUC usecases.DeleteTicketExecutor,
	openAttachmentUC usecases.OpenAttachmentExecutor,
	maxFileBytes int64,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		createTicketUC:   createTicketUC,
		listForOwnerUC:   listForOwnerUC,
		listForHandlerUC: listForHandlerUC,
		getDetailUC:      getDetailUC,
		replyUC:          replyUC,
		updateStatusUC:   updateStatusUC,
		assignTicketUC:   assignTicketUC,
		markReadUC:       markReadUC,
		deleteTicketUC:   deleteTicketUC,
		openAttachmentUC: openAttachmentUC,
		maxFileBytes:     maxFileBytes,
		logger:           logger,
	}
}

// CreateTicket handles POST /tickets
//
//	@Summary		Create a ticket
//	@Description	Opens a support ticket or doubt. Multipart requests may carry files in "attachments" or "attachment".
//	@Tags			Tickets
//	@Accept			json,mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateTicketRequest	true	"Ticket"
//	@Success		201		{object}	utils.APIResponse{data=CreateTicketResponse}
//	@Failure		400		{object}	utils.APIResponse
//	@Failure		502		{object}	utils.APIResponse
//	@Router			/tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	uploads, err := collectUploads(c, h.maxFileBytes)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createTicketUC.Execute(c.Request.Context(), req.ToCommand(userID, uploads))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, CreateTicketResponse{
		TicketID:        result.TicketID,
		Number:          result.Number,
		Status:          result.Status,
		MessageID:       result.MessageID,
		AttachmentCount: result.AttachmentCount,
	}, "Ticket created successfully")
}

// ListMine handles GET /tickets/mine
//
//	@Summary	List the caller's tickets
//	@Tags		Tickets
//	@Produce	json
//	@Security	BearerAuth
//	@Param		kind	query		string	false	"support or doubt"
//	@Success	200		{object}	utils.APIResponse{data=[]dto.TicketSummaryDTO}
//	@Router		/tickets/mine [get]
func (h *TicketHandler) ListMine(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ListMineRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.listForOwnerUC.Execute(c.Request.Context(), usecases.ListForOwnerQuery{
		UserID: userID,
		Kind:   req.Kind,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListQueue handles GET /tickets, the handler work queue.
//
//	@Summary	List the handler queue
//	@Tags		Tickets
//	@Produce	json
//	@Security	BearerAuth
//	@Param		kind		query		string	false	"support or doubt"
//	@Param		status		query		string	false	"Status filter"
//	@Param		priority	query		string	false	"Priority filter"
//	@Param		assigned	query		string	false	"unassigned, self or a user id"
//	@Param		q			query		string	false	"Search in subject and number"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	utils.APIResponse{data=dto.HandlerQueueDTO}
//	@Failure	403			{object}	utils.APIResponse
//	@Router		/tickets [get]
func (h *TicketHandler) ListQueue(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ListQueueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.listForHandlerUC.Execute(c.Request.Context(), req.ToQuery(userID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTicket handles GET /tickets/:id
//
//	@Summary	Get a ticket with its thread
//	@Tags		Tickets
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Ticket ID"
//	@Success	200	{object}	utils.APIResponse{data=dto.TicketDetailDTO}
//	@Failure	403	{object}	utils.APIResponse
//	@Failure	404	{object}	utils.APIResponse
//	@Router		/tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	userID, ticketID, err := callerAndTicket(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getDetailUC.Execute(c.Request.Context(), usecases.GetTicketDetailQuery{
		TicketID: ticketID,
		CallerID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Reply handles POST /tickets/:id/replies
//
//	@Summary	Reply to a ticket
//	@Tags		Tickets
//	@Accept		json,mpfd
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int				true	"Ticket ID"
//	@Param		request	body		ReplyRequest	true	"Reply"
//	@Success	201		{object}	utils.APIResponse{data=ReplyResponse}
//	@Failure	403		{object}	utils.APIResponse
//	@Failure	409		{object}	utils.APIResponse
//	@Router		/tickets/{id}/replies [post]
func (h *TicketHandler) Reply(c *gin.Context) {
	userID, ticketID, err := callerAndTicket(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ReplyRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warnw("invalid request body for reply", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	uploads, err := collectUploads(c, h.maxFileBytes)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.replyUC.Execute(c.Request.Context(), req.ToCommand(ticketID, userID, uploads))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, ReplyResponse{
		MessageID:       result.MessageID,
		Status:          result.Status,
		StatusChanged:   result.StatusChanged,
		AttachmentCount: result.AttachmentCount,
	}, "Reply added")
}

// UpdateStatus handles PATCH /tickets/:id/status
//
//	@Summary	Change ticket status
//	@Tags		Tickets
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"Ticket ID"
//	@Param		request	body		UpdateStatusRequest	true	"Status"
//	@Success	200		{object}	utils.APIResponse{data=dto.TicketDTO}
//	@Router		/tickets/{id}/status [patch]
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	userID, ticketID, err := callerAndTicket(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.updateStatusUC.Execute(c.Request.Context(), usecases.UpdateStatusCommand{
		TicketID: ticketID,
		CallerID: userID,
		Status:   req.Status,
		Note:     req.Note,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket status updated", result)
}

// AssignTicket handles PUT /tickets/:id/assignee
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	userID, ticketID, err := callerAndTicket(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.assignTicketUC.Execute(c.Request.Context(), usecases.AssignTicketCommand{
		TicketID:   ticketID,
		CallerID:   userID,
		AssigneeID: req.AssigneeID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket assignment updated", result)
}

// MarkRead handles POST /tickets/:id/read
func (h *TicketHandler) MarkRead(c *gin.Context) {
	userID, ticketID, err := callerAndTicket(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	marked, err := h.markReadUC.Execute(c.Request.Context(), usecases.MarkReadCommand{
		TicketID: ticketID,
		UserID:   userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", MarkReadResponse{Marked: marked})
}

// DeleteTicket handles DELETE /tickets/:id
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	userID, ticketID, err := callerAndTicket(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteTicketUC.Execute(c.Request.Context(), usecases.DeleteTicketCommand{
		TicketID: ticketID,
		CallerID: userID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// DownloadAttachment handles GET /attachments/:key
//
//	@Summary	Download an attachment
//	@Tags		Attachments
//	@Produce	octet-stream
//	@Security	BearerAuth
//	@Param		key	path	string	true	"Storage key"
//	@Success	200
//	@Failure	403	{object}	utils.APIResponse
//	@Router		/attachments/{key} [get]
func (h *TicketHandler) DownloadAttachment(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	key := c.Param("key")
	if key == "" {
		utils.ErrorResponseWithError(c, errors.NewFieldValidationError("key", "attachment key is required"))
		return
	}

	result, err := h.openAttachmentUC.Execute(c.Request.Context(), usecases.OpenAttachmentQuery{
		StorageKey: key,
		CallerID:   userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	defer result.Content.Close()

	headers := map[string]string{
		"Content-Disposition":    mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}),
		"X-Content-Type-Options": "nosniff",
		"Cache-Control":          "private, max-age=3600",
	}
	c.DataFromReader(http.StatusOK, result.SizeBytes, result.MIMEType, result.Content, headers)
}

func currentUserID(c *gin.Context) (uint, error) {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return 0, errors.NewUnauthorizedError("authentication required")
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return 0, errors.NewUnauthorizedError("authentication required")
	}
	return id, nil
}

func callerAndTicket(c *gin.Context) (uint, uint, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return 0, 0, err
	}
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		return 0, 0, err
	}
	return userID, ticketID, nil
}
