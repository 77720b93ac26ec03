package usecases

import (
	"context"

	"github.com/campusdesk/campusdesk/internal/application/ticket/dto"
	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

type GetTicketDetailQuery struct {
	TicketID uint
	CallerID uint
}

type GetTicketDetailUseCase struct {
	access         accessChecker
	messageRepo    ticket.MessageRepository
	attachmentRepo ticket.AttachmentRepository
	readRepo       ticket.ReadMarkerRepository
	directory      UserDirectory
	store          AttachmentStore
	renderer       BodyRenderer
	config         WorkflowConfig
	logger         logger.Interface
}

func NewGetTicketDetailUseCase(
	ticketRepo ticket.TicketRepository,
	messageRepo ticket.MessageRepository,
	attachmentRepo ticket.AttachmentRepository,
	readRepo ticket.ReadMarkerRepository,
	oracle PermissionOracle,
	directory UserDirectory,
	store AttachmentStore,
	renderer BodyRenderer,
	config WorkflowConfig,
	logger logger.Interface,
) *GetTicketDetailUseCase {
	return &GetTicketDetailUseCase{
		access:         accessChecker{ticketRepo: ticketRepo, oracle: oracle, logger: logger},
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		readRepo:       readRepo,
		directory:      directory,
		store:          store,
		renderer:       renderer,
		config:         config,
		logger:         logger,
	}
}

func (uc *GetTicketDetailUseCase) Execute(ctx context.Context, query GetTicketDetailQuery) (*dto.TicketDetailDTO, error) {
	uc.logger.Infow("executing get ticket detail use case", "ticket_id", query.TicketID, "caller_id", query.CallerID)

	v, err := uc.access.load(ctx, query.TicketID, query.CallerID)
	if err != nil {
		return nil, err
	}
	t := v.ticket

	messages, err := uc.messageRepo.ListByTicket(ctx, t.ID(), v.isHandler)
	if err != nil {
		return nil, wrapRepoError(uc.logger, "list messages", err, "ticket_id", t.ID())
	}

	attachments, err := uc.loadAttachments(ctx, messages)
	if err != nil {
		return nil, err
	}

	ids := []uint{t.RequesterID()}
	if a := t.AssigneeID(); a != nil {
		ids = append(ids, *a)
	}
	for _, m := range messages {
		ids = append(ids, m.AuthorID())
	}
	names := lookupNames(ctx, uc.directory, uc.logger, ids...)

	items := make([]*dto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		html := uc.renderer.RenderHTML(m.Body(), m.BodyFormat())
		items = append(items, dto.ToMessageDTO(m, names[m.AuthorID()], html, attachments[m.ID()]))
	}

	if t.IsRequester(query.CallerID) {
		uc.markHandlerRepliesRead(ctx, t.ID(), query.CallerID, messages)
	}

	detail := &dto.TicketDetailDTO{
		TicketDTO:     *dto.ToTicketDTO(t),
		RequesterName: names[t.RequesterID()],
		Body:          t.Body(),
		Messages:      items,
	}
	if a := t.AssigneeID(); a != nil {
		detail.AssigneeName = names[*a]
	}
	return detail, nil
}

func (uc *GetTicketDetailUseCase) loadAttachments(ctx context.Context, messages []*ticket.Message) (map[uint][]*dto.AttachmentDTO, error) {
	var withFiles []uint
	for _, m := range messages {
		if m.HasAttachments() {
			withFiles = append(withFiles, m.ID())
		}
	}
	out := make(map[uint][]*dto.AttachmentDTO, len(withFiles))
	if len(withFiles) == 0 {
		return out, nil
	}

	rows, err := uc.attachmentRepo.ListByMessageIDs(ctx, withFiles)
	if err != nil {
		return nil, wrapRepoError(uc.logger, "list attachments", err, "messages", len(withFiles))
	}
	for _, a := range rows {
		out[a.MessageID()] = append(out[a.MessageID()], dto.ToAttachmentDTO(a, uc.store.ResolveURL(a)))
	}
	return out, nil
}

// markHandlerRepliesRead is best-effort; the detail is returned either way.
func (uc *GetTicketDetailUseCase) markHandlerRepliesRead(ctx context.Context, ticketID, userID uint, messages []*ticket.Message) {
	if !uc.config.ReadTracking || uc.readRepo == nil {
		return
	}
	var ids []uint
	for _, m := range messages {
		if m.CountsAsUnreadFor() {
			ids = append(ids, m.ID())
		}
	}
	if len(ids) == 0 {
		return
	}
	if err := uc.readRepo.MarkRead(ctx, ticketID, userID, ids); err != nil {
		uc.logger.Warnw("failed to mark messages read",
			"ticket_id", ticketID,
			"user_id", userID,
			"error", err,
		)
	}
}
