package http

import (
	"github.com/campusdesk/campusdesk/internal/application/ticket/usecases"
	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	shareddb "github.com/campusdesk/campusdesk/internal/shared/db"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	createTicketUC   *usecases.CreateTicketUseCase
	listForOwnerUC   *usecases.ListForOwnerUseCase
	listForHandlerUC *usecases.ListForHandlerUseCase
	getDetailUC      *usecases.GetTicketDetailUseCase
	replyUC          *usecases.ReplyUseCase
	updateStatusUC   *usecases.UpdateStatusUseCase
	assignTicketUC   *usecases.AssignTicketUseCase
	markReadUC       *usecases.MarkReadUseCase
	deleteTicketUC   *usecases.DeleteTicketUseCase
	openAttachmentUC *usecases.OpenAttachmentUseCase
}

// ============================================================
// Section 2: Use cases
// ============================================================

func (c *Container) initUseCases() {
	cfg := c.cfg
	log := c.log
	repos := c.repos
	svc := c.services

	txMgr := shareddb.NewTransactionManager(c.db)
	workflow := usecases.WorkflowConfig{
		ReadTracking:        c.readTracking,
		ReopenClosedOnReply: cfg.Ticket.ReopenClosedOnReply,
		PreviewLength:       cfg.Ticket.PreviewLength,
	}
	ingestor := usecases.NewAttachmentIngestor(svc.store, cfg.Storage.MaxFiles, cfg.Storage.MaxFileBytes, log.Named("ingestion"))

	// a nil pointer must not reach the use cases as a non-nil interface
	var readRepo ticket.ReadMarkerRepository
	if repos.readMarkerRepo != nil {
		readRepo = repos.readMarkerRepo
	}

	c.ucs = &allUseCases{
		createTicketUC: usecases.NewCreateTicketUseCase(
			repos.ticketRepo, repos.messageRepo, repos.attachmentRepo,
			svc.numberGen, ingestor, c.dispatcher, txMgr, log,
		),
		listForOwnerUC: usecases.NewListForOwnerUseCase(
			repos.ticketRepo, readRepo, repos.directoryRepo, svc.renderer, workflow, log,
		),
		listForHandlerUC: usecases.NewListForHandlerUseCase(
			repos.ticketRepo, svc.oracle, repos.directoryRepo, svc.renderer, workflow, log,
		),
		getDetailUC: usecases.NewGetTicketDetailUseCase(
			repos.ticketRepo, repos.messageRepo, repos.attachmentRepo, readRepo,
			svc.oracle, repos.directoryRepo, svc.store, svc.renderer, workflow, log,
		),
		replyUC: usecases.NewReplyUseCase(
			repos.ticketRepo, repos.messageRepo, repos.attachmentRepo,
			svc.oracle, ingestor, c.dispatcher, workflow, txMgr, log,
		),
		updateStatusUC: usecases.NewUpdateStatusUseCase(
			repos.ticketRepo, repos.messageRepo, svc.oracle, c.dispatcher, txMgr, log,
		),
		assignTicketUC: usecases.NewAssignTicketUseCase(
			repos.ticketRepo, svc.oracle, c.dispatcher, txMgr, log,
		),
		markReadUC: usecases.NewMarkReadUseCase(
			repos.ticketRepo, repos.messageRepo, readRepo, svc.oracle, workflow, log,
		),
		deleteTicketUC: usecases.NewDeleteTicketUseCase(
			repos.ticketRepo, svc.oracle, txMgr, log,
		),
		openAttachmentUC: usecases.NewOpenAttachmentUseCase(
			repos.ticketRepo, repos.messageRepo, repos.attachmentRepo, svc.oracle, svc.store, log,
		),
	}
}
