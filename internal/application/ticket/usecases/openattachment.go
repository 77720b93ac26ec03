package usecases

import (
	"context"
	"io"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

type OpenAttachmentQuery struct {
	StorageKey string
	CallerID   uint
}

type OpenAttachmentResult struct {
	Filename  string
	MIMEType  string
	SizeBytes int64
	Content   io.ReadCloser
}

// OpenAttachmentUseCase streams a blob to a caller who can see at least one
// message referencing it. Internal notes only grant access to handlers.
type OpenAttachmentUseCase struct {
	ticketRepo     ticket.TicketRepository
	messageRepo    ticket.MessageRepository
	attachmentRepo ticket.AttachmentRepository
	oracle         PermissionOracle
	store          AttachmentStore
	logger         logger.Interface
}

func NewOpenAttachmentUseCase(
	ticketRepo ticket.TicketRepository,
	messageRepo ticket.MessageRepository,
	attachmentRepo ticket.AttachmentRepository,
	oracle PermissionOracle,
	store AttachmentStore,
	logger logger.Interface,
) *OpenAttachmentUseCase {
	return &OpenAttachmentUseCase{
		ticketRepo:     ticketRepo,
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		oracle:         oracle,
		store:          store,
		logger:         logger,
	}
}

func (uc *OpenAttachmentUseCase) Execute(ctx context.Context, query OpenAttachmentQuery) (*OpenAttachmentResult, error) {
	uc.logger.Infow("executing open attachment use case", "key", query.StorageKey, "caller_id", query.CallerID)

	rows, err := uc.attachmentRepo.ListByStorageKey(ctx, query.StorageKey)
	if err != nil {
		return nil, wrapRepoError(uc.logger, "list attachments", err, "key", query.StorageKey)
	}
	if len(rows) == 0 {
		return nil, errors.NewPermissionDeniedError()
	}

	isHandler, err := uc.oracle.IsHandler(ctx, query.CallerID)
	if err != nil {
		uc.logger.Errorw("permission oracle failed", "user_id", query.CallerID, "error", err)
		return nil, errors.NewUpstreamError("permission check unavailable")
	}

	granted, err := uc.findVisible(ctx, rows, query.CallerID, isHandler)
	if err != nil {
		return nil, err
	}
	if granted == nil {
		uc.logger.Warnw("attachment access denied", "key", query.StorageKey, "caller_id", query.CallerID)
		return nil, errors.NewPermissionDeniedError()
	}

	content, err := uc.store.Open(ctx, query.StorageKey)
	if err != nil {
		uc.logger.Errorw("failed to open stored attachment", "key", query.StorageKey, "error", err)
		return nil, errors.NewUpstreamError("attachment store unavailable")
	}

	return &OpenAttachmentResult{
		Filename:  granted.Filename(),
		MIMEType:  granted.MIMEType(),
		SizeBytes: granted.SizeBytes(),
		Content:   content,
	}, nil
}

// findVisible returns the first row whose ticket and message the caller can
// see. The oracle's CanViewTicket is consulted at most once.
func (uc *OpenAttachmentUseCase) findVisible(ctx context.Context, rows []*ticket.Attachment, callerID uint, isHandler bool) (*ticket.Attachment, error) {
	askedOracle := false
	for _, a := range rows {
		t, err := uc.ticketRepo.GetByID(ctx, a.TicketID())
		if err != nil {
			if errors.IsNotFoundError(err) {
				continue
			}
			return nil, wrapRepoError(uc.logger, "load ticket", err, "ticket_id", a.TicketID())
		}

		if !isHandler && !t.IsRequester(callerID) {
			if askedOracle {
				continue
			}
			askedOracle = true
			ok, err := uc.oracle.CanViewTicket(ctx, callerID, t)
			if err != nil {
				uc.logger.Errorw("permission oracle failed", "user_id", callerID, "ticket_id", t.ID(), "error", err)
				return nil, errors.NewUpstreamError("permission check unavailable")
			}
			if !ok {
				continue
			}
		}

		if isHandler {
			return a, nil
		}
		m, err := uc.messageRepo.GetByID(ctx, a.MessageID())
		if err != nil {
			if errors.IsNotFoundError(err) {
				continue
			}
			return nil, wrapRepoError(uc.logger, "load message", err, "message_id", a.MessageID())
		}
		if !m.Visibility().IsInternal() {
			return a, nil
		}
	}
	return nil, nil
}
