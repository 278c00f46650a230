package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/wiremail/wiremail-backend/internal/common"
	"github.com/wiremail/wiremail-backend/internal/directory"
	"github.com/wiremail/wiremail-backend/internal/domain"
	"github.com/wiremail/wiremail-backend/internal/mailbox"
	"github.com/wiremail/wiremail-backend/internal/repository"
	"github.com/wiremail/wiremail-backend/internal/stream"
	"github.com/wiremail/wiremail-backend/pkg/storage"
)

var (
	messagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailbox_messages_sent_total",
		Help: "Total number of messages admitted to the shared collection",
	})
	sendRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailbox_send_rejected_total",
		Help: "Sends rejected before any side effect (unresolved recipient)",
	})
	uploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailbox_upload_failures_total",
		Help: "Attachment uploads that aborted a send",
	})
)

// AttachmentUploader is the upload collaborator. S3Client satisfies it.
type AttachmentUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error)
}

// MailboxService business logic for the shared mailbox
type MailboxService interface {
	Send(ctx context.Context, sender string, draft *domain.ComposeDraft) (*domain.MessageResponse, error)
	View(viewer string, folder mailbox.Folder, query string) ([]*domain.MessageResponse, *common.Meta, error)
	GetMessage(id, viewer string) (*domain.MessageResponse, error)
	SetRead(ctx context.Context, id, viewer string, read bool) error
	SetStarred(ctx context.Context, id, viewer string, starred bool) error
	ReplyDraft(id, viewer string) (*domain.ReplyPrefill, error)
}

type mailboxService struct {
	repo       repository.MessageRepository
	collection stream.Collection
	tracker    *directory.Tracker
	uploader   AttachmentUploader
}

// NewMailboxService creates a new MailboxService. uploader may be nil
// when no storage backend is configured; sends with attachments then
// fail the same way a broken upload would, with nothing persisted.
func NewMailboxService(repo repository.MessageRepository, collection stream.Collection, tracker *directory.Tracker, uploader AttachmentUploader) MailboxService {
	return &mailboxService{
		repo:       repo,
		collection: collection,
		tracker:    tracker,
		uploader:   uploader,
	}
}

// Send runs the full send pipeline: recipient resolution, then every
// attachment upload, then the collection insert. Each stage fails
// before the next has side effects, so a rejected or aborted send
// leaves the shared collection untouched and the draft intact.
func (s *mailboxService) Send(ctx context.Context, sender string, draft *domain.ComposeDraft) (*domain.MessageResponse, error) {
	target := strings.TrimSpace(draft.To)
	if target == "" {
		return nil, fmt.Errorf("%w: recipient is required", common.ErrInvalidInput)
	}

	if !s.tracker.CanSend(target, sender) {
		sendRejected.Inc()
		return nil, fmt.Errorf("%w: %q", common.ErrRecipientUnresolved, target)
	}

	urls, err := s.uploadAll(ctx, draft.Attachments)
	if err != nil {
		uploadFailures.Inc()
		return nil, err
	}

	msg := &domain.Message{
		Sender:          sender,
		Recipient:       target,
		Subject:         draft.Subject,
		Content:         draft.Content,
		Images:          urls,
		Read:            false,
		Starred:         false,
		CreatedAt:       time.Now().UTC(),
		ReplyTo:         draft.ReplyTo,
		OriginalContent: draft.OriginalContent,
	}

	if _, err := s.collection.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	messagesSent.Inc()
	return msg.ToResponse(), nil
}

// uploadAll uploads every pending attachment in order. Any failure
// aborts the whole set; a partial attachment list is never committed.
func (s *mailboxService) uploadAll(ctx context.Context, attachments []domain.PendingAttachment) (domain.ImageList, error) {
	urls := make(domain.ImageList, 0, len(attachments))
	if len(attachments) == 0 {
		return urls, nil
	}

	if s.uploader == nil {
		return nil, fmt.Errorf("%w: no storage backend configured", common.ErrAttachmentUploadFailed)
	}

	for _, a := range attachments {
		key := storage.GenerateKey("attachments", a.Filename)
		result, err := s.uploader.Upload(ctx, key, a.Reader, a.ContentType, a.Size)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", common.ErrAttachmentUploadFailed, a.Filename, err)
		}
		urls = append(urls, result.PublicURL())
	}
	return urls, nil
}

// View assembles the viewer's current folder/search view plus badge
// counters, all derived from one snapshot of the collection
func (s *mailboxService) View(viewer string, folder mailbox.Folder, query string) ([]*domain.MessageResponse, *common.Meta, error) {
	records, err := s.repo.FindAll()
	if err != nil {
		return nil, nil, err
	}

	visible := mailbox.Visible(records, viewer)
	counters := mailbox.Count(visible, viewer)
	projected := mailbox.Project(visible, viewer, folder, query)

	responses := make([]*domain.MessageResponse, len(projected))
	for i := range projected {
		responses[i] = projected[i].ToResponse()
	}

	meta := &common.Meta{
		Folder:       string(folder),
		Query:        query,
		Total:        len(responses),
		UnreadCount:  counters.Unread,
		StarredCount: counters.Starred,
	}
	return responses, meta, nil
}

// GetMessage returns one record, enforcing the visibility predicate.
// A viewer who is neither sender nor recipient gets
// ErrUnauthorizedView and no content.
func (s *mailboxService) GetMessage(id, viewer string) (*domain.MessageResponse, error) {
	msg, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !msg.IsParty(viewer) {
		return nil, common.ErrUnauthorizedView
	}
	return msg.ToResponse(), nil
}

// SetRead toggles the read flag. Only the recipient may change it.
func (s *mailboxService) SetRead(ctx context.Context, id, viewer string, read bool) error {
	msg, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if !msg.IsParty(viewer) {
		return common.ErrUnauthorizedView
	}
	if msg.Recipient != viewer {
		return fmt.Errorf("%w: only the recipient can change read state", common.ErrForbidden)
	}
	return s.collection.Update(ctx, id, map[string]interface{}{"is_read": read})
}

// SetStarred toggles the starred flag for either party of the message
func (s *mailboxService) SetStarred(ctx context.Context, id, viewer string, starred bool) error {
	msg, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if !msg.IsParty(viewer) {
		return common.ErrUnauthorizedView
	}
	return s.collection.Update(ctx, id, map[string]interface{}{"starred": starred})
}

// ReplyDraft builds the compose prefill for replying to a message
func (s *mailboxService) ReplyDraft(id, viewer string) (*domain.ReplyPrefill, error) {
	msg, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !msg.IsParty(viewer) {
		return nil, common.ErrUnauthorizedView
	}

	draft := mailbox.BuildReply(msg)
	prefill := &domain.ReplyPrefill{
		To:      draft.To,
		Subject: draft.Subject,
	}
	if draft.ReplyTo != nil {
		prefill.ReplyTo = *draft.ReplyTo
	}
	if draft.OriginalContent != nil {
		prefill.OriginalContent = *draft.OriginalContent
	}
	return prefill, nil
}
