package share

import (
	"context"
	"strings"

	"doctrack-go/internal/notify"
	"doctrack-go/internal/platform/metrics"
	"doctrack-go/pkg/logger"
	"github.com/google/uuid"
)

type Service struct {
	repo      Repository
	documents DocumentStore
	publisher notify.Publisher
	metrics   *metrics.Metrics
	log       logger.Logger
}

func NewService(repo Repository, documents DocumentStore, publisher notify.Publisher, m *metrics.Metrics, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		documents: documents,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// Grant verifies current ownership against the document store and upserts the
// capability row. Ownership is checked immediately before the write; a grant
// that goes stale through a later ownership transfer stays revocable.
func (s *Service) Grant(ctx context.Context, ownerID, documentID, recipientID, permission string, message *string) (*SharedDocument, error) {
	if !ValidPermission(permission) {
		return nil, ErrInvalidPermission
	}
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return nil, ErrRecipientRequired
	}
	if recipientID == ownerID {
		return nil, ErrSelfShare
	}

	currentOwner, err := s.documents.OwnerOf(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if currentOwner != ownerID {
		return nil, ErrNotDocumentOwner
	}

	grant := SharedDocument{
		ID:          uuid.NewString(),
		DocumentID:  documentID,
		RecipientID: recipientID,
		OwnerID:     ownerID,
		Permission:  permission,
		Message:     message,
	}
	saved, err := s.repo.Upsert(ctx, &grant)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.DocumentsShared.Inc()
	}
	s.publish(notify.Event{
		TargetUserID: recipientID,
		Kind:         notify.KindDocumentShared,
		Payload: map[string]any{
			"shared_document_id": saved.ID,
			"document_id":        documentID,
			"owner_id":           ownerID,
			"permission":         saved.Permission,
			"link":               "/documents/" + documentID,
		},
	})

	return saved, nil
}

// Revoke deletes the grant. Only the grantor may revoke; a recipient cannot
// drop their own access through this path.
func (s *Service) Revoke(ctx context.Context, sharedDocumentID, actingUserID string) error {
	grant, err := s.repo.GetByID(ctx, sharedDocumentID)
	if err != nil {
		return err
	}
	if grant.OwnerID != actingUserID {
		return ErrNotGrantOwner
	}

	deleted, err := s.repo.Delete(ctx, sharedDocumentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrShareNotFound
	}
	return nil
}

func (s *Service) ListSharedWithMe(ctx context.Context, userID string) ([]IncomingShare, error) {
	return s.repo.ListForRecipient(ctx, userID)
}

func (s *Service) ListSharedByMe(ctx context.Context, userID string) ([]OutgoingShare, error) {
	return s.repo.ListForOwner(ctx, userID)
}

func (s *Service) publish(event notify.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(event)
}
