package connection

import (
	"context"
	"errors"
	"testing"
	"time"

	"doctrack-go/internal/notify"
	"doctrack-go/pkg/logger"
)

var errNoSuchUser = errors.New("no such user")

type fakeIdentity struct {
	users map[string]string
}

func (f *fakeIdentity) ResolveIdentifier(_ context.Context, identifier string) (string, error) {
	id, ok := f.users[identifier]
	if !ok {
		return "", errNoSuchUser
	}
	return id, nil
}

type fakePublisher struct {
	events []notify.Event
}

func (f *fakePublisher) Publish(event notify.Event) {
	f.events = append(f.events, event)
}

type fakeConnectionRepo struct {
	rows       map[string]*Connection
	failCreate bool
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{rows: make(map[string]*Connection)}
}

func (r *fakeConnectionRepo) Transaction(_ context.Context, fn func(Repository) error) error {
	snapshot := make(map[string]*Connection, len(r.rows))
	for id, row := range r.rows {
		copied := *row
		snapshot[id] = &copied
	}
	if err := fn(r); err != nil {
		r.rows = snapshot
		return err
	}
	return nil
}

func (r *fakeConnectionRepo) GetByID(_ context.Context, id string) (*Connection, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, ErrConnectionNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *fakeConnectionRepo) Create(_ context.Context, conn *Connection) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	copied := *conn
	r.rows[conn.ID] = &copied
	return nil
}

func (r *fakeConnectionRepo) MarkAccepted(_ context.Context, id string, acceptedAt time.Time) (bool, error) {
	row, ok := r.rows[id]
	if !ok || row.Status != StatusPending {
		return false, nil
	}
	row.Status = StatusAccepted
	at := acceptedAt
	row.AcceptedAt = &at
	return true, nil
}

func (r *fakeConnectionRepo) DeletePending(_ context.Context, id string) (bool, error) {
	row, ok := r.rows[id]
	if !ok || row.Status != StatusPending {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *fakeConnectionRepo) DeleteBetween(_ context.Context, userA, userB string) error {
	for id, row := range r.rows {
		if (row.OwnerID == userA && row.PeerID == userB) || (row.OwnerID == userB && row.PeerID == userA) {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakeConnectionRepo) ExistsBetween(_ context.Context, userA, userB string) (bool, error) {
	for _, row := range r.rows {
		if (row.OwnerID == userA && row.PeerID == userB) || (row.OwnerID == userB && row.PeerID == userA) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConnectionRepo) ListAccepted(_ context.Context, ownerID string) ([]Connection, error) {
	var result []Connection
	for _, row := range r.rows {
		if row.OwnerID == ownerID && row.Status == StatusAccepted {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *fakeConnectionRepo) ListPendingIncoming(_ context.Context, peerID string) ([]Connection, error) {
	var result []Connection
	for _, row := range r.rows {
		if row.PeerID == peerID && row.Status == StatusPending {
			result = append(result, *row)
		}
	}
	return result, nil
}

func newTestService(repo *fakeConnectionRepo, pub *fakePublisher) *Service {
	identity := &fakeIdentity{users: map[string]string{
		"bob@example.com": "user-b",
	}}
	return NewService(repo, identity, pub, nil, logger.NewNop())
}

func TestSendRequestSuccess(t *testing.T) {
	repo := newFakeConnectionRepo()
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)

	conn, err := svc.SendRequest(context.Background(), "user-a", "bob@example.com", KindFriend)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if conn.Status != StatusPending {
		t.Fatalf("expected pending, got %q", conn.Status)
	}
	if conn.OwnerID != "user-a" || conn.PeerID != "user-b" {
		t.Fatalf("unexpected edge %s -> %s", conn.OwnerID, conn.PeerID)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(pub.events))
	}
	if pub.events[0].Kind != notify.KindConnectionRequest || pub.events[0].TargetUserID != "user-b" {
		t.Fatalf("unexpected event %+v", pub.events[0])
	}
}

func TestSendRequestInvalidKind(t *testing.T) {
	svc := newTestService(newFakeConnectionRepo(), &fakePublisher{})
	_, err := svc.SendRequest(context.Background(), "user-a", "bob@example.com", "cousin")
	if !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestSendRequestTargetNotFound(t *testing.T) {
	svc := newTestService(newFakeConnectionRepo(), &fakePublisher{})
	_, err := svc.SendRequest(context.Background(), "user-a", "nobody@example.com", KindFriend)
	if !errors.Is(err, errNoSuchUser) {
		t.Fatalf("expected resolve error, got %v", err)
	}
}

func TestSendRequestSelfConnection(t *testing.T) {
	svc := newTestService(newFakeConnectionRepo(), &fakePublisher{})
	_, err := svc.SendRequest(context.Background(), "user-b", "bob@example.com", KindFriend)
	if !errors.Is(err, ErrSelfConnection) {
		t.Fatalf("expected ErrSelfConnection, got %v", err)
	}
}

func TestSendRequestDuplicate(t *testing.T) {
	repo := newFakeConnectionRepo()
	repo.rows["c1"] = &Connection{ID: "c1", OwnerID: "user-a", PeerID: "user-b", Kind: KindFriend, Status: StatusPending}

	svc := newTestService(repo, &fakePublisher{})
	_, err := svc.SendRequest(context.Background(), "user-a", "bob@example.com", KindFriend)
	if !errors.Is(err, ErrConnectionExists) {
		t.Fatalf("expected ErrConnectionExists, got %v", err)
	}
}

func TestSendRequestReversePendingConflicts(t *testing.T) {
	repo := newFakeConnectionRepo()
	repo.rows["c1"] = &Connection{ID: "c1", OwnerID: "user-b", PeerID: "user-a", Kind: KindFriend, Status: StatusPending}

	svc := newTestService(repo, &fakePublisher{})
	_, err := svc.SendRequest(context.Background(), "user-a", "bob@example.com", KindFriend)
	if !errors.Is(err, ErrConnectionExists) {
		t.Fatalf("expected ErrConnectionExists for reverse pending, got %v", err)
	}
}

func TestAcceptCreatesMirror(t *testing.T) {
	repo := newFakeConnectionRepo()
	repo.rows["c1"] = &Connection{ID: "c1", OwnerID: "user-a", PeerID: "user-b", Kind: KindParent, Status: StatusPending}

	svc := newTestService(repo, &fakePublisher{})
	accepted, err := svc.Accept(context.Background(), "c1", "user-b")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if accepted.Status != StatusAccepted || accepted.AcceptedAt == nil {
		t.Fatalf("expected accepted row, got %+v", accepted)
	}

	fromA, _ := repo.ListAccepted(context.Background(), "user-a")
	fromB, _ := repo.ListAccepted(context.Background(), "user-b")
	if len(fromA) != 1 || fromA[0].PeerID != "user-b" {
		t.Fatalf("expected user-a connected to user-b, got %+v", fromA)
	}
	if len(fromB) != 1 || fromB[0].PeerID != "user-a" {
		t.Fatalf("expected user-b connected to user-a, got %+v", fromB)
	}
	if fromB[0].Kind != KindChild {
		t.Fatalf("expected mirrored kind child, got %q", fromB[0].Kind)
	}
}

func TestAcceptOnlyInvitee(t *testing.T) {
	repo := newFakeConnectionRepo()
	repo.rows["c1"] = &Connection{ID: "c1", OwnerID: "user-a", PeerID: "user-b", Kind: KindFriend, Status: StatusPending}

	svc := newTestService(repo, &fakePublisher{})
	if _, err := svc.Accept(context.Background(), "c1", "user-a"); !errors.Is(err, ErrNotInvitee) {
		t.Fatalf("expected ErrNotInvitee, got %v", err)
	}
}

func TestAcceptAlreadyResolved(t *testing.T) {
	repo := newFakeConnectionRepo()
	now := time.Now().UTC()
	repo.rows["c1"] = &Connection{ID: "c1", OwnerID: "user-a", PeerID: "user-b", Kind: KindFriend, Status: StatusAccepted, AcceptedAt: &now}

	svc := newTestService(repo, &fakePublisher{})
	if _, err := svc.Accept(context.Background(), "c1", "user-b"); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
}

func TestAcceptNotFound(t *testing.T) {
	svc := newTestService(newFakeConnectionRepo(), &fakePublisher{})
	if _, err := svc.Accept(context.Background(), "missing", "user-b"); !errors.Is(err, ErrConnectionNotFound) {
		t.Fatalf("expected ErrConnectionNotFound, got %v", err)
	}
}

func TestAcceptMirrorFailureRollsBack(t *testing.T) {
	repo := newFakeConnectionRepo()
	repo.rows["c1"] = &Connection{ID: "c1", OwnerID: "user-a", PeerID: "user-b", Kind: KindFriend, Status: StatusPending}
	repo.failCreate = true

	svc := newTestService(repo, &fakePublisher{})
	if _, err := svc.Accept(context.Background(), "c1", "user-b"); err == nil {
		t.Fatalf("expected error")
	}

	row, err := repo.GetByID(context.Background(), "c1")
	if err != nil {
		t.Fatalf("expected row to survive, got %v", err)
	}
	if row.Status != StatusPending {
		t.Fatalf("expected rollback to pending, got %q", row.Status)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected no mirror row, got %d rows", len(repo.rows))
	}
}

func TestDeclineDeletesPending(t *testing.T) {
	repo := newFakeConnectionRepo()
	repo.rows["c1"] = &Connection{ID: "c1", OwnerID: "user-a", PeerID: "user-b", Kind: KindFriend, Status: StatusPending}

	svc := newTestService(repo, &fakePublisher{})
	if err := svc.Decline(context.Background(), "c1", "user-b"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("expected row deleted, got %d rows", len(repo.rows))
	}
}

func TestDeclineOnlyInvitee(t *testing.T) {
	repo := newFakeConnectionRepo()
	repo.rows["c1"] = &Connection{ID: "c1", OwnerID: "user-a", PeerID: "user-b", Kind: KindFriend, Status: StatusPending}

	svc := newTestService(repo, &fakePublisher{})
	if err := svc.Decline(context.Background(), "c1", "user-a"); !errors.Is(err, ErrNotInvitee) {
		t.Fatalf("expected ErrNotInvitee, got %v", err)
	}
}

func TestRemoveDeletesBothDirections(t *testing.T) {
	repo := newFakeConnectionRepo()
	now := time.Now().UTC()
	repo.rows["c1"] = &Connection{ID: "c1", OwnerID: "user-a", PeerID: "user-b", Kind: KindFriend, Status: StatusAccepted, AcceptedAt: &now}
	repo.rows["c2"] = &Connection{ID: "c2", OwnerID: "user-b", PeerID: "user-a", Kind: KindFriend, Status: StatusAccepted, AcceptedAt: &now}

	svc := newTestService(repo, &fakePublisher{})
	if err := svc.Remove(context.Background(), "c2", "user-a"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	fromA, _ := repo.ListAccepted(context.Background(), "user-a")
	fromB, _ := repo.ListAccepted(context.Background(), "user-b")
	if len(fromA) != 0 || len(fromB) != 0 {
		t.Fatalf("expected both directions removed, got %d and %d", len(fromA), len(fromB))
	}
}

func TestRemoveNotParticipant(t *testing.T) {
	repo := newFakeConnectionRepo()
	repo.rows["c1"] = &Connection{ID: "c1", OwnerID: "user-a", PeerID: "user-b", Kind: KindFriend, Status: StatusAccepted}

	svc := newTestService(repo, &fakePublisher{})
	if err := svc.Remove(context.Background(), "c1", "user-c"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestAcceptEmitsNoNotification(t *testing.T) {
	repo := newFakeConnectionRepo()
	repo.rows["c1"] = &Connection{ID: "c1", OwnerID: "user-a", PeerID: "user-b", Kind: KindFriend, Status: StatusPending}
	pub := &fakePublisher{}

	svc := newTestService(repo, pub)
	if _, err := svc.Accept(context.Background(), "c1", "user-b"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no notification on accept, got %d", len(pub.events))
	}
}
