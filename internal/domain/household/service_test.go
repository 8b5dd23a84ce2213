package household

import (
	"context"
	"errors"
	"testing"

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

type fakeHouseholdRepo struct {
	households    map[string]*Household
	members       map[string][]Member
	failAddMember bool
}

func newFakeHouseholdRepo() *fakeHouseholdRepo {
	return &fakeHouseholdRepo{
		households: make(map[string]*Household),
		members:    make(map[string][]Member),
	}
}

func (r *fakeHouseholdRepo) Transaction(_ context.Context, fn func(Repository) error) error {
	households := make(map[string]*Household, len(r.households))
	for id, h := range r.households {
		copied := *h
		households[id] = &copied
	}
	members := make(map[string][]Member, len(r.members))
	for id, list := range r.members {
		members[id] = append([]Member(nil), list...)
	}
	if err := fn(r); err != nil {
		r.households = households
		r.members = members
		return err
	}
	return nil
}

func (r *fakeHouseholdRepo) CreateHousehold(_ context.Context, h *Household) error {
	copied := *h
	r.households[h.ID] = &copied
	return nil
}

func (r *fakeHouseholdRepo) AddMember(_ context.Context, member *Member) error {
	if r.failAddMember {
		return errors.New("insert failed")
	}
	r.members[member.HouseholdID] = append(r.members[member.HouseholdID], *member)
	return nil
}

func (r *fakeHouseholdRepo) ListForUser(_ context.Context, userID string) ([]Household, error) {
	var result []Household
	for id, list := range r.members {
		for _, member := range list {
			if member.UserID == userID {
				result = append(result, *r.households[id])
				break
			}
		}
	}
	return result, nil
}

func (r *fakeHouseholdRepo) ListMembers(_ context.Context, householdID string) ([]MemberProfile, error) {
	var result []MemberProfile
	for _, member := range r.members[householdID] {
		result = append(result, MemberProfile{
			UserID:   member.UserID,
			Role:     member.Role,
			JoinedAt: member.JoinedAt,
		})
	}
	return result, nil
}

func newTestService(repo *fakeHouseholdRepo, pub *fakePublisher) *Service {
	identity := &fakeIdentity{users: map[string]string{
		"bob@example.com":   "user-b",
		"carol@example.com": "user-c",
		"alice@example.com": "user-a",
	}}
	return NewService(repo, identity, pub, nil, logger.NewNop())
}

func TestCreateHouseholdSuccess(t *testing.T) {
	repo := newFakeHouseholdRepo()
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)

	result, err := svc.Create(context.Background(), "user-a", "  Smiths  ", []string{"bob@example.com"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Household.Name != "Smiths" {
		t.Fatalf("expected trimmed name, got %q", result.Household.Name)
	}
	if result.Household.CreatedBy != "user-a" {
		t.Fatalf("expected creator user-a, got %q", result.Household.CreatedBy)
	}
	if len(result.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(result.Members))
	}
	if result.Members[0].UserID != "user-a" || result.Members[0].Role != RoleAdmin {
		t.Fatalf("expected creator admin first, got %+v", result.Members[0])
	}
	if len(result.Unresolved) != 0 {
		t.Fatalf("expected no unresolved, got %v", result.Unresolved)
	}
	if len(pub.events) != 1 || pub.events[0].TargetUserID != "user-b" || pub.events[0].Kind != notify.KindHouseholdAdded {
		t.Fatalf("expected household_added to user-b, got %+v", pub.events)
	}
}

func TestCreateHouseholdPartialResolution(t *testing.T) {
	repo := newFakeHouseholdRepo()
	svc := newTestService(repo, &fakePublisher{})

	result, err := svc.Create(context.Background(), "user-a", "Smiths", []string{"bob@example.com", "nope@x"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Members) != 2 {
		t.Fatalf("expected creator plus bob, got %d members", len(result.Members))
	}
	if len(result.Unresolved) != 1 || result.Unresolved[0] != "nope@x" {
		t.Fatalf("expected unresolved [nope@x], got %v", result.Unresolved)
	}
}

func TestCreateHouseholdSkipsCreatorAndDuplicates(t *testing.T) {
	repo := newFakeHouseholdRepo()
	svc := newTestService(repo, &fakePublisher{})

	result, err := svc.Create(context.Background(), "user-a", "Smiths",
		[]string{"alice@example.com", "bob@example.com", "bob@example.com"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Members) != 2 {
		t.Fatalf("expected creator plus one bob, got %d members", len(result.Members))
	}
}

func TestCreateHouseholdNameRequired(t *testing.T) {
	svc := newTestService(newFakeHouseholdRepo(), &fakePublisher{})
	if _, err := svc.Create(context.Background(), "user-a", "   ", nil); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestCreateHouseholdMemberFailureRollsBack(t *testing.T) {
	repo := newFakeHouseholdRepo()
	repo.failAddMember = true
	pub := &fakePublisher{}

	svc := newTestService(repo, pub)
	if _, err := svc.Create(context.Background(), "user-a", "Smiths", nil); err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.households) != 0 {
		t.Fatalf("expected no household left visible, got %d", len(repo.households))
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no notifications, got %d", len(pub.events))
	}
}

func TestCreateHouseholdVisibleToCreator(t *testing.T) {
	repo := newFakeHouseholdRepo()
	svc := newTestService(repo, &fakePublisher{})

	result, err := svc.Create(context.Background(), "user-a", "Smiths", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	summaries, err := svc.ListForUser(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(summaries) != 1 || summaries[0].Household.ID != result.Household.ID {
		t.Fatalf("expected created household listed, got %+v", summaries)
	}
	if len(summaries[0].Members) != 1 || summaries[0].Members[0].Role != RoleAdmin {
		t.Fatalf("expected creator admin in member list, got %+v", summaries[0].Members)
	}
}

func TestListForUserEmpty(t *testing.T) {
	svc := newTestService(newFakeHouseholdRepo(), &fakePublisher{})
	summaries, err := svc.ListForUser(context.Background(), "user-z")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected no households, got %d", len(summaries))
	}
}
