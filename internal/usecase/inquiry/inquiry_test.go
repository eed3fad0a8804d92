package inquiry

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/inmohub/realty-api/internal/audit"
	"github.com/inmohub/realty-api/internal/domain/identity"
	domain "github.com/inmohub/realty-api/internal/domain/inquiry"
	"github.com/inmohub/realty-api/internal/httperr"
	"github.com/inmohub/realty-api/internal/models"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubInquiryRepo struct {
	byID   map[uint]*models.Inquiry
	nextID uint
}

func newStubInquiryRepo() *stubInquiryRepo {
	return &stubInquiryRepo{byID: make(map[uint]*models.Inquiry)}
}

func (r *stubInquiryRepo) Create(_ context.Context, inq *models.Inquiry) error {
	r.nextID++
	inq.ID = r.nextID
	clone := *inq
	r.byID[inq.ID] = &clone
	return nil
}

// GetForCaller mirrors the real repository's scoping: admins reach
// everything, agents the inquiries on their listings, clients their own.
func (r *stubInquiryRepo) GetForCaller(_ context.Context, caller identity.Caller, id uint) (*models.Inquiry, error) {
	inq, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	switch {
	case caller.IsAdmin():
	case caller.IsAgent():
		if inq.Property == nil || inq.Property.AgentID != caller.ID {
			return nil, gorm.ErrRecordNotFound
		}
	default:
		if inq.ClientID == nil || *inq.ClientID != caller.ID {
			return nil, gorm.ErrRecordNotFound
		}
	}

	clone := *inq
	return &clone, nil
}

func (r *stubInquiryRepo) Update(_ context.Context, inq *models.Inquiry) error {
	clone := *inq
	r.byID[inq.ID] = &clone
	return nil
}

func (r *stubInquiryRepo) ListForCaller(_ context.Context, _ identity.Caller, _, _ int) ([]models.Inquiry, int64, error) {
	return nil, 0, nil
}

func (r *stubInquiryRepo) StatsForCaller(_ context.Context, _ identity.Caller) (*domain.Stats, error) {
	return &domain.Stats{}, nil
}

var _ domain.Repository = (*stubInquiryRepo)(nil)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type nopSink struct{}

func (nopSink) Log(*uint, string, string, *uint, any) error { return nil }

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(nopSink{}, zerolog.Nop())
}

var (
	adminRoot = identity.Caller{ID: 1, Username: "root", Role: identity.RoleAdmin}
	agentAna  = identity.Caller{ID: 2, Username: "ana", Role: identity.RoleAgent}
	clientSof = identity.Caller{ID: 4, Username: "sofia", Role: identity.RoleClient}
)

func casaAzul() *models.Property {
	return &models.Property{ID: 10, Slug: "casa-azul", AgentID: agentAna.ID, Status: "published", IsAvailable: true}
}

func seedInquiry(r *stubInquiryRepo, clientID *uint) *models.Inquiry {
	inq := &models.Inquiry{
		Reference:  "ref-1",
		PropertyID: 10,
		Property:   casaAzul(),
		ClientID:   clientID,
		Message:    "¿Sigue disponible?",
		Status:     string(domain.StatusNew),
	}
	_ = r.Create(context.Background(), inq)
	return inq
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestSubmitInquiry_AnonymousNeedsContact(t *testing.T) {
	uc := NewSubmitInquiry(newStubInquiryRepo(), testDispatcher())

	_, err := uc.Execute(context.Background(), identity.Caller{}, casaAzul(), SubmitInquiryInput{
		Message: "Me interesa",
	})
	if !httperr.IsBusiness(err, "contact_required") {
		t.Fatalf("anonymous without contact should reject, got %v", err)
	}
}

func TestSubmitInquiry_MessageRequired(t *testing.T) {
	uc := NewSubmitInquiry(newStubInquiryRepo(), testDispatcher())

	_, err := uc.Execute(context.Background(), clientSof, casaAzul(), SubmitInquiryInput{})
	if !httperr.IsBusiness(err, "message_required") {
		t.Fatalf("empty message should reject, got %v", err)
	}
}

func TestSubmitInquiry_AnonymousWithContact(t *testing.T) {
	uc := NewSubmitInquiry(newStubInquiryRepo(), testDispatcher())

	inq, err := uc.Execute(context.Background(), identity.Caller{}, casaAzul(), SubmitInquiryInput{
		Name:    "Carlos",
		Email:   "carlos@example.com",
		Message: "Me interesa",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inq.Reference == "" {
		t.Fatal("inquiry should carry a reference")
	}
	if inq.ClientID != nil {
		t.Fatal("anonymous inquiry must not link a client")
	}
	if inq.Status != string(domain.StatusNew) {
		t.Fatalf("new inquiry should start as new, got %q", inq.Status)
	}
}

func TestSubmitInquiry_AuthenticatedLinksClient(t *testing.T) {
	uc := NewSubmitInquiry(newStubInquiryRepo(), testDispatcher())

	inq, err := uc.Execute(context.Background(), clientSof, casaAzul(), SubmitInquiryInput{
		Message: "Quiero agendar una visita",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inq.ClientID == nil || *inq.ClientID != clientSof.ID {
		t.Fatalf("authenticated inquiry should link the caller, got %v", inq.ClientID)
	}
}

// ---------------------------------------------------------------------------
// Triage
// ---------------------------------------------------------------------------

func TestMarkContacted_OwningAgent(t *testing.T) {
	repo := newStubInquiryRepo()
	seeded := seedInquiry(repo, nil)

	uc := NewMarkContacted(repo, testDispatcher())

	inq, err := uc.Execute(context.Background(), agentAna, seeded.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inq.IsContacted || inq.ContactedAt == nil {
		t.Fatal("contact stamp should be set")
	}
	if inq.Status != string(domain.StatusContacted) {
		t.Fatalf("status should be contacted, got %q", inq.Status)
	}
}

func TestMarkContacted_ClientOnOwnInquiryForbidden(t *testing.T) {
	repo := newStubInquiryRepo()
	cid := clientSof.ID
	seeded := seedInquiry(repo, &cid)

	uc := NewMarkContacted(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), clientSof, seeded.ID)
	if !httperr.IsBusiness(err, "forbidden") {
		t.Fatalf("a client can see but never triage their inquiry, got %v", err)
	}
}

func TestMarkContacted_UnknownIsNotFound(t *testing.T) {
	uc := NewMarkContacted(newStubInquiryRepo(), testDispatcher())

	_, err := uc.Execute(context.Background(), adminRoot, 999)
	if !httperr.IsBusiness(err, "not_found") {
		t.Fatalf("unknown inquiry should be not_found, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Notes / status updates
// ---------------------------------------------------------------------------

func TestAddNote_Appends(t *testing.T) {
	repo := newStubInquiryRepo()
	seeded := seedInquiry(repo, nil)

	uc := NewAddNote(repo, testDispatcher())
	ctx := context.Background()

	if _, err := uc.Execute(ctx, adminRoot, seeded.ID, "llamé, sin respuesta"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inq, err := uc.Execute(ctx, adminRoot, seeded.ID, "agendamos visita")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inq.Notes != "llamé, sin respuesta\nagendamos visita" {
		t.Fatalf("notes should accumulate, got %q", inq.Notes)
	}
}

func TestAddNote_EmptyRejected(t *testing.T) {
	repo := newStubInquiryRepo()
	seeded := seedInquiry(repo, nil)

	uc := NewAddNote(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), adminRoot, seeded.ID, "")
	if !httperr.IsBusiness(err, "note_required") {
		t.Fatalf("empty note should reject, got %v", err)
	}
}

func TestUpdateInquiry_StatusContactedStamps(t *testing.T) {
	repo := newStubInquiryRepo()
	seeded := seedInquiry(repo, nil)

	uc := NewUpdateInquiry(repo, testDispatcher())

	contacted := "contacted"
	inq, err := uc.Execute(context.Background(), agentAna, seeded.ID, UpdateInquiryInput{Status: &contacted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inq.IsContacted || inq.ContactedAt == nil {
		t.Fatal("moving into contacted should stamp the contact")
	}
}
