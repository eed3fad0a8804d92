package property

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/inmohub/realty-api/internal/audit"
	"github.com/inmohub/realty-api/internal/domain/identity"
	domain "github.com/inmohub/realty-api/internal/domain/property"
	"github.com/inmohub/realty-api/internal/httperr"
	"github.com/inmohub/realty-api/internal/models"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubPropertyRepo struct {
	bySlug     map[string]*models.Property
	agents     map[uint]*models.User
	categories map[uint]*models.Category

	nextID       uint
	createErr    error
	statsCalls   int
	stats        *domain.Stats
	lastTagSlugs []string
}

func newStubPropertyRepo() *stubPropertyRepo {
	return &stubPropertyRepo{
		bySlug:     make(map[string]*models.Property),
		agents:     make(map[uint]*models.User),
		categories: make(map[uint]*models.Category),
		nextID:     100,
	}
}

// GetBySlug enforces the same visibility rule the real SQL scope does.
func (r *stubPropertyRepo) GetBySlug(_ context.Context, caller identity.Caller, slug string) (*models.Property, error) {
	p, ok := r.bySlug[slug]
	if !ok || !domain.VisibleTo(caller, p) {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPropertyRepo) Create(_ context.Context, p *models.Property) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	p.ID = r.nextID
	clone := *p
	r.bySlug[p.Slug] = &clone
	return nil
}

func (r *stubPropertyRepo) Update(_ context.Context, p *models.Property) error {
	clone := *p
	r.bySlug[p.Slug] = &clone
	return nil
}

func (r *stubPropertyRepo) Delete(_ context.Context, p *models.Property) error {
	delete(r.bySlug, p.Slug)
	return nil
}

func (r *stubPropertyRepo) ReplaceTags(_ context.Context, _ *models.Property, tagSlugs []string) error {
	r.lastTagSlugs = tagSlugs
	return nil
}

func (r *stubPropertyRepo) IncrementViews(_ context.Context, id uint) (int, error) {
	for _, p := range r.bySlug {
		if p.ID == id {
			p.ViewsCount++
			return p.ViewsCount, nil
		}
	}
	return 0, gorm.ErrRecordNotFound
}

func (r *stubPropertyRepo) SlugTaken(_ context.Context, slug string, excludeID uint) (bool, error) {
	p, ok := r.bySlug[slug]
	if !ok {
		return false, nil
	}
	return p.ID != excludeID, nil
}

func (r *stubPropertyRepo) GetAgent(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.agents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubPropertyRepo) GetCategoryByID(_ context.Context, id uint) (*models.Category, error) {
	cat, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cat, nil
}

func (r *stubPropertyRepo) Stats(_ context.Context) (*domain.Stats, error) {
	r.statsCalls++
	if r.stats != nil {
		return r.stats, nil
	}
	return &domain.Stats{}, nil
}

var _ domain.Repository = (*stubPropertyRepo)(nil)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type nopSink struct{}

func (nopSink) Log(*uint, string, string, *uint, any) error { return nil }

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(nopSink{}, zerolog.Nop())
}

var (
	agentAna  = identity.Caller{ID: 2, Username: "ana", Role: identity.RoleAgent}
	agentLuis = identity.Caller{ID: 3, Username: "luis", Role: identity.RoleAgent}
	adminRoot = identity.Caller{ID: 1, Username: "root", Role: identity.RoleAdmin}
	clientSof = identity.Caller{ID: 4, Username: "sofia", Role: identity.RoleClient}
)

func validCreateInput() CreatePropertyInput {
	return CreatePropertyInput{
		Title:       "Casa Azul",
		Description: "Casa de dos pisos en el centro.",
		Price:       decimal.NewFromInt(2500000),
		Operation:   "sale",
		Address:     "Av. Juárez 12",
		City:        "Puebla",
		State:       "Puebla",
		Area:        180,
		IsAvailable: true,
	}
}

func seedListing(r *stubPropertyRepo, slug string, agentID uint, status string, available bool) *models.Property {
	p := &models.Property{
		ID:          uint(1000 + len(r.bySlug)),
		Title:       slug,
		Slug:        slug,
		Price:       decimal.NewFromInt(1000000),
		Operation:   "sale",
		AgentID:     agentID,
		Status:      status,
		IsAvailable: available,
	}
	r.bySlug[slug] = p
	return p
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreateProperty_OwnershipAndDefaults(t *testing.T) {
	repo := newStubPropertyRepo()
	uc := NewCreateProperty(repo, testDispatcher())

	p, err := uc.Execute(context.Background(), agentAna, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.AgentID != agentAna.ID {
		t.Fatalf("ownership must be the caller, got agent %d", p.AgentID)
	}
	if p.Slug != "casa-azul" {
		t.Fatalf("slug should derive from title, got %q", p.Slug)
	}
	if p.Status != "draft" {
		t.Fatalf("default status should be draft, got %q", p.Status)
	}
	if p.PublishedAt != nil {
		t.Fatal("draft must not carry published_at")
	}
	if p.Country != "México" {
		t.Fatalf("country should default, got %q", p.Country)
	}
	if p.PropertyType != "house" {
		t.Fatalf("property type should default to house, got %q", p.PropertyType)
	}
}

func TestCreateProperty_ClientForbidden(t *testing.T) {
	uc := NewCreateProperty(newStubPropertyRepo(), testDispatcher())

	_, err := uc.Execute(context.Background(), clientSof, validCreateInput())
	if !httperr.IsBusiness(err, "forbidden") {
		t.Fatalf("client should be forbidden, got %v", err)
	}
}

func TestCreateProperty_PublishStampsPublishedAt(t *testing.T) {
	uc := NewCreateProperty(newStubPropertyRepo(), testDispatcher())

	in := validCreateInput()
	in.Status = "published"

	p, err := uc.Execute(context.Background(), agentAna, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PublishedAt == nil {
		t.Fatal("publishing on create should stamp published_at")
	}
}

func TestCreateProperty_SlugCollisionGetsSuffix(t *testing.T) {
	repo := newStubPropertyRepo()
	seedListing(repo, "casa-azul", agentLuis.ID, "published", true)

	uc := NewCreateProperty(repo, testDispatcher())

	p, err := uc.Execute(context.Background(), agentAna, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Slug != "casa-azul-1" {
		t.Fatalf("expected suffixed slug casa-azul-1, got %q", p.Slug)
	}
}

func TestCreateProperty_SlugRaceMapsToConflict(t *testing.T) {
	repo := newStubPropertyRepo()
	repo.createErr = gorm.ErrDuplicatedKey

	uc := NewCreateProperty(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), agentAna, validCreateInput())
	if !httperr.IsBusiness(err, "slug_conflict") {
		t.Fatalf("duplicate key should surface as slug_conflict, got %v", err)
	}
}

func TestCreateProperty_Validation(t *testing.T) {
	uc := NewCreateProperty(newStubPropertyRepo(), testDispatcher())
	ctx := context.Background()

	in := validCreateInput()
	in.Operation = "lease"
	if _, err := uc.Execute(ctx, agentAna, in); !httperr.IsBusiness(err, "invalid_operation") {
		t.Fatalf("unknown operation should reject, got %v", err)
	}

	in = validCreateInput()
	in.Price = decimal.Zero
	if _, err := uc.Execute(ctx, agentAna, in); !httperr.IsBusiness(err, "invalid_price") {
		t.Fatalf("zero price should reject, got %v", err)
	}

	in = validCreateInput()
	missing := uint(77)
	in.CategoryID = &missing
	if _, err := uc.Execute(ctx, agentAna, in); !httperr.IsBusiness(err, "category_not_found") {
		t.Fatalf("unknown category should reject, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Retrieve
// ---------------------------------------------------------------------------

func TestRetrieveProperty_CountsVisitorViews(t *testing.T) {
	repo := newStubPropertyRepo()
	seedListing(repo, "casa-azul", agentAna.ID, "published", true)

	uc := NewRetrieveProperty(repo)

	p, err := uc.Execute(context.Background(), identity.Caller{}, "casa-azul")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ViewsCount != 1 {
		t.Fatalf("visitor read should count, got %d", p.ViewsCount)
	}

	p, err = uc.Execute(context.Background(), clientSof, "casa-azul")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ViewsCount != 2 {
		t.Fatalf("response should carry the post-increment value, got %d", p.ViewsCount)
	}
}

func TestRetrieveProperty_OwnerReadDoesNotCount(t *testing.T) {
	repo := newStubPropertyRepo()
	seedListing(repo, "casa-azul", agentAna.ID, "published", true)

	uc := NewRetrieveProperty(repo)

	p, err := uc.Execute(context.Background(), agentAna, "casa-azul")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ViewsCount != 0 {
		t.Fatalf("owner read must not move the counter, got %d", p.ViewsCount)
	}
}

func TestRetrieveProperty_InvisibleIsNotFound(t *testing.T) {
	repo := newStubPropertyRepo()
	seedListing(repo, "casa-azul", agentAna.ID, "draft", true)

	uc := NewRetrieveProperty(repo)

	_, err := uc.Execute(context.Background(), clientSof, "casa-azul")
	if !httperr.IsBusiness(err, "not_found") {
		t.Fatalf("draft should be not found for a client, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUpdateProperty_InvisibleIsNotFound(t *testing.T) {
	repo := newStubPropertyRepo()
	seedListing(repo, "casa-azul", agentAna.ID, "draft", true)

	uc := NewUpdateProperty(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), agentLuis, "casa-azul", UpdatePropertyInput{})
	if !httperr.IsBusiness(err, "not_found") {
		t.Fatalf("hidden listing should fail as not_found, got %v", err)
	}
}

func TestUpdateProperty_VisibleButNotOwnedIsForbidden(t *testing.T) {
	repo := newStubPropertyRepo()
	seedListing(repo, "casa-azul", agentAna.ID, "published", true)

	uc := NewUpdateProperty(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), agentLuis, "casa-azul", UpdatePropertyInput{})
	if !httperr.IsBusiness(err, "forbidden") {
		t.Fatalf("visible listing of another agent should be forbidden, got %v", err)
	}
}

func TestUpdateProperty_TitleEditKeepsSlug(t *testing.T) {
	repo := newStubPropertyRepo()
	seedListing(repo, "casa-azul", agentAna.ID, "published", true)

	uc := NewUpdateProperty(repo, testDispatcher())

	title := "Casa Azul Remodelada"
	p, err := uc.Execute(context.Background(), agentAna, "casa-azul", UpdatePropertyInput{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Slug != "casa-azul" {
		t.Fatalf("renames must keep the slug, got %q", p.Slug)
	}
	if p.Title != title {
		t.Fatalf("title should change, got %q", p.Title)
	}
}

func TestUpdateProperty_FirstPublishStampsOnce(t *testing.T) {
	repo := newStubPropertyRepo()
	seedListing(repo, "casa-azul", agentAna.ID, "draft", true)

	uc := NewUpdateProperty(repo, testDispatcher())
	ctx := context.Background()

	published := "published"
	p, err := uc.Execute(ctx, agentAna, "casa-azul", UpdatePropertyInput{Status: &published})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PublishedAt == nil {
		t.Fatal("first publish should stamp published_at")
	}
	stamp := *p.PublishedAt

	draft := "draft"
	if _, err := uc.Execute(ctx, agentAna, "casa-azul", UpdatePropertyInput{Status: &draft}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err = uc.Execute(ctx, agentAna, "casa-azul", UpdatePropertyInput{Status: &published})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.PublishedAt.Equal(stamp) {
		t.Fatalf("republish must keep the original stamp, got %v", p.PublishedAt)
	}
}

func TestUpdateProperty_ReassignAgent(t *testing.T) {
	repo := newStubPropertyRepo()
	seedListing(repo, "casa-azul", agentAna.ID, "published", true)
	repo.agents[agentLuis.ID] = &models.User{ID: agentLuis.ID, Role: "agent"}
	repo.agents[clientSof.ID] = &models.User{ID: clientSof.ID, Role: "client"}

	uc := NewUpdateProperty(repo, testDispatcher())
	ctx := context.Background()

	target := agentLuis.ID
	if _, err := uc.Execute(ctx, agentAna, "casa-azul", UpdatePropertyInput{AgentID: &target}); !httperr.IsBusiness(err, "forbidden") {
		t.Fatalf("only admins may reassign, got %v", err)
	}

	badTarget := clientSof.ID
	if _, err := uc.Execute(ctx, adminRoot, "casa-azul", UpdatePropertyInput{AgentID: &badTarget}); !httperr.IsBusiness(err, "invalid_agent") {
		t.Fatalf("reassignment to a client should reject, got %v", err)
	}

	p, err := uc.Execute(ctx, adminRoot, "casa-azul", UpdatePropertyInput{AgentID: &target})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.AgentID != agentLuis.ID {
		t.Fatalf("admin reassignment should apply, got agent %d", p.AgentID)
	}
}

// ---------------------------------------------------------------------------
// Delete / Stats
// ---------------------------------------------------------------------------

func TestDeleteProperty_OwnerDeletes(t *testing.T) {
	repo := newStubPropertyRepo()
	seedListing(repo, "casa-azul", agentAna.ID, "published", true)

	uc := NewDeleteProperty(repo, testDispatcher())

	if err := uc.Execute(context.Background(), agentAna, "casa-azul"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.bySlug["casa-azul"]; ok {
		t.Fatal("listing should be gone")
	}
}

func TestGetStats_NoCacheFallsThrough(t *testing.T) {
	repo := newStubPropertyRepo()
	repo.stats = &domain.Stats{Total: 3, ForSale: 2, ForRent: 1}

	uc := NewGetStats(repo, nil, 0)

	stats, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 3 || repo.statsCalls != 1 {
		t.Fatalf("stats should come from the repository, got %+v calls %d", stats, repo.statsCalls)
	}
}
