package riskassessment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/carebridge/riskengine/internal/platform/cache"
)

func newCachedTestRepo(t *testing.T) (Repository, *mockRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	inner := newMockRepo()
	return NewCachedRepo(inner, cache.New(client, "risk:", time.Hour), zerolog.Nop()), inner, mr
}

func assessmentAt(userID string, ts time.Time) *AdvancedRiskAssessment {
	return &AdvancedRiskAssessment{
		UserID:       userID,
		AssessmentID: uuid.Must(uuid.NewV7()),
		Timestamp:    ts,
		Composite:    &CompositeRisk{RiskLevel: CompositeLow, EscalationTier: TierNone},
	}
}

func TestCachedRepo_LatestReadsThrough(t *testing.T) {
	repo, inner, mr := newCachedTestRepo(t)
	ctx := context.Background()
	a := assessmentAt("u1", fixedTime)
	if err := inner.Store(ctx, a); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Latest(ctx, "u1")
	if err != nil || got.AssessmentID != a.AssessmentID {
		t.Fatalf("expected %s, got %v (%v)", a.AssessmentID, got, err)
	}
	if !mr.Exists("risk:latest:u1") {
		t.Fatal("expected the latest entry to be cached")
	}

	// Served from cache once populated.
	delete(inner.items, a.AssessmentID)
	got, err = repo.Latest(ctx, "u1")
	if err != nil || got.AssessmentID != a.AssessmentID {
		t.Errorf("expected cached assessment, got %v (%v)", got, err)
	}
}

func TestCachedRepo_StoreKeepsNewestEntry(t *testing.T) {
	repo, _, _ := newCachedTestRepo(t)
	ctx := context.Background()
	newest := assessmentAt("u1", fixedTime.Add(time.Minute))
	older := assessmentAt("u1", fixedTime)

	if err := repo.Store(ctx, newest); err != nil {
		t.Fatal(err)
	}
	if err := repo.Store(ctx, older); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Latest(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.AssessmentID != newest.AssessmentID {
		t.Error("an older assessment replaced the cached latest entry")
	}
}

// gatedRepo parks Latest after it has read the store until release is
// closed.
type gatedRepo struct {
	*mockRepo
	read    chan struct{}
	release chan struct{}
}

func (g *gatedRepo) Latest(ctx context.Context, userID string) (*AdvancedRiskAssessment, error) {
	a, err := g.mockRepo.Latest(ctx, userID)
	close(g.read)
	<-g.release
	return a, err
}

func TestCachedRepo_SlowReadDoesNotOverwriteNewerStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	inner := &gatedRepo{mockRepo: newMockRepo(), read: make(chan struct{}), release: make(chan struct{})}
	repo := NewCachedRepo(inner, cache.New(client, "risk:", time.Hour), zerolog.Nop())
	ctx := context.Background()

	midnight := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	stale := assessmentAt("u1", midnight)
	fresh := assessmentAt("u1", midnight.Add(time.Hour))
	if err := inner.mockRepo.Store(ctx, stale); err != nil {
		t.Fatal(err)
	}

	type result struct {
		a   *AdvancedRiskAssessment
		err error
	}
	done := make(chan result, 1)
	go func() {
		a, err := repo.Latest(ctx, "u1")
		done <- result{a, err}
	}()

	<-inner.read
	if err := repo.Store(ctx, fresh); err != nil {
		t.Fatal(err)
	}
	close(inner.release)

	res := <-done
	if res.err != nil {
		t.Fatal(res.err)
	}
	if res.a.AssessmentID != fresh.AssessmentID {
		t.Errorf("expected the read to return the fresher cached assessment, got %s", res.a.Timestamp)
	}

	var cached AdvancedRiskAssessment
	if _, err := cache.New(client, "risk:", time.Hour).Get(ctx, latestKey("u1"), &cached); err != nil {
		t.Fatal(err)
	}
	if cached.AssessmentID != fresh.AssessmentID {
		t.Errorf("cached entry regressed to %s", cached.Timestamp)
	}
}

func TestRank_SortsLikeNewer(t *testing.T) {
	base := assessmentAt("u", fixedTime)
	later := assessmentAt("u", fixedTime.Add(time.Nanosecond))
	tie := assessmentAt("u", fixedTime)
	if !(rank(later) > rank(base)) {
		t.Error("a later timestamp must rank higher")
	}
	if (rank(tie) > rank(base)) != newer(tie, base) {
		t.Error("equal timestamps must rank by id like newer")
	}
}

func TestCachedRepo_CacheOutageIsNotFatal(t *testing.T) {
	repo, _, mr := newCachedTestRepo(t)
	ctx := context.Background()
	mr.Close()

	a := assessmentAt("u1", fixedTime)
	if err := repo.Store(ctx, a); err != nil {
		t.Fatalf("store must succeed without the cache: %v", err)
	}
	got, err := repo.Latest(ctx, "u1")
	if err != nil || got.AssessmentID != a.AssessmentID {
		t.Errorf("expected fallback to the store, got %v (%v)", got, err)
	}
}

func TestCachedRepo_NotFoundIsNotCached(t *testing.T) {
	repo, _, mr := newCachedTestRepo(t)
	if _, err := repo.Latest(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if mr.Exists("risk:latest:nobody") {
		t.Error("a miss must not be cached")
	}
}

func TestNewer_TieBreaksOnID(t *testing.T) {
	a := assessmentAt("u", fixedTime)
	b := assessmentAt("u", fixedTime)
	if newer(a, b) == newer(b, a) {
		t.Error("equal timestamps must still order deterministically")
	}
	if !newer(b, a) {
		t.Error("the later UUIDv7 should win the tie")
	}
}
