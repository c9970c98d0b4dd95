package notes

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"notebook/cmd/apperr"
	"notebook/cmd/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// steppingClock advances one millisecond per call so creation order is deterministic.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Millisecond)
		return t
	}
}

func newTestService(t *testing.T) (*Service, *recordingPublisher) {
	t.Helper()

	pub := &recordingPublisher{}
	svc, err := NewService(NewMemoryStore(),
		WithPublisher(pub),
		WithClock(steppingClock()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return svc, pub
}

var (
	alice = identity.NewCaller("01HAAAAAAAAAAAAAAAAAAAAAAA", time.Now())
	bob   = identity.NewCaller("01HBBBBBBBBBBBBBBBBBBBBBBB", time.Now())
)

func strp(s string) *string { return &s }

func requireReason(t *testing.T, err error, want apperr.AuthReason) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperr.IsUnauthorized(err), "got %v", err)
	got, ok := apperr.ReasonOf(err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestNewService_NilStore(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil)
	require.Error(t, err)
}

func TestCreateThenList_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	n, err := svc.CreateNote(ctx, alice, CreateInput{Title: "T", Description: "D"})
	require.NoError(t, err)
	assert.Len(t, n.ID, 26)
	assert.Equal(t, alice.AccountID(), n.OwnerID)
	assert.Equal(t, "", n.Tag)

	list, err := svc.ListNotes(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "T", list[0].Title)
	assert.Equal(t, "D", list[0].Description)
	assert.Equal(t, "", list[0].Tag)
}

func TestListNotes_EmptyIsNonNil(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	list, err := svc.ListNotes(context.Background(), alice)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListNotes_IsolatedPerOwnerAndOrdered(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, title := range []string{"a1", "a2", "a3"} {
		_, err := svc.CreateNote(ctx, alice, CreateInput{Title: title, Description: "x"})
		require.NoError(t, err)
	}
	_, err := svc.CreateNote(ctx, bob, CreateInput{Title: "b1", Description: "y"})
	require.NoError(t, err)

	list, err := svc.ListNotes(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, want := range []string{"a1", "a2", "a3"} {
		assert.Equal(t, want, list[i].Title)
		assert.Equal(t, alice.AccountID(), list[i].OwnerID)
	}

	list, err = svc.ListNotes(ctx, bob)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b1", list[0].Title)
}

func TestCreateNote_Validation(t *testing.T) {
	t.Parallel()
	svc, pub := newTestService(t)

	_, err := svc.CreateNote(context.Background(), alice, CreateInput{Title: "  ", Tag: "x"})
	require.Error(t, err)
	require.True(t, apperr.IsInvalidInput(err))

	var fields []string
	for _, f := range apperr.FieldsOf(err) {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"title", "description"}, fields)
	assert.Empty(t, pub.types())
}

func TestZeroCaller_RejectedEverywhere(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	var nobody identity.Caller

	_, err := svc.ListNotes(ctx, nobody)
	requireReason(t, err, apperr.ReasonInvalidToken)

	_, err = svc.CreateNote(ctx, nobody, CreateInput{Title: "T", Description: "D"})
	requireReason(t, err, apperr.ReasonInvalidToken)

	_, err = svc.GetNote(ctx, nobody, "x")
	requireReason(t, err, apperr.ReasonInvalidToken)

	_, err = svc.UpdateNote(ctx, nobody, "x", Patch{Title: strp("x")})
	requireReason(t, err, apperr.ReasonInvalidToken)

	_, err = svc.DeleteNote(ctx, nobody, "x")
	requireReason(t, err, apperr.ReasonInvalidToken)
}

func TestUpdateNote_AppliesOnlyNonEmptyFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	n, err := svc.CreateNote(ctx, alice, CreateInput{Title: "T", Description: "D", Tag: "work"})
	require.NoError(t, err)

	got, err := svc.UpdateNote(ctx, alice, n.ID, Patch{Description: strp("D2"), Tag: strp("")})
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "D2", got.Description)
	assert.Equal(t, "work", got.Tag)
	assert.True(t, got.UpdatedAt.After(n.UpdatedAt))
	assert.Equal(t, n.CreatedAt, got.CreatedAt)
	assert.Equal(t, n.OwnerID, got.OwnerID)
}

func TestUpdateNote_EmptyPatchReturnsUnchanged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, pub := newTestService(t)

	n, err := svc.CreateNote(ctx, alice, CreateInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	got, err := svc.UpdateNote(ctx, alice, n.ID, Patch{})
	require.NoError(t, err)
	assert.Equal(t, n, got)
	assert.Equal(t, []EventType{EventCreated}, pub.types())

	// An empty patch still enforces existence and ownership.
	_, err = svc.UpdateNote(ctx, bob, n.ID, Patch{})
	requireReason(t, err, apperr.ReasonAccessDenied)
}

func TestOwnershipGuard_NotFoundBeforeAccessDenied(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	n, err := svc.CreateNote(ctx, alice, CreateInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	const missing = "01HMMMMMMMMMMMMMMMMMMMMMMM"

	for _, c := range []identity.Caller{alice, bob} {
		_, err = svc.UpdateNote(ctx, c, missing, Patch{Title: strp("x")})
		assert.True(t, apperr.IsNotFound(err), "update missing: %v", err)

		_, err = svc.DeleteNote(ctx, c, missing)
		assert.True(t, apperr.IsNotFound(err), "delete missing: %v", err)

		_, err = svc.GetNote(ctx, c, missing)
		assert.True(t, apperr.IsNotFound(err), "get missing: %v", err)
	}

	_, err = svc.GetNote(ctx, bob, n.ID)
	requireReason(t, err, apperr.ReasonAccessDenied)
}

func TestUpdateNote_OversizedPatchReportsOwnershipFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, pub := newTestService(t)

	n, err := svc.CreateNote(ctx, alice, CreateInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	long := strings.Repeat("x", 201)

	_, err = svc.UpdateNote(ctx, bob, n.ID, Patch{Title: &long})
	requireReason(t, err, apperr.ReasonAccessDenied)
	assert.False(t, apperr.IsInvalidInput(err), "got %v", err)

	_, err = svc.UpdateNote(ctx, bob, "01HMMMMMMMMMMMMMMMMMMMMMMM", Patch{Title: &long})
	assert.True(t, apperr.IsNotFound(err), "got %v", err)

	_, err = svc.UpdateNote(ctx, alice, n.ID, Patch{Title: &long})
	assert.True(t, apperr.IsInvalidInput(err), "got %v", err)

	got, err := svc.GetNote(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got)
	assert.Equal(t, []EventType{EventCreated}, pub.types())
}

func TestUpdateNote_TrimsLikeCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, pub := newTestService(t)

	n, err := svc.CreateNote(ctx, alice, CreateInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	got, err := svc.UpdateNote(ctx, alice, n.ID, Patch{Title: strp("   "), Description: strp("  D2 ")})
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "D2", got.Description)

	same, err := svc.UpdateNote(ctx, alice, n.ID, Patch{Title: strp(" \t ")})
	require.NoError(t, err)
	assert.Equal(t, got, same)
	assert.Equal(t, []EventType{EventCreated, EventUpdated}, pub.types())
}

func TestAliceBobScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, pub := newTestService(t)

	n, err := svc.CreateNote(ctx, alice, CreateInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	_, err = svc.UpdateNote(ctx, bob, n.ID, Patch{Title: strp("hacked")})
	requireReason(t, err, apperr.ReasonAccessDenied)

	_, err = svc.DeleteNote(ctx, bob, n.ID)
	requireReason(t, err, apperr.ReasonAccessDenied)

	got, err := svc.GetNote(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title, "a denied update must not change the note")

	bobs, err := svc.ListNotes(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)

	deleted, err := svc.DeleteNote(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, deleted.ID)

	_, err = svc.GetNote(ctx, alice, n.ID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.DeleteNote(ctx, alice, n.ID)
	assert.True(t, apperr.IsNotFound(err))

	assert.Equal(t, []EventType{EventCreated, EventDeleted}, pub.types())
}

func TestEvents_CarryCommittedNote(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, pub := newTestService(t)

	n, err := svc.CreateNote(ctx, alice, CreateInput{Title: "T", Description: "D"})
	require.NoError(t, err)
	u, err := svc.UpdateNote(ctx, alice, n.ID, Patch{Title: strp("T2")})
	require.NoError(t, err)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.events, 2)
	assert.Equal(t, EventUpdated, pub.events[1].Type)
	assert.Equal(t, u, pub.events[1].Note)
	assert.False(t, pub.events[1].At.IsZero())
}

func TestMemoryStore_OwnerChecker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	accounts := identity.NewMemoryStore()
	acct, err := accounts.CreateAccount(ctx, identity.CreateAccountInput{
		ID: "01HAAAAAAAAAAAAAAAAAAAAAAA", Name: "A", Email: "a@x.io", PasswordHash: "h",
	})
	require.NoError(t, err)

	st := NewMemoryStore(WithOwnerChecker(accounts))

	_, err = st.Insert(ctx, Note{ID: "01HNNNNNNNNNNNNNNNNNNNNNNN", OwnerID: acct.ID, Title: "T", Description: "D"})
	require.NoError(t, err)

	_, err = st.Insert(ctx, Note{ID: "01HPPPPPPPPPPPPPPPPPPPPPPP", OwnerID: "01HGGGGGGGGGGGGGGGGGGGGGGG", Title: "T", Description: "D"})
	assert.True(t, apperr.IsNotFound(err), "got %v", err)

	_, err = st.Insert(ctx, Note{ID: "01HNNNNNNNNNNNNNNNNNNNNNNN", OwnerID: acct.ID})
	assert.True(t, apperr.IsConflict(err), "got %v", err)
}

func TestPatch_EmptyAndApply(t *testing.T) {
	t.Parallel()

	assert.True(t, Patch{}.Empty())
	assert.True(t, Patch{Title: strp(""), Tag: strp("")}.Empty())
	assert.False(t, Patch{Tag: strp("x")}.Empty())

	n := Note{Title: "a", Description: "b", Tag: "c"}
	got := Patch{Title: strp(" A "), Description: strp(""), Tag: strp("  ")}.Apply(n)
	assert.Equal(t, Note{Title: "A", Description: "b", Tag: "c"}, got)

	assert.True(t, Patch{Title: strp("  ")}.Empty())
	norm := Patch{Title: strp(" A "), Tag: strp(" ")}.Normalized()
	require.NotNil(t, norm.Title)
	assert.Equal(t, "A", *norm.Title)
	assert.Nil(t, norm.Tag)
}
