package intake

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
	"github.com/MrSnakeDoc/keeplater/internal/store/memory"
)

var errStoreDown = errors.New("store down")

// countingStore wraps a memory store, counts calls and can fail on demand.
type countingStore struct {
	inner *memory.Store

	mu         sync.Mutex
	finds      int
	inserts    int
	failFind   bool
	failInsert bool
	failList   bool
}

func newCountingStore() *countingStore {
	return &countingStore{inner: memory.NewStore()}
}

func (s *countingStore) FindByURL(ctx context.Context, url string) ([]domain.Entry, error) {
	s.mu.Lock()
	s.finds++
	fail := s.failFind
	s.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return s.inner.FindByURL(ctx, url)
}

func (s *countingStore) Insert(ctx context.Context, url string) (domain.Entry, error) {
	s.mu.Lock()
	s.inserts++
	fail := s.failInsert
	s.mu.Unlock()
	if fail {
		return domain.Entry{}, errStoreDown
	}
	return s.inner.Insert(ctx, url)
}

func (s *countingStore) ListAll(ctx context.Context) ([]domain.Entry, error) {
	if s.failList {
		return nil, errStoreDown
	}
	return s.inner.ListAll(ctx)
}

func (s *countingStore) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

func TestIngestRejectsWithoutURL(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		q    domain.ShareQuery
	}{
		{name: "empty query", q: domain.ShareQuery{}},
		{name: "text without url", q: domain.ShareQuery{Text: ptr("just some text")}},
		{name: "ftp url", q: domain.ShareQuery{URL: ptr("ftp://example.com")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newCountingStore()

			out, err := Ingest(ctx, tt.q, store)
			require.NoError(t, err)
			assert.Equal(t, StatusRejected, out.Status)
			assert.Equal(t, ReasonNoURLFound, out.Reason)
			assert.Zero(t, store.finds, "rejected query must not touch the store")
			assert.Zero(t, store.inserts)
		})
	}
}

func TestIngestSavedThenAlreadySaved(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	q := domain.ShareQuery{URL: ptr("https://a.com")}

	first, err := Ingest(ctx, q, store)
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, first.Status)
	assert.Equal(t, "https://a.com", first.Entry.URL)
	assert.NotEmpty(t, first.Entry.ID)
	assert.False(t, first.Entry.CreatedAt.IsZero())

	second, err := Ingest(ctx, q, store)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadySaved, second.Status)
	if diff := cmp.Diff(first.Entry, second.Entry); diff != "" {
		t.Errorf("AlreadySaved entry mismatch (-saved +existing):\n%s", diff)
	}

	assert.Equal(t, 1, store.insertCount(), "duplicate must not insert")
	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIngestDistinctURLs(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()

	a, err := Ingest(ctx, domain.ShareQuery{URL: ptr("https://a.com")}, store)
	require.NoError(t, err)
	b, err := Ingest(ctx, domain.ShareQuery{URL: ptr("https://b.com")}, store)
	require.NoError(t, err)

	assert.Equal(t, StatusSaved, a.Status)
	assert.Equal(t, StatusSaved, b.Status)
	assert.NotEqual(t, a.Entry.ID, b.Entry.ID)
	assert.Equal(t, 2, store.insertCount())
}

func TestIngestIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()

	_, err := Ingest(ctx, domain.ShareQuery{URL: ptr("https://a.com/Path")}, store)
	require.NoError(t, err)
	out, err := Ingest(ctx, domain.ShareQuery{URL: ptr("https://a.com/path")}, store)
	require.NoError(t, err)

	assert.Equal(t, StatusSaved, out.Status)
}

func TestIngestUsesTextWhenURLInvalid(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()

	out, err := Ingest(ctx, domain.ShareQuery{
		URL:  ptr("not-a-url"),
		Text: ptr("Check this out: https://share.example.com/article"),
	}, store)
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, out.Status)
	assert.Equal(t, "https://share.example.com/article", out.Entry.URL)
}

func TestIngestFindErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	store.failFind = true

	_, err := Ingest(ctx, domain.ShareQuery{URL: ptr("https://a.com")}, store)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Zero(t, store.insertCount(), "no insert after a failed lookup")
}

func TestIngestInsertErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	store.failInsert = true

	_, err := Ingest(ctx, domain.ShareQuery{URL: ptr("https://a.com")}, store)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 1, store.insertCount(), "insert is attempted once, never retried")
}

func TestListEntries(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()

	entries, err := ListEntries(ctx, store)
	require.NoError(t, err)
	assert.NotNil(t, entries, "empty listing must be a non-nil slice")
	assert.Empty(t, entries)

	for _, u := range []string{"https://a.com", "https://b.com", "https://c.com"} {
		_, err := Ingest(ctx, domain.ShareQuery{URL: ptr(u)}, store)
		require.NoError(t, err)
	}

	entries, err = ListEntries(ctx, store)
	require.NoError(t, err)
	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.URL)
	}
	want := []string{"https://a.com", "https://b.com", "https://c.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListEntries() order mismatch (-want +got):\n%s", diff)
	}
}

func TestListEntriesErrorPropagates(t *testing.T) {
	store := newCountingStore()
	store.failList = true

	_, err := ListEntries(context.Background(), store)
	assert.ErrorIs(t, err, errStoreDown)
}
