package dedup

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"reposter/internal/kvstore"
	"reposter/internal/pipeline"
	"reposter/internal/services"
)

func collectInts(t *testing.T, inputs []int) []Group[int] {
	t.Helper()
	collector := CollectDuplicates(func(n int) string { return strconv.Itoa(n) })
	out := pipeline.Run[int, struct{}](context.Background(), collector, inputs, pipeline.Options{})
	if len(out) != 0 {
		t.Fatalf("collector must not emit, got %d items", len(out))
	}
	return collector.Duplicates()
}

func TestCollectDuplicatesNumbers(t *testing.T) {
	got := collectInts(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 2, 4, 6, 8, 10, 4, 8, 8})
	want := []Group[int]{
		{Key: "2", Original: 2, Duplicates: []int{2}},
		{Key: "4", Original: 4, Duplicates: []int{4, 4}},
		{Key: "6", Original: 6, Duplicates: []int{6}},
		{Key: "8", Original: 8, Duplicates: []int{8, 8, 8}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectDuplicatesNone(t *testing.T) {
	if got := collectInts(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}); len(got) != 0 {
		t.Fatalf("expected no groups, got %+v", got)
	}
}

func TestCollectDuplicatesOnlyRepeats(t *testing.T) {
	got := collectInts(t, []int{1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2, 2})
	want := []Group[int]{
		{Key: "1", Original: 1, Duplicates: []int{1, 1, 1, 1, 1, 1}},
		{Key: "2", Original: 2, Duplicates: []int{2, 2, 2, 2, 2, 2, 2}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
}

type item struct {
	ID      string
	Content string
}

var contentItems = []item{
	{ID: "a", Content: "nobody will ever post like this again"},
	{ID: "b", Content: "so true"},
	{ID: "c", Content: "so true"},
	{ID: "d", Content: "yeah"},
	{ID: "e", Content: "first! edit: oh :("},
	{ID: "f", Content: "first!"},
	{ID: "g", Content: "that wasn't first by a long shot"},
	{ID: "h", Content: "yeah"},
	{ID: "i", Content: "YEAH"},
}

var itemIdentity = Identity[item]{
	ID: func(i item) string { return i.ID },
	StorageKey: func(partition string, i item) kvstore.Key {
		return kvstore.Key{partition, "archivedPost", i.ID}
	},
}

func collectContent(t *testing.T) []Group[item] {
	t.Helper()
	collector := CollectDuplicates(func(i item) string { return i.Content })
	pipeline.Run[item, struct{}](context.Background(), collector, contentItems, pipeline.Options{})
	if collector.Seen() != 7 {
		t.Fatalf("expected 7 distinct fingerprints, got %d", collector.Seen())
	}
	return collector.Duplicates()
}

func TestCollectDuplicatesByContent(t *testing.T) {
	want := []Group[item]{
		{Key: "so true", Original: item{ID: "b", Content: "so true"}, Duplicates: []item{{ID: "c", Content: "so true"}}},
		{Key: "yeah", Original: item{ID: "d", Content: "yeah"}, Duplicates: []item{{ID: "h", Content: "yeah"}}},
	}
	if diff := cmp.Diff(want, collectContent(t)); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordDuplicatesWritesOnlyDuplicates(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	groups := []Group[item]{{
		Key:        "x",
		Original:   item{ID: "1"},
		Duplicates: []item{{ID: "2"}, {ID: "3"}},
	}}

	written, err := RecordDuplicates(ctx, store, "acct", "content", groups, itemIdentity)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if written != 2 || store.Len() != 2 {
		t.Fatalf("expected 2 records, wrote %d (store has %d)", written, store.Len())
	}

	want := Record{
		Original:   kvstore.Key{"acct", "archivedPost", "1"},
		Duplicates: []kvstore.Key{{"acct", "archivedPost", "2"}, {"acct", "archivedPost", "3"}},
	}
	for _, id := range []string{"2", "3"} {
		got, found, err := Lookup(ctx, store, "acct", "content", id)
		if err != nil || !found {
			t.Fatalf("lookup %s: found=%v err=%v", id, found, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("record %s mismatch (-want +got):\n%s", id, diff)
		}
	}
	if _, found, _ := Lookup(ctx, store, "acct", "content", "1"); found {
		t.Fatal("the original must not receive a record")
	}
	if _, found, _ := Lookup(ctx, store, "other", "content", "2"); found {
		t.Fatal("records must not leak across partitions")
	}
	if _, found, _ := Lookup(ctx, store, "acct", "other-axis", "2"); found {
		t.Fatal("records must not leak across axes")
	}
}

func runFilter(t *testing.T, store kvstore.Store, action Action) []string {
	t.Helper()
	filter := Filter(store, "acct", "content", action, itemIdentity)
	out := pipeline.Run[item, item](context.Background(), filter, contentItems, pipeline.Options{})
	ids := make([]string, 0, len(out))
	for _, i := range out {
		ids = append(ids, i.ID)
	}
	return ids
}

func TestFilterAfterRecord(t *testing.T) {
	store := kvstore.NewMemory()
	if _, err := RecordDuplicates(context.Background(), store, "acct", "content", collectContent(t), itemIdentity); err != nil {
		t.Fatalf("record: %v", err)
	}

	dropped := runFilter(t, store, Drop)
	if diff := cmp.Diff([]string{"a", "b", "d", "e", "f", "g", "i"}, dropped); diff != "" {
		t.Fatalf("drop mismatch (-want +got):\n%s", diff)
	}
	kept := runFilter(t, store, Keep)
	if diff := cmp.Diff([]string{"c", "h"}, kept); diff != "" {
		t.Fatalf("keep mismatch (-want +got):\n%s", diff)
	}

	// Filtering again yields the same partition.
	if diff := cmp.Diff(dropped, runFilter(t, store, Drop)); diff != "" {
		t.Fatalf("filter is not idempotent (-first +second):\n%s", diff)
	}
}

func TestForgetAllowsReclassification(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	if _, err := RecordDuplicates(ctx, store, "acct", "content", collectContent(t), itemIdentity); err != nil {
		t.Fatalf("record: %v", err)
	}

	forget := ForgetStage(store, "acct", "content", itemIdentity)
	out := pipeline.Run[item, item](ctx, forget, []item{{ID: "c"}}, pipeline.Options{})
	if len(out) != 1 {
		t.Fatalf("forget must forward the item, got %v", out)
	}
	if diff := cmp.Diff([]string{"h"}, runFilter(t, store, Keep)); diff != "" {
		t.Fatalf("keep after forget mismatch (-want +got):\n%s", diff)
	}

	if err := Forget(ctx, store, "acct", "content", "h"); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if got := runFilter(t, store, Keep); len(got) != 0 {
		t.Fatalf("expected no known duplicates, got %v", got)
	}
}

type failingStore struct {
	kvstore.Store
}

func (failingStore) Get(context.Context, kvstore.Key, any) (bool, error) {
	return false, errors.New("store offline")
}

func TestFilterLookupFailureIsItemError(t *testing.T) {
	filter := Filter(failingStore{Store: kvstore.NewMemory()}, "acct", "content", Drop, itemIdentity)
	filter.SetStopOnError(false)

	out := pipeline.Run[item, item](context.Background(), filter, contentItems[:2], pipeline.Options{})
	if len(out) != 0 {
		t.Fatalf("expected no output, got %v", out)
	}
	if got := len(filter.Errors()); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}
}

func TestParseAction(t *testing.T) {
	cases := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{in: "drop", want: Drop},
		{in: " KEEP ", want: Keep},
		{in: "toss", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseAction(tc.in)
		if tc.wantErr {
			if !errors.Is(err, services.ErrValidation) {
				t.Errorf("ParseAction(%q) expected validation error, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseAction(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestEmptyAxisRejected(t *testing.T) {
	if _, _, err := Lookup(context.Background(), kvstore.NewMemory(), "acct", " ", "1"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := Forget(context.Background(), kvstore.NewMemory(), "", "content", "1"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
