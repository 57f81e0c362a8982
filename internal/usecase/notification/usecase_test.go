package notification

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"groupware-approval/internal/domain/event"
	"groupware-approval/internal/testutil/documentmock"
	"groupware-approval/internal/testutil/routemock"
)

type cacheKey struct {
	kind  Kind
	actor uint64
}

type memCache struct {
	vals        map[cacheKey]bool
	getErr      error
	invalidated []uint64
}

func newMemCache() *memCache { return &memCache{vals: map[cacheKey]bool{}} }

func (c *memCache) Get(_ context.Context, kind Kind, actorID uint64) (bool, bool, error) {
	if c.getErr != nil {
		return false, false, c.getErr
	}
	v, ok := c.vals[cacheKey{kind, actorID}]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, kind Kind, actorID uint64, value bool) error {
	c.vals[cacheKey{kind, actorID}] = value
	return nil
}

func (c *memCache) Invalidate(_ context.Context, actorIDs ...uint64) error {
	c.invalidated = append(c.invalidated, actorIDs...)
	for _, id := range actorIDs {
		delete(c.vals, cacheKey{KindApproval, id})
		delete(c.vals, cacheKey{KindAuthor, id})
	}
	return nil
}

type recordingPublisher struct {
	events []event.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func TestTracker_Badges(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")

	tests := []struct {
		name       string
		actionable func(context.Context, uint64) (bool, error)
		resolved   func(context.Context, uint64) (bool, error)
		want       *Badges
		wantErr    error
	}{
		{
			name:       "both set",
			actionable: func(context.Context, uint64) (bool, error) { return true, nil },
			resolved:   func(context.Context, uint64) (bool, error) { return true, nil },
			want:       &Badges{ApprovalNotification: true, AuthorNotification: true},
		},
		{
			name:       "only author",
			actionable: func(context.Context, uint64) (bool, error) { return false, nil },
			resolved:   func(context.Context, uint64) (bool, error) { return true, nil },
			want:       &Badges{AuthorNotification: true},
		},
		{
			name:       "store error surfaces",
			actionable: func(context.Context, uint64) (bool, error) { return false, boom },
			resolved:   func(context.Context, uint64) (bool, error) { return true, nil },
			wantErr:    boom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(
				&documentmock.Repo{HasResolvedOwnedFn: tt.resolved},
				&routemock.Repo{HasActionableFn: tt.actionable},
				nil, nil,
			)
			got, err := tr.Badges(ctx, 7)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if *got != *tt.want {
				t.Fatalf("badges = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTracker_ReadThroughCache(t *testing.T) {
	ctx := context.Background()
	calls := 0
	routes := &routemock.Repo{HasActionableFn: func(context.Context, uint64) (bool, error) {
		calls++
		return true, nil
	}}
	cache := newMemCache()
	tr := NewTracker(&documentmock.Repo{}, routes, cache, nil)

	for i := 0; i < 3; i++ {
		ok, err := tr.HasPendingApprovalWork(ctx, 5)
		if err != nil || !ok {
			t.Fatalf("HasPendingApprovalWork = %v, %v", ok, err)
		}
	}
	if calls != 1 {
		t.Fatalf("store hit %d times, want 1", calls)
	}

	if err := tr.Publish(ctx, event.Event{Type: event.TypeStepResolved, Recipients: []uint64{5, 6}}); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.HasPendingApprovalWork(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("invalidated badge should be recomputed, store calls = %d", calls)
	}
}

func TestTracker_CacheErrorFallsBack(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("redis gone")
	tr := NewTracker(
		&documentmock.Repo{HasResolvedOwnedFn: func(context.Context, uint64) (bool, error) { return true, nil }},
		&routemock.Repo{},
		cache, nil,
	)
	ok, err := tr.HasResolvedOwnedDocuments(context.Background(), 3)
	if err != nil || !ok {
		t.Fatalf("fallback failed: %v %v", ok, err)
	}
}

func TestTracker_PublishForwards(t *testing.T) {
	ctx := context.Background()
	next := &recordingPublisher{err: errors.New("nats down")}
	cache := newMemCache()
	tr := NewTracker(&documentmock.Repo{}, &routemock.Repo{}, cache, next)

	e := event.Event{Type: event.TypeDocumentApproved, DocumentID: 9, Recipients: []uint64{1, 2}}
	if err := tr.Publish(ctx, e); !errors.Is(err, next.err) {
		t.Fatalf("err = %v, want forwarded publisher error", err)
	}
	if !reflect.DeepEqual(cache.invalidated, []uint64{1, 2}) {
		t.Fatalf("invalidated = %v", cache.invalidated)
	}
	if len(next.events) != 1 || next.events[0].DocumentID != 9 {
		t.Fatalf("events = %+v", next.events)
	}
}
