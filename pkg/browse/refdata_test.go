package browse_test

import (
	"context"
	"errors"
	"testing"

	"github.com/u2giants/popdam2/pkg/browse"
)

func TestRefDataPropertiesFetchedOnce(t *testing.T) {
	gw := &fakeGateway{
		propsFn: func(context.Context) ([]browse.Property, error) {
			return []browse.Property{{ID: "p1", Name: "Atlantis"}, {ID: "p2", Name: "Bayou"}}, nil
		},
	}
	ref := browse.NewRefData(gw)

	for range 3 {
		props, err := ref.Properties(context.Background())
		if err != nil {
			t.Fatalf("properties: %v", err)
		}

		if len(props) != 2 {
			t.Fatalf("props = %d, want 2", len(props))
		}
	}

	gw.mu.Lock()
	calls := gw.propsCalls
	gw.mu.Unlock()

	if calls != 1 {
		t.Fatalf("gateway called %d times, want 1", calls)
	}
}

func TestRefDataPropertiesErrorNotCached(t *testing.T) {
	fail := true
	gw := &fakeGateway{
		propsFn: func(context.Context) ([]browse.Property, error) {
			if fail {
				return nil, errors.New("db down")
			}

			return []browse.Property{{ID: "p1", Name: "Atlantis"}}, nil
		},
	}
	ref := browse.NewRefData(gw)

	if _, err := ref.Properties(context.Background()); err == nil {
		t.Fatal("expected error on first fetch")
	}

	fail = false

	props, err := ref.Properties(context.Background())
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}

	if len(props) != 1 {
		t.Fatalf("props = %d, want 1", len(props))
	}
}

func TestRefDataCharactersKeyedByProperty(t *testing.T) {
	gw := &fakeGateway{
		charsFn: func(_ context.Context, propertyID string) ([]browse.Character, error) {
			if propertyID == "" {
				return []browse.Character{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}, nil
			}

			return []browse.Character{{ID: "c1", PropertyID: propertyID}}, nil
		},
	}
	ref := browse.NewRefData(gw)
	ctx := context.Background()

	all, err := ref.Characters(ctx, "")
	if err != nil {
		t.Fatalf("characters all: %v", err)
	}

	if len(all) != 3 {
		t.Fatalf("all = %d, want 3", len(all))
	}

	// 同键重复读取不回源
	if _, err = ref.Characters(ctx, ""); err != nil {
		t.Fatalf("characters all again: %v", err)
	}

	scoped, err := ref.Characters(ctx, "p1")
	if err != nil {
		t.Fatalf("characters p1: %v", err)
	}

	if len(scoped) != 1 || scoped[0].PropertyID != "p1" {
		t.Fatalf("scoped = %+v", scoped)
	}

	// 切回"不限作品"同样算键变化，需要重新拉取
	if _, err = ref.Characters(ctx, ""); err != nil {
		t.Fatalf("characters back to all: %v", err)
	}

	gw.mu.Lock()
	calls := append([]string(nil), gw.charsCalls...)
	gw.mu.Unlock()

	want := []string{"", "p1", ""}
	if len(calls) != len(want) {
		t.Fatalf("gateway calls = %v, want %v", calls, want)
	}

	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("gateway calls = %v, want %v", calls, want)
		}
	}
}

func TestRefDataInvalidate(t *testing.T) {
	gw := &fakeGateway{
		propsFn: func(context.Context) ([]browse.Property, error) {
			return []browse.Property{{ID: "p1"}}, nil
		},
	}
	ref := browse.NewRefData(gw)
	ctx := context.Background()

	if _, err := ref.Properties(ctx); err != nil {
		t.Fatalf("properties: %v", err)
	}

	ref.Invalidate(ctx)

	if _, err := ref.Properties(ctx); err != nil {
		t.Fatalf("properties after invalidate: %v", err)
	}

	gw.mu.Lock()
	calls := gw.propsCalls
	gw.mu.Unlock()

	if calls != 2 {
		t.Fatalf("gateway called %d times, want 2", calls)
	}
}
