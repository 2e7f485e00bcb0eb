package gql_test

import (
	"context"
	"testing"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/gql"
)

func TestLoaderMemoizesLoad(t *testing.T) {
	calls := 0
	l := gql.NewLoader(func(keys []string) map[string]int {
		calls++
		out := map[string]int{}
		for _, k := range keys {
			out[k] = len(k)
		}
		return out
	})

	for i := 0; i < 3; i++ {
		v, ok := l.Load("abc")
		if !ok || v != 3 {
			t.Fatalf("Load = %d ok=%v", v, ok)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 batch call for repeated Load, got %d", calls)
	}
	if l.BatchCalls != calls {
		t.Errorf("BatchCalls counter disagrees: %d vs %d", l.BatchCalls, calls)
	}
}

func TestLoaderLoadManyBatchesOnce(t *testing.T) {
	var batches [][]string
	l := gql.NewLoader(func(keys []string) map[string]string {
		batches = append(batches, keys)
		out := map[string]string{}
		for _, k := range keys {
			out[k] = k + "!"
		}
		return out
	})

	got := l.LoadMany([]string{"a", "b", "c"})
	if len(got) != 3 || got["b"] != "b!" {
		t.Fatalf("LoadMany = %v", got)
	}
	if len(batches) != 1 || len(batches[0]) != 3 {
		t.Fatalf("expected one batch of 3 keys, got %v", batches)
	}

	// A second page with overlap only fetches the misses.
	l.LoadMany([]string{"b", "c", "d"})
	if len(batches) != 2 {
		t.Fatalf("expected a second batch, got %v", batches)
	}
	if len(batches[1]) != 1 || batches[1][0] != "d" {
		t.Errorf("expected only the missing key in the second batch, got %v", batches[1])
	}
	if l.BatchCalls != 2 {
		t.Errorf("expected 2 batch calls, got %d", l.BatchCalls)
	}
}

func TestLoaderMissingKey(t *testing.T) {
	l := gql.NewLoader(func(keys []string) map[string]int {
		return map[string]int{} // nothing resolves
	})
	if _, ok := l.Load("ghost"); ok {
		t.Error("missing key must not resolve")
	}
	// Misses are not memoized as hits.
	l.Load("ghost")
	if l.BatchCalls != 2 {
		t.Errorf("expected misses to retry the batch, got %d calls", l.BatchCalls)
	}
}

func TestLoadersContextRoundTrip(t *testing.T) {
	in := &gql.Loaders{RequestID: "req-1"}
	ctx := gql.WithLoaders(context.Background(), in)
	if out := gql.LoadersFrom(ctx); out != in {
		t.Errorf("expected the stashed loaders back, got %v", out)
	}
	if out := gql.LoadersFrom(context.Background()); out != nil {
		t.Errorf("bare context must yield nil loaders, got %v", out)
	}
}
