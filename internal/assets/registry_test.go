package assets

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("images/a.png", "src/a.png")
	r.Register("images/b.png", "src/b.png")
	r.Register("images/a.png", "other/a.png")

	entries := r.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected duplicates to be kept, got %d entries", len(entries))
	}
	if entries[0].PhysicalPath != "src/a.png" || entries[2].PhysicalPath != "other/a.png" {
		t.Fatalf("registration order lost: %v", entries)
	}
}

func TestRegistryMergePreservesBufferOrder(t *testing.T) {
	r := NewRegistry()

	first := &Buffer{}
	first.Register("images/one.png", "ch1/one.png")
	first.Register("images/two.png", "ch1/two.png")

	second := &Buffer{}
	second.Register("images/three.png", "ch2/three.png")

	r.Merge(first)
	r.Merge(second)
	r.Merge(nil)

	entries := r.Entries()
	want := []string{"images/one.png", "images/two.png", "images/three.png"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, target := range want {
		if entries[i].LogicalTarget != target {
			t.Fatalf("entry %d = %q, want %q", i, entries[i].LogicalTarget, target)
		}
	}
}

func TestRegistryConcurrentRegister(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Register(fmt.Sprintf("images/%d-%d.png", worker, j), "src.png")
			}
		}(i)
	}
	wg.Wait()

	if r.Len() != 8*50 {
		t.Fatalf("expected %d entries, got %d", 8*50, r.Len())
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Register("images/a.png", "a.png")

	entries := r.Entries()
	entries[0].LogicalTarget = "mutated"

	if r.Entries()[0].LogicalTarget != "images/a.png" {
		t.Fatal("Entries must return a copy")
	}
}
