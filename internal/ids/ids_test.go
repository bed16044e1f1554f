package ids

import (
	"sort"
	"testing"
)

func TestNewIsMonotonic(t *testing.T) {
	const n = 100
	generated := make([]string, 0, n)
	for i := 0; i < n; i++ {
		generated = append(generated, New())
	}

	seen := make(map[string]struct{}, n)
	for _, id := range generated {
		if id == "" {
			t.Fatal("empty id")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}

	if !sort.StringsAreSorted(generated) {
		t.Fatal("ids generated in-process must sort in creation order")
	}
}
