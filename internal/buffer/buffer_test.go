package buffer

import (
	"fmt"
	"testing"
	"time"

	"github.com/calderost/bridgewatch/internal/model"
)

func rowAt(key string, ts time.Time) *model.ViewRow {
	return model.NewViewRow(&model.RawEvent{ID: key, Time: ts.UnixMilli(), Type: "call"})
}

func TestBuffer_AppendPreservesOrder(t *testing.T) {
	b := New(DefaultRetention)
	now := time.Now()

	b.Append(now, rowAt("a", now), rowAt("b", now))
	b.Append(now, rowAt("c", now))

	rows := b.Rows()
	if len(rows) != 3 {
		t.Fatalf("Len = %d, want 3", len(rows))
	}
	for i, want := range []string{"a", "b", "c"} {
		if rows[i].Key != want {
			t.Errorf("rows[%d].Key = %q, want %q", i, rows[i].Key, want)
		}
	}
}

func TestBuffer_EvictsOnAppend(t *testing.T) {
	b := New(5 * time.Minute)
	start := time.Now()

	// Simulate appends spanning more than the retention window.
	for i := 0; i < 12; i++ {
		now := start.Add(time.Duration(i) * time.Minute)
		b.Append(now, rowAt(fmt.Sprintf("ev-%d", i), now))
	}

	last := start.Add(11 * time.Minute)
	for _, r := range b.Rows() {
		if age := r.Age(last); age >= 5*time.Minute {
			t.Errorf("row %s retained with age %v, want < 5m", r.Key, age)
		}
	}
	if b.Len() != 5 {
		t.Errorf("Len = %d, want 5", b.Len())
	}
}

func TestBuffer_NoEvictionWithoutAppend(t *testing.T) {
	b := New(5 * time.Minute)
	now := time.Now()
	b.Append(now, rowAt("old", now))

	// Staleness is only detected at the next append; reads do not prune.
	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}

	later := now.Add(10 * time.Minute)
	b.Append(later, rowAt("fresh", later))

	rows := b.Rows()
	if len(rows) != 1 || rows[0].Key != "fresh" {
		t.Errorf("after late append got %d rows (first %q), want just %q", len(rows), rows[0].Key, "fresh")
	}
}

func TestBuffer_DuplicateKeysPermitted(t *testing.T) {
	b := New(DefaultRetention)
	now := time.Now()
	b.Append(now, rowAt("dup", now), rowAt("dup", now))
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2 (duplicates are append-only)", b.Len())
	}
}

func TestBuffer_Lookup(t *testing.T) {
	b := New(DefaultRetention)
	now := time.Now()
	b.Append(now, rowAt("a", now), rowAt("b", now))

	if got := b.Lookup("b"); got == nil || got.ID != "b" {
		t.Errorf("Lookup(b) = %v, want payload with ID b", got)
	}
	if got := b.Lookup("missing"); got != nil {
		t.Errorf("Lookup(missing) = %v, want nil", got)
	}
	if got := b.Lookup(""); got != nil {
		t.Errorf("Lookup(\"\") = %v, want nil", got)
	}
}

func TestBuffer_Clear(t *testing.T) {
	b := New(DefaultRetention)
	now := time.Now()
	b.Append(now, rowAt("a", now))

	b.Clear()

	if b.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", b.Len())
	}
	if got := b.Lookup("a"); got != nil {
		t.Errorf("Lookup(a) after Clear = %v, want nil (no selection)", got)
	}
}

func TestBuffer_Since(t *testing.T) {
	b := New(DefaultRetention)
	now := time.Now()
	b.Append(now,
		rowAt("old", now.Add(-30*time.Second)),
		rowAt("edge", now.Add(-5*time.Second)),
		rowAt("new", now),
	)

	got := b.Since(now, 5*time.Second)
	if len(got) != 2 {
		t.Fatalf("Since returned %d rows, want 2", len(got))
	}
	if got[0].Key != "edge" || got[1].Key != "new" {
		t.Errorf("Since = [%s %s], want [edge new]", got[0].Key, got[1].Key)
	}
}

func TestBuffer_SnapshotRestore(t *testing.T) {
	b := New(DefaultRetention)
	now := time.Now()
	b.Append(now, rowAt("a", now), rowAt("b", now))

	snap := b.Snapshot()
	if len(snap.Rows) != 2 {
		t.Fatalf("snapshot has %d rows, want 2", len(snap.Rows))
	}

	restored := New(DefaultRetention)
	restored.Restore(snap)
	rows := restored.Rows()
	if len(rows) != 2 || rows[0].Key != "a" || rows[1].Key != "b" {
		t.Errorf("restored rows = %v, want [a b]", rows)
	}

	restored.Restore(nil)
	if restored.Len() != 0 {
		t.Errorf("Restore(nil) left %d rows, want 0", restored.Len())
	}
}

func TestBuffer_RowsIsACopy(t *testing.T) {
	b := New(DefaultRetention)
	now := time.Now()
	b.Append(now, rowAt("a", now))

	rows := b.Rows()
	rows[0] = nil

	if got := b.Rows(); got[0] == nil {
		t.Error("mutating the returned slice affected the buffer")
	}
}
