package main

import "testing"

func TestNotifyChangedMergesBursts(t *testing.T) {
	v := &viewer{
		pending: make(map[int]struct{}),
		changed: make(chan struct{}, 1),
	}

	// A burst larger than any channel buffer; every position must
	// survive until the event loop drains.
	for i := 0; i < 50; i++ {
		v.notifyChanged([]int{i, i + 1})
	}

	select {
	case <-v.changed:
	default:
		t.Fatal("no wake signal after notifications")
	}

	got := v.takePending()
	if len(got) != 51 {
		t.Fatalf("drained %d positions, want 51", len(got))
	}
	for i, pos := range got {
		if pos != i {
			t.Fatalf("positions[%d] = %d, want %d (sorted, deduplicated)", i, pos, i)
		}
	}

	if again := v.takePending(); len(again) != 0 {
		t.Errorf("second drain returned %v, want empty", again)
	}
}
