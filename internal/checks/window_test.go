package checks

import (
	"strconv"
	"testing"
	"time"
)

func TestFingerprintWindowDuplicates(t *testing.T) {
	window := NewFingerprintWindow()
	now := time.Unix(0, 0)

	if count := window.Add("g1:u1", "m1", "abc", now, 10*time.Second); count != 1 {
		t.Fatalf("expected 1, got %d", count)
	}
	if count := window.Add("g1:u1", "m2", "abc", now.Add(2*time.Second), 10*time.Second); count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
	if count := window.Add("g1:u1", "m3", "other", now.Add(3*time.Second), 10*time.Second); count != 1 {
		t.Fatalf("expected 1 for distinct digest, got %d", count)
	}
	if count := window.Add("g1:u1", "m4", "abc", now.Add(20*time.Second), 10*time.Second); count != 1 {
		t.Fatalf("expected stale entries outside window, got %d", count)
	}
}

func TestFingerprintWindowRecordsMessageOnce(t *testing.T) {
	window := NewFingerprintWindow()
	now := time.Unix(0, 0)

	window.Add("g1:u1", "m1", "abc", now, 10*time.Second)
	// Same message evaluated by a second rule of the same type.
	if count := window.Add("g1:u1", "m1", "abc", now, 10*time.Second); count != 1 {
		t.Fatalf("re-observing the same message must not inflate the count, got %d", count)
	}
	if count := window.Add("g1:u1", "m2", "abc", now.Add(time.Second), 10*time.Second); count != 2 {
		t.Fatalf("expected 2 after a second real message, got %d", count)
	}
}

func TestFingerprintWindowCap(t *testing.T) {
	window := NewFingerprintWindow()
	now := time.Unix(0, 0)

	for i := 0; i < 25; i++ {
		window.Add("g1:u1", "m"+strconv.Itoa(i), strconv.Itoa(i), now, time.Minute)
	}
	if count := window.Add("g1:u1", "mx", "0", now, time.Minute); count != 1 {
		t.Fatalf("expected oldest entries evicted, got %d", count)
	}
	window.mu.Lock()
	size := len(window.entries["g1:u1"])
	window.mu.Unlock()
	if size > fingerprintCap {
		t.Fatalf("expected at most %d entries, got %d", fingerprintCap, size)
	}
}

func TestRateWindowPrunes(t *testing.T) {
	window := NewRateWindow()
	now := time.Unix(0, 0)

	window.Add("g1:u1", "m1", now, 5*time.Second)
	window.Add("g1:u1", "m2", now.Add(time.Second), 5*time.Second)
	if count := window.Add("g1:u1", "m3", now.Add(2*time.Second), 5*time.Second); count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
	if count := window.Add("g1:u1", "m4", now.Add(10*time.Second), 5*time.Second); count != 1 {
		t.Fatalf("expected pruned window, got %d", count)
	}
}

func TestRateWindowRecordsIDOnce(t *testing.T) {
	window := NewRateWindow()
	now := time.Unix(0, 0)

	window.Add("g1:u1", "m1", now, 5*time.Second)
	if count := window.Add("g1:u1", "m1", now, 5*time.Second); count != 1 {
		t.Fatalf("repeat id must not count twice, got %d", count)
	}
	if count := window.Add("g1:u1", "m2", now.Add(time.Second), 5*time.Second); count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
}
