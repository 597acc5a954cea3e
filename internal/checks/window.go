package checks

import (
	"hash/fnv"
	"strconv"
	"sync"
	"time"
)

// fingerprintCap bounds the per-user history; only the most recent entries
// are retained. State is process-local and lost on restart, which only
// affects short-window burst detection, not persisted penalties.
const fingerprintCap = 10

type fingerprint struct {
	id     string
	digest string
	at     time.Time
}

// FingerprintWindow keeps a bounded queue of recent message digests per key,
// used for duplicate-content spam detection.
type FingerprintWindow struct {
	mu      sync.Mutex
	entries map[string][]fingerprint
}

func NewFingerprintWindow() *FingerprintWindow {
	return &FingerprintWindow{entries: make(map[string][]fingerprint)}
}

// Add records the digest under id and returns how many entries with the same
// digest fall inside the window, including this one. An id already recorded
// is counted but not recorded again, so several rules evaluating one message
// observe it once.
func (w *FingerprintWindow) Add(key, id, digest string, now time.Time, window time.Duration) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	queue := w.entries[key]
	recorded := false
	for _, entry := range queue {
		if entry.id == id {
			recorded = true
			break
		}
	}
	if !recorded {
		queue = append(queue, fingerprint{id: id, digest: digest, at: now})
		if len(queue) > fingerprintCap {
			queue = queue[len(queue)-fingerprintCap:]
		}
		w.entries[key] = queue
	}

	cutoff := now.Add(-window)
	count := 0
	for _, entry := range queue {
		if entry.digest == digest && entry.at.After(cutoff) {
			count++
		}
	}
	return count
}

type hit struct {
	id string
	at time.Time
}

// RateWindow keeps per-key hits pruned to the window on every check.
type RateWindow struct {
	mu   sync.Mutex
	hits map[string][]hit
}

func NewRateWindow() *RateWindow {
	return &RateWindow{hits: make(map[string][]hit)}
}

// Add records one hit per id and returns the count within the window. Repeat
// ids inside the window are not recorded again.
func (w *RateWindow) Add(key, id string, now time.Time, window time.Duration) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-window)
	hits := w.hits[key]
	idx := 0
	for _, h := range hits {
		if h.at.After(cutoff) {
			break
		}
		idx++
	}
	hits = hits[idx:]

	recorded := false
	for _, h := range hits {
		if h.id == id {
			recorded = true
			break
		}
	}
	if !recorded {
		hits = append(hits, hit{id: id, at: now})
	}
	w.hits[key] = hits
	return len(hits)
}

// Digest returns a stable fingerprint for message content.
func Digest(content string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(content))
	return strconv.FormatUint(h.Sum64(), 16)
}
