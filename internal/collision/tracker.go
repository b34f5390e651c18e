package collision

import "bytes"

// Tracker detects packets already seen, keyed by their fingerprint.
//
// Two different packets with the same fingerprint are a hash collision: both
// count as distinct and the collision is recorded.
type Tracker struct {
	seen       map[uint64][][]byte // fingerprint → distinct packets
	count      int
	collisions int
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		seen: make(map[uint64][][]byte),
	}
}

// Track records packet under fp and reports whether an identical packet was
// tracked before. The tracker keeps a reference to packet.
func (t *Tracker) Track(fp uint64, packet []byte) bool {
	known := t.seen[fp]
	for _, k := range known {
		if bytes.Equal(k, packet) {
			return true
		}
	}

	if len(known) > 0 {
		t.collisions++
	}

	t.seen[fp] = append(known, packet)
	t.count++

	return false
}

// HasCollision returns true if a collision has been detected.
func (t *Tracker) HasCollision() bool {
	return t.collisions > 0
}

// Collisions returns the number of packets that shared a fingerprint with a
// different packet.
func (t *Tracker) Collisions() int {
	return t.collisions
}

// Count returns the number of distinct packets tracked.
func (t *Tracker) Count() int {
	return t.count
}
