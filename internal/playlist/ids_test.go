package playlist

import (
	"strconv"
	"testing"
	"time"
)

func TestClockIDs_Monotonic(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	ids := NewClockIDs(func() time.Time { return now })

	first := ids.NextID()
	if first != "1700000000000" {
		t.Fatalf("first id = %s; want millisecond timestamp", first)
	}

	prev, _ := strconv.ParseInt(first, 10, 64)
	for i := 0; i < 5; i++ {
		id, _ := strconv.ParseInt(ids.NextID(), 10, 64)
		if id <= prev {
			t.Fatalf("id %d not after %d", id, prev)
		}
		prev = id
	}

	// clock going backwards must not repeat ids
	now = now.Add(-time.Second)
	id, _ := strconv.ParseInt(ids.NextID(), 10, 64)
	if id <= prev {
		t.Errorf("id %d not after %d after clock skew", id, prev)
	}
}
