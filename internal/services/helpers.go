package services

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
)

// NewDealNumber mints a sortable human-pasteable deal number. ULIDs
// order by creation time, so deal lists sort chronologically by
// number alone.
func NewDealNumber() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return constants.DealNumberPrefix + ulid.MustNew(ulid.Now(), entropy).String()
}

func removeUUID(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func containsUUID(ids []uuid.UUID, target uuid.UUID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

// deepCopy snapshots an entity through a JSON round trip so embedded
// slices detach from the original. Rollbacks restore from these.
func deepCopy[T any](v *T) *T {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return &out
}
