package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
	last uint64
)

func init() {
	// Seed a PRNG from crypto/rand so ULID entropy is unpredictable.
	// ulid.Monotonic keeps IDs minted within the same millisecond increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string stamped with the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID string stamped with t.
//
// IDs are strictly increasing across calls in this process even when t
// moves backwards, so the ledger can use them as a tie breaker for records
// committed in the same instant.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	ms := ulid.Timestamp(t.UTC())
	if ms < last {
		ms = last
	}
	last = ms

	id, err := ulid.New(ms, mono)
	if err != nil {
		// Only possible if the monotonic entropy overflows within one millisecond.
		panic(err)
	}
	return id.String()
}

// Time returns the timestamp encoded in a ULID string.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
