package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	prev := New()
	for i := 0; i < 1000; i++ {
		next := New()
		require.Less(t, prev, next)
		prev = next
	}
}

func TestNewAtEncodesTime(t *testing.T) {
	ts := time.Now().AddDate(10, 0, 0).Truncate(time.Millisecond)

	got, err := Time(NewAt(ts))
	require.NoError(t, err)
	assert.True(t, got.Equal(ts), "got %v want %v", got, ts)
}

func TestNewAtClockGoesBackwards(t *testing.T) {
	later := NewAt(time.Now().Add(2 * time.Hour))
	earlier := NewAt(time.Now())
	assert.Less(t, later, earlier)
}

func TestTimeRejectsGarbage(t *testing.T) {
	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}
