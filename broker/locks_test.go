package broker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountLocksSerializeSameAccount(t *testing.T) {
	var l accountLocks

	unlock := l.lock(1)
	acquired := make(chan struct{})
	go func() {
		u := l.lock(1)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock on the same account acquired while held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was not released")
	}
}

func TestAccountLocksIndependentAccounts(t *testing.T) {
	var l accountLocks

	unlock := l.lock(1)
	defer unlock()

	done := make(chan struct{})
	go func() {
		l.lock(2)()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another account blocked")
	}
}

func TestAccountLocksCounter(t *testing.T) {
	var (
		l  accountLocks
		wg sync.WaitGroup
		n  int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock(7)
			n++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, n)
}
