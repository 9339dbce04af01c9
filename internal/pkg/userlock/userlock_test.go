package userlock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocker_SerializesSameUser(t *testing.T) {
	l := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Lock("user-1")
			counter++
			l.Unlock("user-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestLocker_IndependentUsers(t *testing.T) {
	l := New()

	l.Lock("user-1")

	done := make(chan struct{})
	go func() {
		// Must not block on user-1's lock.
		l.Lock("user-2")
		l.Unlock("user-2")
		close(done)
	}()

	<-done
	l.Unlock("user-1")
}

func TestLocker_DropsUnusedEntries(t *testing.T) {
	l := New()

	l.Lock("user-1")
	l.Unlock("user-1")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.locks)
}
