package app

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestChatLimiter_SerializesPerChat(t *testing.T) {
	l := NewChatLimiter()
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock(42)
			defer unlock()
			n := inside.Add(1)
			if n > maxInside.Load() {
				maxInside.Store(n)
			}
			inside.Add(-1)
		}()
	}
	wg.Wait()
	if maxInside.Load() != 1 {
		t.Fatalf("concurrent sends to one chat: %d", maxInside.Load())
	}

	// разные чаты не блокируют друг друга
	unlockA := l.lock(1)
	unlockB := l.lock(2)
	unlockB()
	unlockA()
	if n := l.size(); n != 0 {
		t.Fatalf("released chats must be forgotten, %d left", n)
	}
}
