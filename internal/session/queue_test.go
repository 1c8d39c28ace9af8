package session

import (
	"errors"
	"testing"
	"time"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := NewQueue[int]()
	defer q.Close()

	for i := 0; i < 100; i++ {
		if err := q.Send(i); err != nil {
			t.Fatalf("Send(%d) returned error: %v", i, err)
		}
	}

	for i := 0; i < 100; i++ {
		select {
		case got := <-q.Out():
			if got != i {
				t.Fatalf("received %d, expected %d", got, i)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for item %d", i)
		}
	}
}

func TestQueue_SendNeverBlocks(t *testing.T) {
	q := NewQueue[int]()
	defer q.Close()

	// No consumer; a large burst must still return promptly.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			_ = q.Send(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("burst of sends blocked without a consumer")
	}
}

func TestQueue_CloseDrainsThenClosesOut(t *testing.T) {
	q := NewQueue[int]()

	for i := 0; i < 3; i++ {
		if err := q.Send(i); err != nil {
			t.Fatalf("Send returned error: %v", err)
		}
	}
	q.Close()

	var got []int
	deadline := time.After(2 * time.Second)
	for {
		select {
		case v, ok := <-q.Out():
			if !ok {
				if len(got) != 3 {
					t.Fatalf("drained %v, expected 3 items", got)
				}
				return
			}
			got = append(got, v)
		case <-deadline:
			t.Fatal("timed out draining closed queue")
		}
	}
}

func TestQueue_SendAfterClose(t *testing.T) {
	q := NewQueue[int]()
	q.Close()

	if err := q.Send(1); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Send after Close = %v, expected ErrQueueClosed", err)
	}
}

func TestQueue_CloseIdempotent(t *testing.T) {
	q := NewQueue[int]()
	q.Close()
	q.Close()
}

func TestQueue_DisposeFailsSendsAndDiscards(t *testing.T) {
	q := NewQueue[int]()

	_ = q.Send(1)
	_ = q.Send(2)
	q.dispose()

	if err := q.Send(3); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Send after dispose = %v, expected ErrQueueClosed", err)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after dispose, expected 0", q.Len())
	}
}

func TestQueue_DisposeReleasesPump(t *testing.T) {
	q := NewQueue[int]()

	// Pump ends up blocked handing an item to a consumer that never reads.
	_ = q.Send(1)
	time.Sleep(10 * time.Millisecond)
	q.dispose()

	// A second dispose must not panic, and sends must keep failing.
	q.dispose()
	if err := q.Send(4); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Send after dispose = %v, expected ErrQueueClosed", err)
	}
}
