package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/sportgrade/internal/domain/model"
)

func measurement(id string) model.Measurement {
	return model.Measurement{ID: id, Kind: model.KindGrade, GradingKeyID: "school-100", Score: 80}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if err := q.Enqueue(ctx, measurement("m1")); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.ID != "m1" {
		t.Errorf("expected m1, got %v", got.ID)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for _, id := range []string{"m1", "m2"} {
		if err := q.Enqueue(ctx, measurement(id)); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}
	if err := q.Enqueue(ctx, measurement("m3")); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, measurement("m1")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(50))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const producers, perProducer = 8, 100
	var received sync.Map
	var consumers sync.WaitGroup
	for range 4 {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			for it := range q.Dequeue(ctx) {
				received.Store(it.ID, true)
			}
		}()
	}

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				m := measurement(fmt.Sprintf("m%d_%d", p, i))
				for q.Enqueue(ctx, m) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}()
	}
	wg.Wait()
	_ = q.Close()
	consumers.Wait()

	n := 0
	received.Range(func(_, _ any) bool { n++; return true })
	if n != producers*perProducer {
		t.Errorf("expected %d items, got %d", producers*perProducer, n)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if err := q.Enqueue(ctx, measurement("m1")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if err := q.Enqueue(ctx, measurement("m2")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	var drained []string
	timeout := time.After(time.Second)
	ch := q.Dequeue(ctx)
	for {
		select {
		case it, ok := <-ch:
			if !ok {
				if len(drained) != 1 || drained[0] != "m1" {
					t.Errorf("expected queued item to drain, got %v", drained)
				}
				if err := q.Close(); err != nil {
					t.Errorf("second close: %v", err)
				}
				return
			}
			drained = append(drained, it.ID)
		case <-timeout:
			t.Fatal("dequeue channel not closed after Close")
		}
	}
}

func TestInMemoryQueue_NoReadAhead(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx, cancel := context.WithCancel(context.Background())

	for _, id := range []string{"m1", "m2"} {
		if err := q.Enqueue(context.Background(), measurement(id)); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}
	for range 3 {
		_ = q.Dequeue(ctx)
	}
	time.Sleep(20 * time.Millisecond)
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2 with idle consumers, got %d", l)
	}

	cancel()
	var got []string
	for range 2 {
		select {
		case it := <-q.Dequeue(context.Background()):
			got = append(got, it.ID)
		case <-time.After(time.Second):
			t.Fatalf("item lost after consumer context was cancelled, got %v", got)
		}
	}
	if len(got) != 2 || got[0] != "m1" || got[1] != "m2" {
		t.Errorf("expected m1 and m2 in order, got %v", got)
	}
}
