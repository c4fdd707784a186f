package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/sportgrade/internal/adapters/mq/queue"
	"github.com/okian/sportgrade/internal/adapters/mq/worker"
	"github.com/okian/sportgrade/internal/domain/model"
	"github.com/okian/sportgrade/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type recordingProcessor struct {
	mu   sync.Mutex
	seen []string
	fail map[string]error
}

func (p *recordingProcessor) Process(_ context.Context, m model.Measurement) error { //nolint:gocritic // matches worker.Processor
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, m.ID)
	return p.fail[m.ID]
}

func (p *recordingProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

type chanQueue chan model.Measurement

func (q chanQueue) Dequeue(context.Context) <-chan model.Measurement { return q }

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker over a channel", t, func() {
		q := make(chanQueue, 4)
		p := &recordingProcessor{fail: map[string]error{"bad": errors.New("no table")}}
		w := worker.NewInMemoryWorker(q, p, worker.WithName("w-test"), worker.WithLogger(logger.NewNop()))
		ctx := context.Background()
		go w.Run(ctx)

		convey.Convey("When measurements arrive", func() {
			q <- model.Measurement{ID: "a"}
			q <- model.Measurement{ID: "bad"}
			q <- model.Measurement{ID: "b"}

			convey.Convey("Then each is processed and failures do not stop the loop", func() {
				convey.So(waitFor(func() bool { return p.count() == 3 }), convey.ShouldBeTrue)
				convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When shut down twice", func() {
			convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
			convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool over the in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		p := &recordingProcessor{}
		pool := worker.NewPool(3, q, p)
		ctx := context.Background()
		pool.Start(ctx)

		convey.So(pool.Size(), convey.ShouldEqual, 3)

		convey.Convey("When items are queued and the pool shuts down", func() {
			for _, id := range []string{"1", "2", "3", "4", "5"} {
				convey.So(q.Enqueue(ctx, model.Measurement{ID: id}), convey.ShouldBeNil)
			}
			err := pool.Shutdown(ctx)

			convey.Convey("Then the queue is drained first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.count(), convey.ShouldEqual, 5)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a non-positive worker count", t, func() {
		pool := worker.NewPool(0, make(chanQueue), &recordingProcessor{})
		convey.So(pool.Size(), convey.ShouldEqual, 1)
	})
}
