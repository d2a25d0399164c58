package relay

import (
	"context"
	"sync"

	"github.com/gammazero/deque"

	"github.com/HMasataka/lookout/pkg/media"
)

// DefaultQueueCapacity bounds the relay queue at two seconds of video
// at 30fps.
const DefaultQueueCapacity = 60

/*
FrameQueueは受信側デコードと送信側エンコードを仲介する有界キューです。
満杯時は最古のフレームを破棄してから挿入します。ライブ中継では
完全性よりも鮮度が優先されるためです。Pushする側とPullする側が
それぞれ1つだけ存在することを想定しています。
*/
type FrameQueue struct {
	mu       sync.Mutex
	frames   deque.Deque[media.Frame]
	capacity int
	closed   bool
	dropped  uint64

	wake chan struct{}
}

func NewFrameQueue(capacity int) *FrameQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}

	return &FrameQueue{
		capacity: capacity,
		wake:     make(chan struct{}, 1),
	}
}

// Push inserts a frame without blocking. When the queue is full the
// oldest frame is evicted first.
func (q *FrameQueue) Push(frame media.Frame) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}

	if q.frames.Len() == q.capacity {
		q.frames.PopFront()
		q.dropped++
	}
	q.frames.PushBack(frame)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}

	return nil
}

// Pull blocks until a frame is available, the queue closes, or ctx is
// cancelled. Frames come out in push order.
func (q *FrameQueue) Pull(ctx context.Context) (media.Frame, error) {
	for {
		q.mu.Lock()
		if q.frames.Len() > 0 {
			frame := q.frames.PopFront()
			q.mu.Unlock()
			return frame, nil
		}
		if q.closed {
			q.mu.Unlock()
			return media.Frame{}, ErrQueueClosed
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return media.Frame{}, ctx.Err()
		case <-q.wake:
		}
	}
}

// Close wakes a blocked consumer. Buffered frames are discarded; a
// closed queue never delivers again.
func (q *FrameQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.frames.Clear()
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *FrameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.frames.Len()
}

// Dropped reports how many frames were evicted by backpressure.
func (q *FrameQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
