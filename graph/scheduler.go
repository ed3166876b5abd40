package graph

import (
	"container/heap"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"sync"
	"sync/atomic"
)

// WorkItem is a queued unit of work in the execution frontier: a node
// to run, the state snapshot to run it against, and the provenance
// (OrderKey, parent, edge) that lets the scheduler reproduce the exact
// same dequeue order on replay regardless of goroutine timing.
type WorkItem[S any] struct {
	StepID       int    `json:"step_id"`
	OrderKey     uint64 `json:"order_key"`
	NodeID       string `json:"node_id"`
	State        S      `json:"state"`
	Attempt      int    `json:"attempt"`
	ParentNodeID string `json:"parent_node_id"`
	EdgeIndex    int    `json:"edge_index"`
}

// ComputeOrderKey derives a deterministic sort key for a work item from
// its parent node and the edge index taken to reach it: SHA-256 over
// parentNodeID + big-endian edgeIndex, truncated to the first 8 bytes.
// Same inputs always produce the same key, so the frontier's dequeue
// order survives a replay even though nodes may finish out of order
// live.
func ComputeOrderKey(parentNodeID string, edgeIndex int) uint64 {
	return computeOrderKey(parentNodeID, edgeIndex)
}

func computeOrderKey(parentNodeID string, edgeIndex int) uint64 {
	h := sha256.New()
	h.Write([]byte(parentNodeID))

	edgeBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(edgeBytes, uint32(edgeIndex))
	h.Write(edgeBytes)

	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

// workHeap is a min-heap over WorkItem.OrderKey, backing Frontier's
// priority ordering.
type workHeap[S any] []WorkItem[S]

func (h workHeap[S]) Len() int            { return len(h) }
func (h workHeap[S]) Less(i, j int) bool  { return h[i].OrderKey < h[j].OrderKey }
func (h workHeap[S]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *workHeap[S]) Push(x interface{}) { *h = append(*h, x.(WorkItem[S])) }

func (h *workHeap[S]) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// Frontier is the engine's concurrent work queue: a priority heap
// (ordered by OrderKey, for deterministic replay) gated by a bounded
// channel, so Enqueue blocks once QueueDepth items are pending rather
// than let memory grow without limit. Every method is safe for
// concurrent use.
type Frontier[S any] struct {
	heap     workHeap[S]
	queue    chan WorkItem[S]
	capacity int
	ctx      context.Context
	mu       sync.Mutex

	totalEnqueued      atomic.Int64
	totalDequeued      atomic.Int64
	backpressureEvents atomic.Int32
	peakQueueDepth     atomic.Int32
}

// NewFrontier returns an empty Frontier bounded to capacity items.
func NewFrontier[S any](ctx context.Context, capacity int) *Frontier[S] {
	f := &Frontier[S]{
		heap:     make(workHeap[S], 0),
		queue:    make(chan WorkItem[S], capacity),
		capacity: capacity,
		ctx:      ctx,
	}
	heap.Init(&f.heap)
	return f
}

// Enqueue pushes item onto the heap, then blocks on the bounded channel
// until space frees up or ctx is done — the scheduler's backpressure
// mechanism.
func (f *Frontier[S]) Enqueue(ctx context.Context, item WorkItem[S]) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	f.mu.Lock()
	heap.Push(&f.heap, item)
	currentDepth := int32(f.heap.Len())
	f.mu.Unlock()

	for {
		oldPeak := f.peakQueueDepth.Load()
		if currentDepth <= oldPeak || f.peakQueueDepth.CompareAndSwap(oldPeak, currentDepth) {
			break
		}
	}

	if currentDepth >= int32(f.capacity) {
		f.backpressureEvents.Add(1)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case f.queue <- item:
		f.totalEnqueued.Add(1)
		return nil
	}
}

// Dequeue blocks until a work item is available or ctx is done, then
// pops the smallest-OrderKey item from the heap.
func (f *Frontier[S]) Dequeue(ctx context.Context) (WorkItem[S], error) {
	var zero WorkItem[S]

	if ctx.Err() != nil {
		return zero, ctx.Err()
	}

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-f.queue:
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.heap.Len() == 0 {
			return zero, context.Canceled
		}

		item := heap.Pop(&f.heap).(WorkItem[S])
		f.totalDequeued.Add(1)
		return item, nil
	}
}

// Len returns the current heap size.
func (f *Frontier[S]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heap.Len()
}

// SchedulerMetrics is a point-in-time snapshot of a Frontier's
// bookkeeping counters, for operators tuning MaxConcurrentNodes and
// QueueDepth or alerting on sustained backpressure.
type SchedulerMetrics struct {
	ActiveNodes        int32
	QueueDepth         int32
	QueueCapacity      int32
	TotalSteps         int64
	TotalEnqueued      int64
	TotalDequeued      int64
	BackpressureEvents int32
	PeakActiveNodes    int32
	PeakQueueDepth     int32
}

// Metrics snapshots the frontier's current counters. ActiveNodes,
// TotalSteps, and PeakActiveNodes are left zero here — the Engine,
// which tracks concurrent node execution, fills those in.
func (f *Frontier[S]) Metrics() SchedulerMetrics {
	f.mu.Lock()
	currentQueueDepth := int32(f.heap.Len())
	f.mu.Unlock()

	return SchedulerMetrics{
		QueueDepth:         currentQueueDepth,
		QueueCapacity:      int32(f.capacity),
		TotalEnqueued:      f.totalEnqueued.Load(),
		TotalDequeued:      f.totalDequeued.Load(),
		BackpressureEvents: f.backpressureEvents.Load(),
		PeakQueueDepth:     f.peakQueueDepth.Load(),
	}
}
