package queue

import (
	"container/heap"
	"sync"

	"github.com/Sriram-PR/linkedin-scraper/pkg/models"

	"github.com/sirupsen/logrus"
)

// --- Priority Queue Implementation ---

// PQItem represents a queued target
type PQItem struct {
	target   models.Target
	priority int    // Lower value means higher priority (Depth)
	seq      uint64 // Insertion order, breaks ties so equal depths stay FIFO
	index    int    // Required by heap.Interface
}

// PriorityQueue implements heap.Interface
type PriorityQueue []*PQItem

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

// Push adds an element to the heap
func (pq *PriorityQueue) Push(x any) {
	n := len(*pq)
	item := x.(*PQItem)
	item.index = n
	*pq = append(*pq, item)
}

// Pop removes and returns the minimum element from the heap
func (pq *PriorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}

// TargetQueue is a mutex-guarded, depth-prioritised queue of crawl targets.
// It never blocks: the dispatch loop polls it with TryPop between completions.
type TargetQueue struct {
	pq     PriorityQueue
	mu     sync.Mutex
	seq    uint64
	closed bool
	log    *logrus.Entry
}

// NewTargetQueue creates an empty queue
func NewTargetQueue(logger *logrus.Entry) *TargetQueue {
	q := &TargetQueue{log: logger}
	heap.Init(&q.pq)
	return q
}

// Add pushes a target with priority based on depth. Returns false if the queue is closed.
func (q *TargetQueue) Add(target models.Target) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.log.Warnf("Attempted to add target to closed queue: %s", target.URL)
		return false
	}

	q.seq++
	heap.Push(&q.pq, &PQItem{
		target:   target,
		priority: target.Depth,
		seq:      q.seq,
	})
	return true
}

// TryPop removes the shallowest, oldest target. Returns false when the queue is empty.
func (q *TargetQueue) TryPop() (models.Target, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pq) == 0 {
		return models.Target{}, false
	}
	item := heap.Pop(&q.pq).(*PQItem)
	return item.target, true
}

// Close rejects further Adds. Queued targets remain poppable.
func (q *TargetQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

// Len returns the number of queued targets
func (q *TargetQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pq)
}
