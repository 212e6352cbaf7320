package race

import "container/heap"

type task struct {
	frame int
	seq   uint64
	fn    func()
}

type taskQueue []task

func (q taskQueue) Len() int { return len(q) }
func (q taskQueue) Less(i, j int) bool {
	if q[i].frame != q[j].frame {
		return q[i].frame < q[j].frame
	}
	return q[i].seq < q[j].seq
}
func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *taskQueue) Push(x any)   { *q = append(*q, x.(task)) }
func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = task{}
	*q = old[:n-1]
	return t
}

// Scheduler is a queue of deferred callbacks keyed by absolute frame.
// Callbacks due on the same frame run in the order they were scheduled.
type Scheduler struct {
	queue taskQueue
	seq   uint64
}

// At schedules fn to run when the frame counter reaches frame.
func (s *Scheduler) At(frame int, fn func()) {
	s.seq++
	heap.Push(&s.queue, task{frame: frame, seq: s.seq, fn: fn})
}

// RunDue runs every callback due at or before frame and returns how many
// ran. Callbacks scheduled for the current frame by a running callback run
// in the same call.
func (s *Scheduler) RunDue(frame int) int {
	n := 0
	for len(s.queue) > 0 && s.queue[0].frame <= frame {
		t := heap.Pop(&s.queue).(task)
		t.fn()
		n++
	}
	return n
}

// Len returns the number of pending callbacks.
func (s *Scheduler) Len() int {
	return len(s.queue)
}

// Reset drops every pending callback.
func (s *Scheduler) Reset() {
	s.queue = nil
}
