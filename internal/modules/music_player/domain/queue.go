package domain

// Queue is a FIFO of pending tracks. Insertion order is play order.
// Queue is not safe for concurrent use; the owning player serializes access.
type Queue struct {
	tracks []*Track
}

// NewQueue creates a new empty Queue.
func NewQueue() *Queue {
	return &Queue{
		tracks: make([]*Track, 0),
	}
}

// Len returns the number of pending tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if there are no pending tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Push appends a track to the tail and returns its 1-based position.
func (q *Queue) Push(track *Track) int {
	q.tracks = append(q.tracks, track)
	return len(q.tracks)
}

// Pop removes and returns the head of the queue, or nil if it is empty.
func (q *Queue) Pop() *Track {
	if q.IsEmpty() {
		return nil
	}
	head := q.tracks[0]
	q.tracks[0] = nil
	q.tracks = q.tracks[1:]
	return head
}

// Peek returns up to n tracks from the head without removing them.
// The returned slice is a copy.
func (q *Queue) Peek(n int) []*Track {
	if n > q.Len() {
		n = q.Len()
	}
	if n <= 0 {
		return []*Track{}
	}
	result := make([]*Track, n)
	copy(result, q.tracks[:n])
	return result
}

// Clear discards all pending tracks and returns how many were dropped.
func (q *Queue) Clear() int {
	n := len(q.tracks)
	q.tracks = make([]*Track, 0)
	return n
}
