package resolve

// queue is a FIFO of pending requests.
type queue struct {
	items []Request
	head  int
}

func (q *queue) push(r Request) { q.items = append(q.items, r) }

func (q *queue) pop() (Request, bool) {
	if q.head == len(q.items) {
		return Request{}, false
	}
	r := q.items[q.head]
	q.items[q.head] = Request{}
	q.head++
	if q.head == len(q.items) {
		q.items, q.head = q.items[:0], 0
	}
	return r, true
}

func (q *queue) len() int { return len(q.items) - q.head }
