package ranker

import (
	"container/heap"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/matcher"
)

// topK returns the k best matches in rank order using a bounded max-heap,
// so a large match set is never fully sorted to show a short list.
func topK(matches []matcher.Match, k int) []matcher.Match {
	h := &matchHeap{}
	heap.Init(h)
	for _, m := range matches {
		heap.Push(h, m)
		if h.Len() > k {
			heap.Pop(h)
		}
	}
	result := make([]matcher.Match, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(matcher.Match)
	}
	return result
}

// matchHeap keeps the worst-ranked match on top.
type matchHeap []matcher.Match

func (h matchHeap) Len() int { return len(h) }

func (h matchHeap) Less(i, j int) bool { return less(h[j], h[i]) }

func (h matchHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *matchHeap) Push(x interface{}) {
	*h = append(*h, x.(matcher.Match))
}

func (h *matchHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
