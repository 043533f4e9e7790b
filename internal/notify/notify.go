// Package notify delivers in-process change notifications. Topics are
// resource paths; the store publishes after every committed mutation and
// observers re-query to refresh, so notifications carry no payload beyond the
// topic itself.
package notify

import "sync"

// Notifier is a topic-keyed fan-out. Publishing never blocks: a subscriber
// that is not draining its channel misses the signal, which is safe because
// subscribers always re-query the latest committed state.
type Notifier struct {
	mu   sync.Mutex
	subs map[string]map[int]chan string
	next int
}

func New() *Notifier {
	return &Notifier{subs: make(map[string]map[int]chan string)}
}

// Subscribe registers for changes on topic. The returned cancel func must be
// called to release the subscription; the channel is closed by cancel.
func (n *Notifier) Subscribe(topic string) (<-chan string, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan string, 8)
	id := n.next
	n.next++

	if n.subs[topic] == nil {
		n.subs[topic] = make(map[int]chan string)
	}
	n.subs[topic][id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if subs, ok := n.subs[topic]; ok {
			if c, ok := subs[id]; ok {
				delete(subs, id)
				close(c)
			}
			if len(subs) == 0 {
				delete(n.subs, topic)
			}
		}
	}

	return ch, cancel
}

// Publish signals every subscriber of topic. Slow subscribers are skipped.
func (n *Notifier) Publish(topic string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs[topic] {
		select {
		case ch <- topic:
		default:
		}
	}
}
