// Package notifier fans out change pings to long-lived listeners such as
// SSE streams and the terminal UI.
package notifier

import "sync"

// Topic names the kind of state that changed.
type Topic string

// Topics published by the workbench.
const (
	TopicResults Topic = "results"
	TopicTables  Topic = "tables"
	TopicStats   Topic = "stats"
)

type listener struct {
	ch     chan Topic
	topics map[Topic]struct{}
}

// Notifier broadcasts topic pings to subscribed listeners.
// Listeners receive the topic that changed and should re-read the owning
// store; payloads are never carried.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Topic]*listener
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Topic]*listener),
	}
}

// Subscribe returns a channel that receives pings for the given topics.
// With no topics the listener receives every ping.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe(topics ...Topic) chan Topic {
	l := &listener{ch: make(chan Topic, 1)}
	if len(topics) > 0 {
		l.topics = make(map[Topic]struct{}, len(topics))
		for _, t := range topics {
			l.topics[t] = struct{}{}
		}
	}

	n.mu.Lock()
	n.listeners[l.ch] = l
	n.mu.Unlock()
	return l.ch
}

// Unsubscribe removes a listener channel and closes it. Unknown channels are ignored.
func (n *Notifier) Unsubscribe(ch chan Topic) {
	n.mu.Lock()
	_, ok := n.listeners[ch]
	delete(n.listeners, ch)
	n.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Broadcast sends a ping for topic to every interested listener.
// Non-blocking: a listener with a pending ping is skipped.
func (n *Notifier) Broadcast(topic Topic) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, l := range n.listeners {
		if l.topics != nil {
			if _, ok := l.topics[topic]; !ok {
				continue
			}
		}
		select {
		case ch <- topic:
		default:
		}
	}
}

// Len reports the number of active listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
