package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe(TopicResults)
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Len())

	// second unsubscribe must not panic on a closed channel
	n.Unsubscribe(ch)
}

func TestNotifier_Broadcast_Topics(t *testing.T) {
	n := New()

	results := n.Subscribe(TopicResults)
	tables := n.Subscribe(TopicTables)
	all := n.Subscribe()
	defer n.Unsubscribe(results)
	defer n.Unsubscribe(tables)
	defer n.Unsubscribe(all)

	n.Broadcast(TopicResults)

	select {
	case got := <-results:
		assert.Equal(t, TopicResults, got)
	case <-time.After(100 * time.Millisecond):
		t.Error("results listener did not receive broadcast")
	}

	select {
	case got := <-all:
		assert.Equal(t, TopicResults, got)
	case <-time.After(100 * time.Millisecond):
		t.Error("catch-all listener did not receive broadcast")
	}

	select {
	case <-tables:
		t.Error("tables listener received a results ping")
	default:
	}
}

func TestNotifier_Broadcast_NonBlocking(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	ch <- TopicStats

	done := make(chan bool)
	go func() {
		n.Broadcast(TopicResults)
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Error("Broadcast blocked on full channel")
	}
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	const numGoroutines = 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe(TopicTables)
			n.Broadcast(TopicTables)
			n.Unsubscribe(ch)
		}()
	}

	wg.Wait()
	assert.Equal(t, 0, n.Len())
}
