package results

import (
	"sync"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapbench/internal/notifier"
	"github.com/leapstack-labs/leapbench/internal/testutil"
)

// labelTable returns a one-row table whose single cell is label.
func labelTable(t *testing.T, label string) arrow.Table {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{{Name: "label", Type: arrow.BinaryTypes.String}}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).Append(label)
	rec := b.NewRecord()
	defer rec.Release()
	return array.NewTableFromRecords(schema, []arrow.Record{rec})
}

func labelOf(t *testing.T, r *Result) string {
	t.Helper()
	require.NotNil(t, r)
	require.NotNil(t, r.Table)
	col := r.Table.Column(0).Data().Chunk(0).(*array.String)
	return col.Value(0)
}

func TestStore_Empty(t *testing.T) {
	s := New()

	r, ok := s.Current()
	assert.False(t, ok)
	assert.Nil(t, r)
}

func TestStore_Replace(t *testing.T) {
	s := New(WithLogger(testutil.NewTestLogger(t)))

	s.Replace(NewResult("SELECT 'a'", labelTable(t, "a"), time.Millisecond))
	s.Replace(NewResult("SELECT 'b'", labelTable(t, "b"), time.Millisecond))

	r, ok := s.Current()
	require.True(t, ok)
	defer r.Release()

	assert.Equal(t, "b", labelOf(t, r))
	assert.Equal(t, "SELECT 'b'", r.SQL)
	assert.Equal(t, int64(1), r.Rows())
}

func TestStore_CurrentSurvivesReplace(t *testing.T) {
	s := New()
	s.Replace(NewResult("q1", labelTable(t, "first"), 0))

	held, ok := s.Current()
	require.True(t, ok)
	defer held.Release()

	s.Replace(NewResult("q2", labelTable(t, "second"), 0))

	// the reader's retained copy is still readable after the store moved on
	assert.Equal(t, "first", labelOf(t, held))
}

func TestStore_Clear(t *testing.T) {
	s := New()
	s.Replace(NewResult("q", labelTable(t, "x"), 0))
	s.Clear()

	_, ok := s.Current()
	assert.False(t, ok)
}

// Two queries where the earlier one completes last. Plain Replace keeps
// whichever completion arrived last.
func TestStore_Replace_LastCompletedWins(t *testing.T) {
	s := New()

	newer := NewResult("q2", labelTable(t, "newer"), 0)
	older := NewResult("q1", labelTable(t, "older"), 0)

	s.Replace(newer)
	s.Replace(older)

	r, ok := s.Current()
	require.True(t, ok)
	defer r.Release()
	assert.Equal(t, "older", labelOf(t, r))
}

// Same race through tickets: the late completion of the first query is
// discarded and the second query's result is kept.
func TestStore_Commit_LastSubmittedWins(t *testing.T) {
	s := New()

	t1 := s.Begin()
	t2 := s.Begin()
	assert.Less(t, t1.Seq(), t2.Seq())

	assert.True(t, s.Commit(t2, NewResult("q2", labelTable(t, "newer"), 0)))
	assert.False(t, s.Commit(t1, NewResult("q1", labelTable(t, "older"), 0)))

	r, ok := s.Current()
	require.True(t, ok)
	defer r.Release()
	assert.Equal(t, "newer", labelOf(t, r))
	assert.Equal(t, t2.Seq(), r.Seq)
}

func TestStore_Commit_InOrder(t *testing.T) {
	s := New()

	t1 := s.Begin()
	t2 := s.Begin()
	assert.True(t, s.Commit(t1, NewResult("q1", labelTable(t, "one"), 0)))
	assert.True(t, s.Commit(t2, NewResult("q2", labelTable(t, "two"), 0)))

	r, ok := s.Current()
	require.True(t, ok)
	defer r.Release()
	assert.Equal(t, "two", labelOf(t, r))
}

func TestStore_Subscribe(t *testing.T) {
	n := notifier.New()
	s := New(WithNotifier(n))

	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	s.Replace(NewResult("q", labelTable(t, "x"), 0))

	select {
	case topic := <-ch:
		assert.Equal(t, notifier.TopicResults, topic)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("subscriber was not notified")
	}

	stale := s.Begin()
	s.Commit(s.Begin(), NewResult("q", labelTable(t, "y"), 0))
	<-ch
	s.Commit(stale, NewResult("q", labelTable(t, "z"), 0))

	select {
	case <-ch:
		t.Fatal("discarded commit must not notify")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestStore_ConcurrentReaders(t *testing.T) {
	s := New()
	s.Replace(NewResult("q", labelTable(t, "start"), 0))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if r, ok := s.Current(); ok {
					_ = r.Table.NumRows()
					r.Release()
				}
			}
		}()
		go func() {
			defer wg.Done()
			tk := s.Begin()
			s.Commit(tk, NewResult("q", labelTable(t, "w"), 0))
		}()
	}
	wg.Wait()

	r, ok := s.Current()
	require.True(t, ok)
	defer r.Release()
	assert.Equal(t, int64(1), r.Rows())
}
