package engine

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapbench/internal/adapter"
	"github.com/leapstack-labs/leapbench/internal/imports"
	"github.com/leapstack-labs/leapbench/internal/notifier"
	"github.com/leapstack-labs/leapbench/internal/results"
	"github.com/leapstack-labs/leapbench/internal/testutil"
)

// fakeDB answers every query with a one-row table holding the SQL text.
// Queries listed in gates block until the gate closes or ctx ends.
type fakeDB struct {
	mu       sync.Mutex
	gates    map[string]chan struct{}
	started  chan string
	inserted []string
	failSQL  map[string]error
	closed   bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		gates:   map[string]chan struct{}{},
		started: make(chan string, 16),
		failSQL: map[string]error{},
	}
}

func (f *fakeDB) Connect(context.Context, adapter.Config) error { return nil }
func (f *fakeDB) Close() error                                  { f.closed = true; return nil }
func (f *fakeDB) Exec(context.Context, string) error            { return nil }
func (f *fakeDB) DB() *sql.DB                                   { return nil }
func (f *fakeDB) Path() string                                  { return adapter.MemoryPath }
func (f *fakeDB) IsConnected() bool                             { return true }

func (f *fakeDB) Query(ctx context.Context, sqlStr string) (arrow.Table, error) {
	f.started <- sqlStr

	f.mu.Lock()
	gate := f.gates[sqlStr]
	err := f.failSQL[sqlStr]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return labelTable(sqlStr), nil
}

func (f *fakeDB) Insert(_ context.Context, table string, _ adapter.Source) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, table)
	return nil
}

func (f *fakeDB) Tables(context.Context) ([]adapter.TableInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]adapter.TableInfo, len(f.inserted))
	for i, name := range f.inserted {
		out[i] = adapter.TableInfo{Name: name}
	}
	return out, nil
}

func labelTable(label string) arrow.Table {
	schema := arrow.NewSchema([]arrow.Field{{Name: "label", Type: arrow.BinaryTypes.String}}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).Append(label)
	rec := b.NewRecord()
	defer rec.Release()
	return array.NewTableFromRecords(schema, []arrow.Record{rec})
}

func currentLabel(t *testing.T, store *results.Store) string {
	t.Helper()
	r, ok := store.Current()
	require.True(t, ok, "store is empty")
	defer r.Release()
	return r.Table.Column(0).Data().Chunk(0).(*array.String).Value(0)
}

func openFake(t *testing.T, cfg Config) (*Engine, *fakeDB) {
	t.Helper()
	db := newFakeDB()
	cfg.Database = db
	if cfg.Logger == nil {
		cfg.Logger = testutil.NewTestLogger(t)
	}
	eng := New(cfg)
	require.NoError(t, eng.Open(context.Background()))
	t.Cleanup(func() { _ = eng.Close() })
	return eng, db
}

func TestEngine_Execute(t *testing.T) {
	eng, _ := openFake(t, Config{})

	res, err := eng.Execute(context.Background(), "SELECT 'a'")
	require.NoError(t, err)
	defer res.Release()

	assert.Equal(t, "SELECT 'a'", res.SQL)
	assert.Equal(t, int64(1), res.Rows())
	assert.NotZero(t, res.Seq)
	assert.Equal(t, "SELECT 'a'", currentLabel(t, eng.Results()))
}

func TestEngine_ExecuteEmpty(t *testing.T) {
	eng, _ := openFake(t, Config{})

	_, err := eng.Execute(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestEngine_ExecuteErrorLeavesStoreUntouched(t *testing.T) {
	eng, db := openFake(t, Config{})
	db.failSQL["bad"] = errors.New("Parser Error: syntax error at or near \"bad\"")

	first, err := eng.Execute(context.Background(), "good")
	require.NoError(t, err)
	first.Release()

	_, err = eng.Execute(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Equal(t, "good", currentLabel(t, eng.Results()))
}

func TestEngine_NotConnected(t *testing.T) {
	logger, rec := testutil.NewRecorder()
	eng := New(Config{Database: newFakeDB(), Logger: logger})

	_, err := eng.Execute(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)

	_, err = eng.Import(context.Background(), []imports.File{imports.FromBytes("a.csv", []byte("x\n1\n"))})
	assert.ErrorIs(t, err, adapter.ErrNotConnected)

	_, err = eng.Tables(context.Background())
	assert.ErrorIs(t, err, adapter.ErrNotConnected)

	_, ok := eng.Results().Current()
	assert.False(t, ok)
	assert.Equal(t, 1, rec.Count(slog.LevelWarn, "ignoring query"))
	assert.Equal(t, 1, rec.Count(slog.LevelWarn, "ignoring import"))

	snap, err := eng.Stats(context.Background())
	require.NoError(t, err)
	assert.Contains(t, snap, "runtime")
}

// The first query completes after the second. The second query's result is
// kept and the late first result is returned to its caller only.
func TestEngine_OutOfOrderCompletion(t *testing.T) {
	eng, db := openFake(t, Config{})
	gate := make(chan struct{})
	db.gates["q1"] = gate

	ch := eng.Results().Subscribe()
	defer eng.Results().Unsubscribe(ch)

	var wg sync.WaitGroup
	var late *results.Result
	var lateErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		late, lateErr = eng.Execute(context.Background(), "q1")
	}()
	require.Equal(t, "q1", <-db.started)

	fast, err := eng.Execute(context.Background(), "q2")
	require.NoError(t, err)
	defer fast.Release()
	<-ch

	close(gate)
	wg.Wait()
	require.NoError(t, lateErr)
	defer late.Release()

	assert.Equal(t, "q2", currentLabel(t, eng.Results()))
	assert.Equal(t, "q1", late.SQL)
	assert.Zero(t, late.Seq)
	assert.Equal(t, int64(1), late.Rows())
}

func TestEngine_QueryTimeout(t *testing.T) {
	eng, db := openFake(t, Config{QueryTimeout: 20 * time.Millisecond})
	db.gates["slow"] = make(chan struct{})

	_, err := eng.Execute(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, ok := eng.Results().Current()
	assert.False(t, ok)
}

func TestEngine_Import(t *testing.T) {
	n := notifier.New()
	eng, db := openFake(t, Config{Notifier: n, Import: imports.Config{SpoolDir: t.TempDir()}})

	ch := n.Subscribe(notifier.TopicTables)
	defer n.Unsubscribe(ch)

	outcomes, err := eng.Import(context.Background(), []imports.File{
		imports.FromBytes("Sales Q1.csv", []byte("region,amount\nnorth,1\n")),
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, imports.StatusImported, outcomes[0].Status)
	assert.Equal(t, []string{"sales_q1"}, db.inserted)

	select {
	case <-ch:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("tables topic was not published")
	}

	tables, err := eng.Tables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "sales_q1", tables[0].Name)
}

func TestEngine_OpenIsIdempotent(t *testing.T) {
	eng, _ := openFake(t, Config{})
	assert.NoError(t, eng.Open(context.Background()))
	assert.True(t, eng.IsConnected())
}

func TestEngine_Close(t *testing.T) {
	db := newFakeDB()
	eng := New(Config{Database: db})
	require.NoError(t, eng.Open(context.Background()))

	res, err := eng.Execute(context.Background(), "q")
	require.NoError(t, err)
	res.Release()

	require.NoError(t, eng.Close())
	assert.True(t, db.closed)
	assert.False(t, eng.IsConnected())
	_, ok := eng.Results().Current()
	assert.False(t, ok)
}
