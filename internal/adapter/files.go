package adapter

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/xuri/excelize/v2"
)

// openIPC reads an Arrow IPC file, falling back to the streaming format.
// The whole file is loaded so the returned reader does not hold it open.
func openIPC(path string) (array.RecordReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open arrow file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if fr, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.DefaultAllocator)); err == nil {
		defer func() { _ = fr.Close() }()

		recs := make([]arrow.Record, 0, fr.NumRecords())
		for i := 0; i < fr.NumRecords(); i++ {
			rec, err := fr.Record(i)
			if err != nil {
				releaseAll(recs)
				return nil, fmt.Errorf("failed to read arrow record %d: %w", i, err)
			}
			rec.Retain()
			recs = append(recs, rec)
		}
		return recordReader(fr.Schema(), recs)
	}

	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind arrow file: %w", err)
	}
	sr, err := ipc.NewReader(f, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, fmt.Errorf("failed to read arrow file: %w", err)
	}
	defer sr.Release()

	var recs []arrow.Record
	for sr.Next() {
		rec := sr.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := sr.Err(); err != nil {
		releaseAll(recs)
		return nil, fmt.Errorf("failed to read arrow stream: %w", err)
	}
	return recordReader(sr.Schema(), recs)
}

// readSpreadsheet loads the first sheet of an xlsx workbook. The first row is
// the header; every column is text and DuckDB casts on demand.
func readSpreadsheet(path string) (array.RecordReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := headerNames(rows[0])
	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	for _, row := range rows[1:] {
		for i := range header {
			sb := b.Field(i).(*array.StringBuilder)
			if i < len(row) && row[i] != "" {
				sb.Append(row[i])
			} else {
				sb.AppendNull()
			}
		}
	}

	rec := b.NewRecord()
	return recordReader(schema, []arrow.Record{rec})
}

// headerNames fills blanks and de-duplicates spreadsheet column names.
func headerNames(row []string) []string {
	seen := make(map[string]bool, len(row))
	names := make([]string, len(row))
	for i, name := range row {
		name = strings.TrimSpace(name)
		if name == "" {
			name = "column" + strconv.Itoa(i+1)
		}
		if seen[name] {
			base := name
			for n := 2; seen[name]; n++ {
				name = base + "_" + strconv.Itoa(n)
			}
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

// recordReader wraps owned records in a reader and drops the local references.
func recordReader(schema *arrow.Schema, recs []arrow.Record) (array.RecordReader, error) {
	defer releaseAll(recs)
	rdr, err := array.NewRecordReader(schema, recs)
	if err != nil {
		return nil, fmt.Errorf("failed to build record reader: %w", err)
	}
	return rdr, nil
}

func releaseAll(recs []arrow.Record) {
	for _, rec := range recs {
		rec.Release()
	}
}
