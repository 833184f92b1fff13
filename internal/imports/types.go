package imports

import (
	"strings"

	"github.com/leapstack-labs/leapbench/internal/adapter"
)

// Compression identifies a stream codec wrapped around an accepted file.
type Compression string

// Supported codecs.
const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionXZ   Compression = "xz"
)

// FileType is one accepted upload type.
type FileType struct {
	MIME        string
	Ext         string
	Format      adapter.Format
	Compression Compression
}

// Accepted lists the upload types in display order.
var Accepted = []FileType{
	{MIME: "text/csv", Ext: ".csv", Format: adapter.FormatCSV},
	{MIME: "application/parquet", Ext: ".parquet", Format: adapter.FormatParquet},
	{MIME: "application/arrow", Ext: ".arrow", Format: adapter.FormatArrow},
	{MIME: "application/gzip", Ext: ".csv.gz", Format: adapter.FormatCSV, Compression: CompressionGzip},
	{MIME: "application/zstd", Ext: ".csv.zst", Format: adapter.FormatCSV, Compression: CompressionZstd},
	{MIME: "application/x-xz", Ext: ".csv.xz", Format: adapter.FormatCSV, Compression: CompressionXZ},
	{MIME: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Ext: ".xlsx", Format: adapter.FormatXLSX},
}

// Detect returns the accepted type for a file name, matched on the longest
// extension.
func Detect(filename string) (FileType, bool) {
	name := strings.ToLower(filename)
	var best FileType
	found := false
	for _, ft := range Accepted {
		if strings.HasSuffix(name, ft.Ext) && len(ft.Ext) > len(best.Ext) {
			best = ft
			found = true
		}
	}
	return best, found
}

// AcceptAttr renders the accepted extensions for an HTML file input.
func AcceptAttr() string {
	exts := make([]string, len(Accepted))
	for i, ft := range Accepted {
		exts[i] = ft.Ext
	}
	return strings.Join(exts, ",")
}
