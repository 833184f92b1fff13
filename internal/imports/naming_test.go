package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"Sales Q1.csv", "sales_q1"},
		{"sales.csv", "sales"},
		{"salesQ1.parquet", "sales_q1"},
		{"HTTPServerLogs.arrow", "http_server_logs"},
		{"my-data_file.v2.csv", "my_data_file"},
		{"Été Données.csv", "ete_donnees"},
		{"2024 report.csv", "t_2024_report"},
		{"  --weird!!name--.csv", "weird_name"},
		{"data/nested/Orders.csv", "orders"},
		{".csv", "table"},
		{"", "table"},
		{"***.csv", "table"},
		{"orders.csv.gz", "orders"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, TableName(tt.filename))
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		ok          bool
		ext         string
		compression Compression
	}{
		{"a.csv", true, ".csv", CompressionNone},
		{"A.CSV", true, ".csv", CompressionNone},
		{"a.parquet", true, ".parquet", CompressionNone},
		{"a.arrow", true, ".arrow", CompressionNone},
		{"a.csv.gz", true, ".csv.gz", CompressionGzip},
		{"a.csv.zst", true, ".csv.zst", CompressionZstd},
		{"a.csv.xz", true, ".csv.xz", CompressionXZ},
		{"a.xlsx", true, ".xlsx", CompressionNone},
		{"a.json", false, "", CompressionNone},
		{"a.gz", false, "", CompressionNone},
		{"csv", false, "", CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft, ok := Detect(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ext, ft.Ext)
			assert.Equal(t, tt.compression, ft.Compression)
		})
	}
}

func TestAcceptAttr(t *testing.T) {
	assert.Equal(t, ".csv,.parquet,.arrow,.csv.gz,.csv.zst,.csv.xz,.xlsx", AcceptAttr())
}
