// Package grid adapts Arrow tables to a spreadsheet-style cell model.
//
// It owns three concerns: mapping Arrow types to a small set of logical
// kinds, formatting raw values for display, and describing columns and
// cells for the surfaces that render them (web, terminal and CLI).
package grid

import "github.com/apache/arrow-go/v18/arrow"

// Kind is the logical type of a column as far as display is concerned.
type Kind int

// Logical kinds.
const (
	KindUnknown Kind = iota
	KindNull
	KindText
	KindInteger
	KindFloat
	KindDecimal
	KindBoolean
	KindDate
	KindTime
	KindTimestamp
	KindInterval
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindNull:      "null",
	KindText:      "text",
	KindInteger:   "integer",
	KindFloat:     "float",
	KindDecimal:   "decimal",
	KindBoolean:   "boolean",
	KindDate:      "date",
	KindTime:      "time",
	KindTimestamp: "timestamp",
	KindInterval:  "interval",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsNumeric reports whether values of this kind get number formatting.
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindFloat || k == KindDecimal
}

// LogicalType is a Kind plus the decimal parameters when Kind is KindDecimal.
type LogicalType struct {
	Kind      Kind
	Precision int32
	Scale     int32
}

func (t LogicalType) String() string {
	return t.Kind.String()
}

// LogicalTypeOf maps an Arrow data type to its logical type.
// Unmapped types become KindUnknown.
func LogicalTypeOf(dt arrow.DataType) LogicalType {
	if dt == nil {
		return LogicalType{Kind: KindUnknown}
	}
	if d, ok := dt.(arrow.DecimalType); ok {
		return LogicalType{Kind: KindDecimal, Precision: d.GetPrecision(), Scale: d.GetScale()}
	}

	switch dt.ID() {
	case arrow.NULL:
		return LogicalType{Kind: KindNull}
	case arrow.STRING, arrow.LARGE_STRING, arrow.STRING_VIEW:
		return LogicalType{Kind: KindText}
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return LogicalType{Kind: KindInteger}
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return LogicalType{Kind: KindFloat}
	case arrow.BOOL:
		return LogicalType{Kind: KindBoolean}
	case arrow.DATE32, arrow.DATE64:
		return LogicalType{Kind: KindDate}
	case arrow.TIME32, arrow.TIME64:
		return LogicalType{Kind: KindTime}
	case arrow.TIMESTAMP:
		return LogicalType{Kind: KindTimestamp}
	case arrow.INTERVAL_MONTHS, arrow.INTERVAL_DAY_TIME, arrow.INTERVAL_MONTH_DAY_NANO, arrow.DURATION:
		return LogicalType{Kind: KindInterval}
	default:
		return LogicalType{Kind: KindUnknown}
	}
}
