package grid

import (
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapbench/internal/testutil"
)

var (
	integerType = LogicalType{Kind: KindInteger}
	floatType   = LogicalType{Kind: KindFloat}
	dateType    = LogicalType{Kind: KindDate}
	textType    = LogicalType{Kind: KindText}
)

func decimalType(scale int32) LogicalType {
	return LogicalType{Kind: KindDecimal, Precision: 18, Scale: scale}
}

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter()
	march15 := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		typ   LogicalType
		want  string
	}{
		{"integer one", int64(1), integerType, "1.00"},
		{"integer grouping", int64(1234567), integerType, "1,234,567.00"},
		{"integer zero", int64(0), integerType, "0"},
		{"float zero", 0.0, floatType, "0"},
		{"negative float", -1234.5, floatType, "-1,234.50"},
		{"float rounds to two digits", 3.14159, floatType, "3.14"},
		{"unsigned", uint64(42), integerType, "42.00"},
		{"numeric string", "42", integerType, "42.00"},
		{"non numeric string", "n/a", integerType, "n/a"},
		{"nan", math.NaN(), floatType, "NaN"},
		{"decimal int raw", int64(12345), decimalType(2), "123.45"},
		{"decimal128 raw", decimal128.FromI64(12345), decimalType(2), "123.45"},
		{"decimal zero", decimal128.FromI64(0), decimalType(2), "0"},
		{"decimal big int", big.NewInt(100000), decimalType(3), "100.00"},
		{"date32", arrow.Date32FromTime(march15), dateType, "2024-03-15"},
		{"date time.Time", march15.Add(13 * time.Hour), dateType, "2024-03-15"},
		{"date epoch millis", int64(1710460800000), dateType, "2024-03-15"},
		{"date string", "2024-03-15T10:00:00Z", dateType, "2024-03-15"},
		{"text", "hello", textType, "hello"},
		{"bytes", []byte("raw"), textType, "raw"},
		{"boolean", true, LogicalType{Kind: KindBoolean}, "true"},
		{"unknown kind", 7, LogicalType{Kind: KindUnknown}, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.value, tt.typ))
		})
	}
}

func TestFormatter_MissingValues(t *testing.T) {
	f := NewFormatter()
	kinds := []Kind{KindNull, KindText, KindInteger, KindFloat, KindDecimal, KindBoolean, KindDate, KindTime, KindTimestamp, KindInterval, KindUnknown}

	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			typ := LogicalType{Kind: k, Scale: 2}
			assert.Equal(t, "", f.Format(nil, typ))
			assert.Equal(t, "", f.Format("", typ))
		})
	}
}

func TestFormatter_Idempotent(t *testing.T) {
	f := NewFormatter()
	values := []any{int64(0), int64(1), int64(-7), int64(1234567), 0.5, 99.99, 1e9}

	for _, v := range values {
		t.Run(fmt.Sprint(v), func(t *testing.T) {
			once := f.Format(v, floatType)
			assert.Equal(t, once, f.Format(once, floatType))
		})
	}
}

func TestFormatter_DecimalMatchesScaledNumber(t *testing.T) {
	f := NewFormatter()
	raws := []int64{1, 100, 12345, -987654, 5000000}
	scales := []int32{0, 1, 2, 4}

	for _, raw := range raws {
		for _, s := range scales {
			t.Run(fmt.Sprintf("%d_scale_%d", raw, s), func(t *testing.T) {
				want := f.Format(float64(raw)/math.Pow10(int(s)), floatType)
				assert.Equal(t, want, f.Format(raw, decimalType(s)))
				assert.Equal(t, want, f.Format(decimal128.FromI64(raw), decimalType(s)))
			})
		}
	}
}

func TestFormatter_InvalidDate(t *testing.T) {
	logger, rec := testutil.NewRecorder()
	f := NewFormatter(WithFormatterLogger(logger))

	assert.NotPanics(t, func() {
		assert.Equal(t, "not a date", f.Format("not a date", dateType))
		assert.Equal(t, "{}", f.Format(struct{}{}, dateType))
	})
	assert.Equal(t, 2, rec.Count(slog.LevelWarn, "failed to parse date"))
}

func TestFormatter_Locale(t *testing.T) {
	f := NewFormatter(WithLocale(language.German))

	assert.Equal(t, language.German, f.Locale())
	assert.Equal(t, "1.234,50", f.Format(1234.5, floatType))
	assert.Equal(t, "0", f.Format(0, floatType))
}
