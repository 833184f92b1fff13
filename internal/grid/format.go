package grid

import (
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/decimal256"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// fractionDigits is the fixed number of fraction digits for numeric display.
const fractionDigits = 2

// dateLayouts are tried in order when a date arrives as a string.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.DateTime,
	time.DateOnly,
	"2006/01/02",
}

// Formatter renders raw cell values as display strings.
// A Formatter is safe for concurrent use.
type Formatter struct {
	locale  language.Tag
	printer *message.Printer
	logger  *slog.Logger
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithLocale sets the locale used for digit grouping. Defaults to en-US.
func WithLocale(tag language.Tag) FormatterOption {
	return func(f *Formatter) {
		f.locale = tag
	}
}

// WithFormatterLogger sets the logger that receives formatting diagnostics.
func WithFormatterLogger(logger *slog.Logger) FormatterOption {
	return func(f *Formatter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFormatter creates a Formatter.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		locale: language.AmericanEnglish,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.printer = message.NewPrinter(f.locale)
	return f
}

// Locale returns the formatter's locale.
func (f *Formatter) Locale() language.Tag {
	return f.locale
}

// Format renders v according to its logical type. It never fails: values that
// cannot be interpreted fall back to their default string form.
func (f *Formatter) Format(v any, t LogicalType) string {
	if isMissing(v) {
		return ""
	}

	switch t.Kind {
	case KindInteger, KindFloat:
		n, ok := toFloat(v)
		if !ok {
			return defaultString(v)
		}
		return f.number(n)
	case KindDecimal:
		n, ok := decimalToFloat(v, t.Scale)
		if !ok {
			return defaultString(v)
		}
		return f.number(n)
	case KindDate:
		return f.date(v)
	default:
		return defaultString(v)
	}
}

func (f *Formatter) number(n float64) string {
	if n == 0 {
		return "0"
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return f.printer.Sprintf("%v", number.Decimal(n,
		number.MinFractionDigits(fractionDigits),
		number.MaxFractionDigits(fractionDigits),
	))
}

func (f *Formatter) date(v any) string {
	t, ok := toDate(v)
	if !ok {
		s := defaultString(v)
		f.logger.Warn("failed to parse date", "value", s)
		return s
	}
	return t.UTC().Format(time.DateOnly)
}

func isMissing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func defaultString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case *big.Int:
		if x == nil {
			return 0, false
		}
		n, _ := new(big.Float).SetInt(x).Float64()
		return n, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// decimalToFloat interprets v as an unscaled decimal and divides by 10^scale.
// Strings are taken as already-scaled values typed by a user.
func decimalToFloat(v any, scale int32) (float64, bool) {
	switch x := v.(type) {
	case decimal128.Num:
		return x.ToFloat64(scale), true
	case decimal256.Num:
		return x.ToFloat64(scale), true
	case string:
		return toFloat(x)
	}
	n, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return n / math.Pow10(int(scale)), true
}

func toDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case arrow.Date32:
		return x.ToTime(), true
	case arrow.Date64:
		return x.ToTime(), true
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms), true
		}
		return time.Time{}, false
	}

	n, ok := toFloat(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(n)), true
}
