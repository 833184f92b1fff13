package stats

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
)

// byteThreshold is the smallest byte quantity rendered with units.
const byteThreshold = 10

// Entry is one flattened statistic.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Flatten turns nested maps into dotted keys: {"a": {"b": 1}} becomes {"a.b": 1}.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", m)
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch child := v.(type) {
		case map[string]any:
			flattenInto(out, key, child)
		case Snapshot:
			flattenInto(out, key, child)
		default:
			out[key] = v
		}
	}
}

// Entries flattens s and renders every value, sorted by key.
func (s Snapshot) Entries() []Entry {
	flat := Flatten(s)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = Entry{Key: k, Value: FormatValue(flat[k])}
	}
	return entries
}

// FormatValue renders a statistic. Byte quantities above ten get units,
// other integers get digit grouping.
func FormatValue(v any) string {
	switch x := v.(type) {
	case Bytes:
		if x > byteThreshold {
			return humanize.Bytes(uint64(x))
		}
		return fmt.Sprintf("%d", int64(x))
	case int:
		return humanize.Comma(int64(x))
	case int64:
		return humanize.Comma(x)
	case float64:
		return humanize.Commaf(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
