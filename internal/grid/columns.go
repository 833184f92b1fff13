package grid

import "unicode/utf8"

// Icon identifies the header glyph shown next to a column title.
type Icon string

// Header icons.
const (
	IconString      Icon = "headerString"
	IconNumber      Icon = "headerNumber"
	IconBoolean     Icon = "headerBoolean"
	IconDate        Icon = "headerDate"
	IconTime        Icon = "headerTime"
	IconSingleValue Icon = "headerSingleValue"
	IconDefault     Icon = "headerDefault"
)

// Glyph returns a short text rendering of the icon for text surfaces.
// IconDefault renders as the generic string glyph.
func (i Icon) Glyph() string {
	switch i {
	case IconNumber:
		return "#"
	case IconBoolean:
		return "✓"
	case IconDate:
		return "▦"
	case IconTime:
		return "◷"
	case IconSingleValue:
		return "∅"
	default:
		return "Aa"
	}
}

// IconFor returns the header icon for a logical type.
func IconFor(t LogicalType) Icon {
	switch t.Kind {
	case KindText:
		return IconString
	case KindInteger, KindFloat, KindDecimal:
		return IconNumber
	case KindBoolean:
		return IconBoolean
	case KindDate:
		return IconDate
	case KindTime, KindTimestamp, KindInterval:
		return IconTime
	case KindNull:
		return IconSingleValue
	default:
		return IconDefault
	}
}

// Column describes one visible column.
type Column struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Icon  Icon        `json:"icon"`
	Width int         `json:"width"`
	Type  LogicalType `json:"-"`
	// Index is the position in the filtered view.
	Index int `json:"index"`
}

// Width bounds in pixels.
const (
	minTitleRunes = 6
	maxWidthRunes = 30
	MinWidth      = 10 + 10*minTitleRunes
	MaxWidth      = 10 + 10*maxWidthRunes
)

// WidthHint estimates a column width from a sample display value and the
// column name: 10 + 10*min(30, max(len(sample), max(len(name), 6))).
func WidthHint(sample, name string) int {
	n := max(utf8.RuneCountInString(sample), max(utf8.RuneCountInString(name), minTitleRunes))
	return 10 + 10*min(maxWidthRunes, n)
}
