package expr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wbrown/tablexpr"
	"github.com/wbrown/tablexpr/codec"
)

// falseTokens is the exact case-insensitive, trimmed token set that
// coerces a string to boolean false; every other string is true.
var falseTokens = map[string]bool{
	"false": true, "f": true, "no": true, "n": true, "none": true,
	"0": true, "[]": true, "{}": true, "": true,
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"20060102",
}

// ConvertValue coerces one native RHS value to the wire form declared
// by q's Kind. A category meta overrides Kind entirely: the value is
// bisected against q.Metadata and the wire kind becomes integer.
func ConvertValue(v any, q *tablexpr.Queryable, encoding *string) (tablexpr.TermValue, error) {
	if q != nil && q.Meta == tablexpr.MetaCategory {
		return tablexpr.TermValue{Value: v, Converted: categoryIndex(v, q.Metadata), Kind: tablexpr.KindInteger}, nil
	}

	kind := tablexpr.KindUnknown
	if q != nil {
		kind = q.Kind
	}

	switch kind {
	case tablexpr.KindDatetime, tablexpr.KindDatetime64:
		t, err := parseTimestamp(v)
		if err != nil {
			return tablexpr.TermValue{}, err
		}
		return tablexpr.TermValue{Value: v, Converted: t.UTC().UnixNano(), Kind: kind}, nil
	case tablexpr.KindDate:
		t, err := parseTimestamp(v)
		if err != nil {
			return tablexpr.TermValue{}, err
		}
		return tablexpr.TermValue{Value: v, Converted: t.UTC().Unix(), Kind: kind}, nil
	case tablexpr.KindTimedelta, tablexpr.KindTimedelta64:
		d, err := parseDuration(v)
		if err != nil {
			return tablexpr.TermValue{}, err
		}
		return tablexpr.TermValue{Value: v, Converted: d.Nanoseconds(), Kind: kind}, nil
	case tablexpr.KindInteger:
		i, err := toInt64(v)
		if err != nil {
			return tablexpr.TermValue{}, err
		}
		return tablexpr.TermValue{Value: v, Converted: i, Kind: kind}, nil
	case tablexpr.KindFloat:
		f, err := toFloat64(v)
		if err != nil {
			return tablexpr.TermValue{}, err
		}
		return tablexpr.TermValue{Value: v, Converted: f, Kind: kind}, nil
	case tablexpr.KindBool:
		return tablexpr.TermValue{Value: v, Converted: toBool(v), Kind: kind}, nil
	case tablexpr.KindString:
		return tablexpr.TermValue{Value: v, Converted: stringify(v, encoding), Kind: kind}, nil
	default:
		if s, ok := v.(string); ok {
			return tablexpr.NewTermValue(s, tablexpr.KindString), nil
		}
		return tablexpr.NewTermValue(stringify(v, nil), tablexpr.KindString), nil
	}
}

func parseTimestamp(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case int64:
		return parseTimestamp(strconv.FormatInt(x, 10))
	case float64:
		return parseTimestamp(strconv.FormatFloat(x, 'f', -1, 64))
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: cannot parse timestamp %q", ErrInvalidQueryTerm, s)
	default:
		return time.Time{}, fmt.Errorf("%w: cannot parse timestamp from %T", ErrInvalidQueryTerm, v)
	}
}

func parseDuration(v any) (time.Duration, error) {
	switch x := v.(type) {
	case time.Duration:
		return x, nil
	case int64:
		return time.Duration(x) * time.Second, nil
	case float64:
		return time.Duration(x * float64(time.Second)), nil
	case string:
		s := strings.TrimSpace(x)
		if d, err := time.ParseDuration(s); err == nil {
			return d, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(f * float64(time.Second)), nil
		}
		return 0, fmt.Errorf("%w: cannot parse duration %q", ErrInvalidQueryTerm, s)
	default:
		return 0, fmt.Errorf("%w: cannot parse duration from %T", ErrInvalidQueryTerm, v)
	}
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: cannot parse integer %q", ErrInvalidQueryTerm, x)
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("%w: cannot parse integer from %T", ErrInvalidQueryTerm, v)
	}
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: cannot parse float %q", ErrInvalidQueryTerm, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: cannot parse float from %T", ErrInvalidQueryTerm, v)
	}
}

func toBool(v any) bool {
	if s, ok := v.(string); ok {
		return !falseTokens[strings.ToLower(strings.TrimSpace(s))]
	}
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case int:
		return x != 0
	case float64:
		return x != 0
	case nil:
		return false
	default:
		return true
	}
}

func stringify(v any, encoding *string) string {
	s := fmt.Sprintf("%v", v)
	if encoding != nil {
		return codec.Encode([]byte(s))
	}
	return s
}

// categoryIndex returns the bisect-left index of v within the ordered
// metadata slice, compared via tablexpr.CompareValues so members can be
// any comparable wire kind, not just strings.
func categoryIndex(v any, metadata []any) int {
	return sort.Search(len(metadata), func(i int) bool {
		return tablexpr.CompareValues(metadata[i], v) >= 0
	})
}
