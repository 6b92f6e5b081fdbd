package filters

import (
	"fmt"
	"strings"
)

var (
	truthyTokens = map[string]struct{}{"1": {}, "true": {}, "yes": {}, "ja": {}, "waar": {}, "y": {}}
	falsyTokens  = map[string]struct{}{"0": {}, "false": {}, "nee": {}, "no": {}, "n": {}}
)

// ParseLooseBool coerces URL parameters and loosely typed data source
// columns to a bool. A missing value (nil) is false. Any present value that
// is not a recognised false token counts as true, including the empty string.
func ParseLooseBool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case *bool:
		return v != nil && *v
	case string:
		return parseLooseToken(v)
	case *string:
		return v != nil && parseLooseToken(*v)
	case []string:
		if len(v) == 0 {
			return false
		}
		return parseLooseToken(v[0])
	case int:
		return v != 0
	case int16:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	default:
		return parseLooseToken(fmt.Sprint(v))
	}
}

func parseLooseToken(raw string) bool {
	token := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := truthyTokens[token]; ok {
		return true
	}
	if _, ok := falsyTokens[token]; ok {
		return false
	}
	return true
}
