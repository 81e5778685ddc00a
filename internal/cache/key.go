package cache

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key identifies a cached result by query shape and parameter values.
type Key struct {
	Shape string
	Args  []string
}

// NewKey builds a key, rendering each argument canonically.
// Strings are quoted, integers and booleans printed, times rendered as epoch
// seconds. Other types are quoted in their %v form.
func NewKey(shape string, args ...any) Key {
	k := Key{Shape: shape, Args: make([]string, len(args))}
	for i, a := range args {
		k.Args[i] = canonical(a)
	}
	return k
}

// String renders the key as shape|arg|arg, with string arguments quoted.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Shape)
	for _, a := range k.Args {
		b.WriteByte('|')
		b.WriteString(a)
	}
	return b.String()
}

func canonical(a any) string {
	switch v := a.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return strconv.FormatInt(v.Unix(), 10)
	case []string:
		parts := make([]string, len(v))
		for i, s := range v {
			parts[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return strconv.Quote(fmt.Sprint(v))
	}
}
