package signature

import (
	"sort"
	"strings"
)

// Policy selects how parameters are turned into the string that gets hashed.
type Policy int

const (
	// PolicyPositional joins a fixed list of fields with no separator and no
	// escaping, then appends the store key. Adjacent fields can shift
	// characters between each other without changing the result; the bank
	// defines the format, so it is kept as is.
	PolicyPositional Policy = iota + 1
	// PolicyHashV3 sorts every parameter by name, escapes values and joins
	// them with pipes ("Hashv3").
	PolicyHashV3
)

func (p Policy) String() string {
	switch p {
	case PolicyPositional:
		return "positional"
	case PolicyHashV3:
		return "hashv3"
	default:
		return "unknown"
	}
}

// Names that never take part in a Hashv3 canonical string.
var hashV3Excluded = map[string]struct{}{
	"hash":     {},
	"encoding": {},
}

func canonicalPositional(params Params, fields []string, storeKey string) string {
	var b strings.Builder
	for _, field := range fields {
		b.WriteString(params.Get(field))
	}
	b.WriteString(storeKey)
	return b.String()
}

func canonicalHashV3(params Params, storeKey string) string {
	items := params.Clone()
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a != b {
			return a < b
		}
		return items[i].Name < items[j].Name
	})

	var b strings.Builder
	for _, item := range items {
		if _, skip := hashV3Excluded[strings.ToLower(item.Name)]; skip {
			continue
		}
		b.WriteString(escapeHashV3(item.Value))
		b.WriteByte('|')
	}
	b.WriteString(escapeHashV3(storeKey))
	return b.String()
}

func escapeHashV3(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `|`, `\|`)
}
