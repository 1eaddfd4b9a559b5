// Package order computes the emission order of body files.
//
// Body files are emitted in lexicographic order of their base names, except
// for a priority list that is moved to the front in the given order. Some body
// files define static tables used by files that sort before them; forward
// declarations across those files are not an option, so the definition order
// is controlled here instead. The order must stay stable across unrelated
// edits so that patches against the merged file keep applying.
package order

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownPriority is returned when a priority name is not among the body files.
var ErrUnknownPriority = errors.New("priority file not found")

// DefaultPriority is the priority list for the Duktape source tree.
var DefaultPriority = []string{
	"duk_strings.c",
	"duk_debug_macros.c",
	"duk_builtins.c",
	"duk_error_macros.c",
	"duk_unicode_support.c",
	"duk_util_misc.c",
	"duk_util_hashprime.c",
	"duk_hobject_class.c",
}

// Apply returns names sorted lexicographically with the priority names moved
// to the front, in priority order. names is not modified.
func Apply(names, priority []string) ([]string, error) {
	out := slices.Clone(names)
	slices.Sort(out)

	// в обратном порядке, каждое имя в начало
	for i := len(priority) - 1; i >= 0; i-- {
		name := priority[i]
		idx := slices.Index(out, name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPriority, name)
		}
		out = slices.Delete(out, idx, idx+1)
		out = slices.Insert(out, 0, name)
	}
	return out, nil
}
