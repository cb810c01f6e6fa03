package tag

import (
	"sort"
	"strings"
)

// Allowed categories for the domain tag shape. The set is deliberately
// closed: a release under a new category requires a change here, not a
// convention.
const (
	CategoryProduct  = "product"
	CategoryPlatform = "platform"
	CategoryData     = "data"
	CategoryInfra    = "infra"

	// CategorySandbox is only admitted when debug mode is active, so
	// pipeline changes can be rehearsed without polluting real categories.
	CategorySandbox = "sandbox"
)

var categories = map[string]struct{}{
	CategoryProduct:  {},
	CategoryPlatform: {},
	CategoryData:     {},
	CategoryInfra:    {},
}

// categoryAllowed reports whether name is an accepted category. Debug mode
// additionally admits CategorySandbox.
func categoryAllowed(name string, debug bool) bool {
	if _, ok := categories[name]; ok {
		return true
	}
	return debug && name == CategorySandbox
}

// categoryList returns the allowed categories for error messages, sorted,
// including the sandbox category when debug mode is active.
func categoryList(debug bool) string {
	names := make([]string, 0, len(categories)+1)
	for name := range categories {
		names = append(names, name)
	}
	if debug {
		names = append(names, CategorySandbox)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
