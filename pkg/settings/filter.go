package settings

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// DefaultExcludes are platform settings bound to the source app's content storage; copying them would make the
// target share the source's file system.
var DefaultExcludes = []string{
	"WEBSITE_CONTENTAZUREFILECONNECTIONSTRING",
	"WEBSITE_CONTENTSHARE",
}

// Filter selects setting names by glob pattern. Names and patterns are compared case-insensitively.
type Filter struct {
	include []string
	exclude []string
}

func NewFilter(include, exclude []string) (Filter, error) {
	f := Filter{
		include: make([]string, 0, len(include)),
		exclude: make([]string, 0, len(exclude)+len(DefaultExcludes)),
	}
	for _, p := range include {
		if _, err := path.Match(p, ""); err != nil {
			return Filter{}, fmt.Errorf("invalid include pattern '%s': %w", p, err)
		}
		f.include = append(f.include, strings.ToUpper(p))
	}
	for _, p := range slices.Concat(DefaultExcludes, exclude) {
		if _, err := path.Match(p, ""); err != nil {
			return Filter{}, fmt.Errorf("invalid exclude pattern '%s': %w", p, err)
		}
		f.exclude = append(f.exclude, strings.ToUpper(p))
	}
	return f, nil
}

func (f Filter) Allows(name string) bool {
	name = strings.ToUpper(name)
	if matchesAny(f.exclude, name) {
		return false
	}
	return len(f.include) == 0 || matchesAny(f.include, name)
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}
