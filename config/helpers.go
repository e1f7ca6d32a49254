package config

import (
	"strings"

	"github.com/samber/lo"
)

// parseList splits a comma separated list, trimming and lowercasing each
// entry and dropping blanks. The result is never nil.
func parseList(raw string) []string {
	items := lo.FilterMap(strings.Split(raw, ","), func(item string, _ int) (string, bool) {
		item = strings.ToLower(strings.TrimSpace(item))
		return item, item != ""
	})
	return lo.Uniq(items)
}

// orDefault returns the trimmed value, or def when it is blank.
func orDefault(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}
