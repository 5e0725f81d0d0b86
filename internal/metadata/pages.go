package metadata

import (
	"path"
	"sort"
	"strings"
)

var pageExtensions = NewStringSet(".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp")

// FilterPageNames reduces an archive's entry listing to the image entries
// that count as pages, sorted case-insensitively. Adapters correlate page
// metadata against this list, so every adapter must see the same ordering.
func FilterPageNames(names []string) []string {
	var pages []string
	for _, n := range names {
		ext := strings.ToLower(path.Ext(n))
		if pageExtensions.Has(ext) {
			pages = append(pages, n)
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		return strings.ToLower(pages[i]) < strings.ToLower(pages[j])
	})
	return pages
}
