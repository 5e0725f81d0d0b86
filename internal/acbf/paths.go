package acbf

import (
	"strings"

	"github.com/beevik/etree"
)

// findPath walks a slash-separated path below root without creating
// anything, returning nil when any segment is missing.
func findPath(root *etree.Element, path string) *etree.Element {
	cur := root
	for _, seg := range strings.Split(path, "/") {
		if cur = cur.SelectElement(seg); cur == nil {
			return nil
		}
	}
	return cur
}

// resolveOrCreate walks the same way but creates any segment that does not
// exist yet, and returns the leaf. Repeated calls with the same path
// return the same element; ancestors are never duplicated.
func resolveOrCreate(root *etree.Element, path string) *etree.Element {
	cur := root
	for _, seg := range strings.Split(path, "/") {
		next := cur.SelectElement(seg)
		if next == nil {
			next = cur.CreateElement(seg)
		}
		cur = next
	}
	return cur
}
