package core

import (
	"strings"

	"golang.org/x/text/cases"
)

var tagFolder = cases.Fold()

// MatchTag tests if a document tag satisfies a searched tag.
// Tags are hierarchical: searching "project" matches "project" and "project/alpha" (not the reverse).
// The comparison is case-insensitive and ignores the leading #.
func MatchTag(documentTag, searchedTag string) bool {
	documentTag = normalizeTag(documentTag)
	searchedTag = normalizeTag(searchedTag)
	if documentTag == "" || searchedTag == "" {
		return false
	}
	return documentTag == searchedTag || strings.HasPrefix(documentTag, searchedTag+"/")
}

func normalizeTag(tag string) string {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	tag = strings.Trim(tag, "/")
	return tagFolder.String(tag)
}

// FindByTag returns the documents having a tag matching the searched tag, in index order.
func FindByTag(cache MetadataCache, tag string) []string {
	var results []string
	for _, document := range cache.Documents() {
		for _, documentTag := range cache.TagsOf(document) {
			if MatchTag(documentTag, tag) {
				results = append(results, document)
				break
			}
		}
	}
	return results
}
