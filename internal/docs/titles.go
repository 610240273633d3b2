package docs

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

const defaultTitle = "Untitled"

// untitledName picks the next free default title given the "Untitled%"
// titles already present in the target folder: no clash yields "Untitled",
// then "Untitled_2", "Untitled_3", choosing the lowest unused suffix.
func untitledName(existing []string) string {
	base := false
	for _, t := range existing {
		if t == defaultTitle {
			base = true
			break
		}
	}
	if !base {
		return defaultTitle
	}

	max := 1
	for _, t := range existing {
		suffix, ok := strings.CutPrefix(t, defaultTitle+"_")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n >= max {
			max = n + 1
		}
	}
	if max == 1 {
		max = 2
	}
	return defaultTitle + "_" + strconv.Itoa(max)
}

// slugify converts a title into a URL-safe slug. Titles that slugify to
// nothing (pure symbols) fall back to "untitled".
func slugify(title string) string {
	s := slug.Make(title)
	if s == "" {
		return "untitled"
	}
	return s
}

// contentPath builds the relative path under the content root for a new
// document. The id suffix keeps paths unique and stable across renames.
func contentPath(titleSlug, folderSlug, id string) string {
	name := titleSlug + "-" + id + ".md"
	if folderSlug == "" {
		return name
	}
	return folderSlug + "/" + name
}
