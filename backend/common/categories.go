package common

// Categories is the fixed catalog of server category tags. Listing endpoints
// accept either the tag itself or a 1-based index into this slice
// (the category_id query parameter).
var Categories = []string{
	"ai",
	"browser-automation",
	"cloud",
	"command-line",
	"communication",
	"customer-data",
	"database",
	"developer-tools",
	"data-science",
	"file-systems",
	"finance",
	"gaming",
	"knowledge-memory",
	"location",
	"marketing",
	"monitoring",
	"media",
	"search",
	"security",
	"travel",
	"version-control",
	"other",
}

// CategoryByIndex resolves a 1-based category_id to its tag.
func CategoryByIndex(id int) (string, bool) {
	if id < 1 || id > len(Categories) {
		return "", false
	}
	return Categories[id-1], true
}

// IsValidCategory reports whether cat is in the fixed catalog.
func IsValidCategory(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}
