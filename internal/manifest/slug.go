package manifest

import (
	"math"
	"strconv"
	"strings"
)

// SlugSeparator joins owner and name in a canonical slug.
const SlugSeparator = "__"

// Field spellings accepted for each part of a repository reference, in
// priority order.
var (
	ownerFields = []string{"owner", "org", "repo_owner"}
	nameFields  = []string{"name", "repo_name"}
	slugFields  = []string{"slug", "repo_slug", "id"}
)

// slugShape resolves a slug from one manifest entry layout.
type slugShape struct {
	name    string
	resolve func(Entry) (string, bool)
}

// slugShapes are tried in order; the first that resolves wins.
var slugShapes = []slugShape{
	{name: "repo.owner+repo.name", resolve: nestedSlug},
	{name: "owner+name", resolve: flatSlug},
	{name: "slug", resolve: singleFieldSlug},
}

// Slug resolves the canonical owner__name slug of an entry.
func Slug(entry Entry) (string, bool) {
	if entry == nil {
		return "", false
	}
	for _, shape := range slugShapes {
		if s, ok := shape.resolve(entry); ok {
			return s, true
		}
	}
	return "", false
}

// shapeNames lists the accepted entry layouts for error messages.
func shapeNames() string {
	names := make([]string, 0, len(slugShapes))
	for _, shape := range slugShapes {
		names = append(names, shape.name)
	}
	return strings.Join(names, ", ")
}

// DisplayName turns owner__name into owner/name.
func DisplayName(slug string) string {
	return strings.ReplaceAll(slug, SlugSeparator, "/")
}

func nestedSlug(entry Entry) (string, bool) {
	repo, ok := entry["repo"].(map[string]any)
	if !ok {
		return "", false
	}
	owner, ok := scalarText(repo["owner"])
	if !ok {
		return "", false
	}
	name, ok := scalarText(repo["name"])
	if !ok {
		return "", false
	}
	return owner + SlugSeparator + name, true
}

func flatSlug(entry Entry) (string, bool) {
	owner, ok := scalarText(firstSet(entry, ownerFields))
	if !ok {
		return "", false
	}
	name, ok := scalarText(firstSet(entry, nameFields))
	if !ok {
		return "", false
	}
	return owner + SlugSeparator + name, true
}

func singleFieldSlug(entry Entry) (string, bool) {
	s, ok := firstSet(entry, slugFields).(string)
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(s, "/", SlugSeparator), true
}

// firstSet returns the value of the first field that holds a set value.
func firstSet(m map[string]any, fields []string) any {
	for _, field := range fields {
		if v := m[field]; isSet(v) {
			return v
		}
	}
	return nil
}

// isSet reports whether v counts as configured. Zero values and empty
// collections read as unset.
func isSet(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case uint64:
		return x != 0
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

// scalarText renders a string or number as slug text.
func scalarText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, x != ""
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}
