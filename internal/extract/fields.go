package extract

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/user/feed-harvester/internal/entity"
)

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// EmailFromText returns the first email-shaped substring of text, or "".
func EmailFromText(text string) string {
	return emailRegex.FindString(text)
}

// SplitName returns the first and second space-separated tokens of name.
// Missing tokens are absent; a name that is not text yields two absent fields.
func SplitName(name entity.Field) (first, last entity.Field) {
	if name.State != entity.FieldText {
		return entity.Field{}, entity.Field{}
	}
	parts := strings.Split(name.Value, " ")
	first = entity.Text(parts[0])
	if len(parts) > 1 {
		last = entity.Text(parts[1])
	}
	return first, last
}

// fieldOf converts a gjson lookup into a record field. Strings keep their
// value, other scalars keep their JSON literal.
func fieldOf(r gjson.Result) entity.Field {
	if !r.Exists() {
		return entity.Field{}
	}
	switch r.Type {
	case gjson.Null:
		return entity.Null()
	case gjson.String:
		return entity.Text(r.Str)
	default:
		return entity.Text(r.Raw)
	}
}

// firstExisting returns the first of paths that resolves under doc.
func firstExisting(doc gjson.Result, paths []string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}
