package validators

import (
	"net/http"
	"strconv"
	"strings"
)

// ParsePathInt reads a numeric chi URL segment such as a line number.
func ParsePathInt(raw, field string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, Failed(map[string]string{field: "must be numeric"})
	}
	return value, nil
}

// QueryString returns the trimmed query value.
func QueryString(r *http.Request, key string) string {
	return SanitizeString(r.URL.Query().Get(key), 0)
}
