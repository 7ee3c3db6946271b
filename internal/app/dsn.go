package app

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	binaryResultParam = "disable_prepared_binary_result"
	maxSpanQueryLen   = 512
)

// postgresDSN is the connection string handed to lib/pq and golang-migrate,
// plus the database name reported on spans and pool metrics.
type postgresDSN struct {
	URL    string
	DBName string
}

// parseDSN accepts URL and key=value forms. With disableBinary set, URL forms
// get disable_prepared_binary_result=yes unless the caller set it already.
func parseDSN(raw string, disableBinary bool) postgresDSN {
	raw = strings.TrimSpace(raw)
	dsn := postgresDSN{URL: raw}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		dsn.DBName = keywordValue(raw, "dbname")
		return dsn
	}

	dsn.DBName = strings.TrimPrefix(parsed.Path, "/")
	if disableBinary {
		query := parsed.Query()
		if query.Get(binaryResultParam) == "" {
			query.Set(binaryResultParam, "yes")
			parsed.RawQuery = query.Encode()
			dsn.URL = parsed.String()
		}
	}
	return dsn
}

func keywordValue(dsn, key string) string {
	for _, field := range strings.Fields(dsn) {
		name, value, ok := strings.Cut(field, "=")
		if ok && name == key {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}

// spanQuery collapses whitespace in SQL recorded on spans and caps its
// length on a rune boundary.
func spanQuery(query string) string {
	collapsed := strings.Join(strings.Fields(query), " ")
	if len(collapsed) <= maxSpanQueryLen {
		return collapsed
	}
	cut := maxSpanQueryLen
	for cut > 0 && !utf8.RuneStart(collapsed[cut]) {
		cut--
	}
	return collapsed[:cut] + "..."
}
