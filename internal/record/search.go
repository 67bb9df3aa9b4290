package record

import "strings"

// likeEscaper escapes LIKE wildcards with '!', which none of the supported
// engines treat specially inside a string literal.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Like returns a LIKE condition on column for use with a pattern from
// Contains.
func Like(column string) string {
	return column + " LIKE ? ESCAPE '!'"
}

// Contains returns a lowercased LIKE pattern that matches term anywhere, with
// any wildcards in term matched literally.
func Contains(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
