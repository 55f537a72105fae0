package utils

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching q anywhere, with q's own
// wildcards escaped for use with ESCAPE '\'
func ContainsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
