package database

import "strings"

// LikeEscape is the escape character used by LikePrefix patterns. Queries
// must declare it with ESCAPE '\'.
const LikeEscape = `\`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePrefix returns a LIKE pattern matching strings that start with prefix
// literally; wildcards inside prefix are escaped.
func LikePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
