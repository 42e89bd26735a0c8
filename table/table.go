// Package table holds the static character <-> Morse representation
// lookups, reached through RepresentationOf/CharOf, plus the standard
// ITU/ARRL procedural signals used alongside the plain character table.
package table

import "unicode"

type entry struct {
	ch   rune
	repr string
}

// alphabet is the full ITU/ARRL character set: letters, digits, and
// standard punctuation.
var alphabet = []entry{
	{'A', ".-"}, {'B', "-..."}, {'C', "-.-."}, {'D', "-.."}, {'E', "."},
	{'F', "..-."}, {'G', "--."}, {'H', "...."}, {'I', ".."}, {'J', ".---"},
	{'K', "-.-"}, {'L', ".-.."}, {'M', "--"}, {'N', "-."}, {'O', "---"},
	{'P', ".--."}, {'Q', "--.-"}, {'R', ".-."}, {'S', "..."}, {'T', "-"},
	{'U', "..-"}, {'V', "...-"}, {'W', ".--"}, {'X', "-..-"}, {'Y', "-.--"},
	{'Z', "--.."},
	{'1', ".----"}, {'2', "..---"}, {'3', "...--"}, {'4', "....-"},
	{'5', "....."}, {'6', "-...."}, {'7', "--..."}, {'8', "---.."},
	{'9', "----."}, {'0', "-----"},
	{'.', ".-.-.-"}, {',', "--..--"}, {'?', "..--.."}, {'/', "-..-."},
	{'=', "-...-"}, {'-', "-....-"}, {')', "-.--.-"}, {'(', "-.--."},
	{':', "---..."}, {';', "-.-.-."}, {'"', ".-..-."}, {'\'', ".----."},
	{'$', "...-..-"}, {'!', "-.-.--"}, {'&', ".-..."}, {'+', ".-.-."},
	{'_', "..--.-"}, {'@', ".--.-."},
}

var byChar = make(map[rune]string, len(alphabet))
var byRepr = make(map[string]rune, len(alphabet))
var listed string

func init() {
	for _, e := range alphabet {
		byChar[e.ch] = e.repr
		byRepr[e.repr] = e.ch
		listed += string(e.ch)
	}
}

// RepresentationOf returns c's dot/dash representation. Lower-case
// letters are folded to upper-case first.
func RepresentationOf(c rune) (string, bool) {
	if unicode.IsLower(c) {
		c = unicode.ToUpper(c)
	}
	repr, ok := byChar[c]
	return repr, ok
}

// CharOf is the inverse of RepresentationOf.
func CharOf(repr string) (rune, bool) {
	c, ok := byRepr[repr]
	return c, ok
}

// ListCharacters enumerates every character with a representation, in
// table order.
func ListCharacters() string { return listed }

// Procedural is one procedural signal / prosign: a multi-character
// expansion sent as a single run-together string, e.g. "AR" sent as
// ".-.-." with no inter-letter spacing.
type Procedural struct {
	Name            string // e.g. "AR", "SK", "BT"
	Representation  string
	UsuallyExpanded bool // hint: conventionally shown to the operator expanded ("end of message") rather than as raw dots/dashes
}

// Procedurals is the set of procedural signals supplementing the plain
// character table, drawn from standard ITU/ARRL amateur-radio procedural
// signal lists.
var Procedurals = []Procedural{
	{Name: "AR", Representation: ".-.-.", UsuallyExpanded: true},  // end of message
	{Name: "SK", Representation: "...-.-", UsuallyExpanded: true}, // end of contact
	{Name: "BT", Representation: "-...-", UsuallyExpanded: false}, // new paragraph / break
	{Name: "KN", Representation: "-.--.", UsuallyExpanded: true},  // invite named station only
	{Name: "AS", Representation: ".-...", UsuallyExpanded: true},  // wait
	{Name: "VA", Representation: "...-.-", UsuallyExpanded: true}, // end of work (= SK)
	{Name: "HH", Representation: "........", UsuallyExpanded: false}, // error/correction
}

// ProceduralNamed looks up a procedural signal by name (case-insensitive).
func ProceduralNamed(name string) (Procedural, bool) {
	for _, p := range Procedurals {
		if equalFold(p.Name, name) {
			return p, true
		}
	}
	return Procedural{}, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := rune(a[i]), rune(b[i])
		if unicode.ToUpper(ca) != unicode.ToUpper(cb) {
			return false
		}
	}
	return true
}
