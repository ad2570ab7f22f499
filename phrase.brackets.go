package phrase

import (
	"strconv"
	"strings"

	"github.com/itsatony/go-phrase/internal"
)

// Bracket selects the delimiter pair that surrounds keys in a pattern.
// Exactly one pair is active per Template.
type Bracket int

// Bracket profiles
const (
	BracketCurly  Bracket = iota // {key}
	BracketRound                 // (key)
	BracketAngle                 // <key>
	BracketSquare                // [key]
)

// Bracket profile names
const (
	BracketNameCurly  = "curly"
	BracketNameRound  = "round"
	BracketNameAngle  = "angle"
	BracketNameSquare = "square"
)

var bracketPairs = [...]internal.Delimiters{
	BracketCurly:  {Open: '{', Close: '}'},
	BracketRound:  {Open: '(', Close: ')'},
	BracketAngle:  {Open: '<', Close: '>'},
	BracketSquare: {Open: '[', Close: ']'},
}

var bracketNames = [...]string{
	BracketCurly:  BracketNameCurly,
	BracketRound:  BracketNameRound,
	BracketAngle:  BracketNameAngle,
	BracketSquare: BracketNameSquare,
}

// Brackets returns every bracket profile
func Brackets() []Bracket {
	return []Bracket{BracketCurly, BracketRound, BracketAngle, BracketSquare}
}

// ParseBracket resolves a profile by name ("curly", "round", "angle",
// "square") or by its open character.
func ParseBracket(name string) (Bracket, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, b := range Brackets() {
		if normalized == bracketNames[b] || normalized == string(b.Open()) {
			return b, nil
		}
	}
	return BracketCurly, NewUnknownBracketError(name)
}

// Valid reports whether b is one of the four profiles
func (b Bracket) Valid() bool {
	return b >= BracketCurly && b <= BracketSquare
}

// Open returns the opening delimiter
func (b Bracket) Open() rune {
	return b.delimiters().Open
}

// Close returns the closing delimiter
func (b Bracket) Close() rune {
	return b.delimiters().Close
}

// String returns the profile name
func (b Bracket) String() string {
	if !b.Valid() {
		return BracketNameCurly
	}
	return bracketNames[b]
}

// MarshalText implements encoding.TextMarshaler
func (b Bracket) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, NewUnknownBracketError(strconv.Itoa(int(b)))
	}
	return []byte(bracketNames[b]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Bracket) UnmarshalText(text []byte) error {
	parsed, err := ParseBracket(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func (b Bracket) delimiters() internal.Delimiters {
	if !b.Valid() {
		return bracketPairs[BracketCurly]
	}
	return bracketPairs[b]
}
