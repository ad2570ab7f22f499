package phrase

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/itsatony/go-cuserr"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Style names understood by ParseMarkup and rendered by SpannedText.HTML
const (
	StyleBold          = "b"
	StyleItalic        = "i"
	StyleUnderline     = "u"
	StyleStrikethrough = "s"
	StyleEmphasis      = "em"
	StyleStrong        = "strong"
	StyleSubscript     = "sub"
	StyleSuperscript   = "sup"
	StyleSmall         = "small"
	StyleBig           = "big"
	StyleMonospace     = "tt"
)

const tagLineBreak = "br"

var markupStyles = map[string]struct{}{
	StyleBold:          {},
	StyleItalic:        {},
	StyleUnderline:     {},
	StyleStrikethrough: {},
	StyleEmphasis:      {},
	StyleStrong:        {},
	StyleSubscript:     {},
	StyleSuperscript:   {},
	StyleSmall:         {},
	StyleBig:           {},
	StyleMonospace:     {},
}

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// ParseMarkup turns simple inline HTML (<b>, <i>, <u>, ...) into a
// SpannedText. Entities are decoded and <br> becomes a newline. Unknown
// tags are dropped but their text is kept; tags left open close at the end
// of the input.
func ParseMarkup(markup string) (SpannedText, error) {
	z := html.NewTokenizer(strings.NewReader(markup))

	var sb strings.Builder
	var spans []Span
	var open []Span
	pos := 0

	closeFrom := func(i int) {
		for j := len(open) - 1; j >= i; j-- {
			sp := open[j]
			sp.End = pos
			if sp.End > sp.Start {
				spans = append(spans, sp)
			}
		}
		open = open[:i]
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return SpannedText{}, cuserr.WrapStdError(err, ErrCodeUsage, ErrMsgMarkupParse)
			}
			closeFrom(0)
			out := SpannedText{Text: sb.String(), Spans: spans}
			out.Spans = out.normalizedSpans()
			if len(out.Spans) == 0 {
				out.Spans = nil
			}
			return out, nil

		case html.TextToken:
			text := string(z.Text())
			sb.WriteString(text)
			pos += len([]rune(text))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := strings.ToLower(string(name))
			if tag == tagLineBreak {
				sb.WriteRune('\n')
				pos++
				continue
			}
			if _, ok := markupStyles[tag]; ok && tt == html.StartTagToken {
				open = append(open, Span{Start: pos, Style: tag})
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := strings.ToLower(string(name))
			for i := len(open) - 1; i >= 0; i-- {
				if open[i].Style == tag {
					closeFrom(i)
					break
				}
			}
		}
	}
}

// HTML renders the text with its spans as properly nested inline tags.
// Overlapping spans are split so the output is well formed. Text is
// escaped and the result is passed through a sanitizer that only keeps
// the style elements.
func (s SpannedText) HTML() string {
	runes := []rune(s.Text)
	spans := s.normalizedSpans()

	var sb strings.Builder
	var stack []Span
	next := 0

	for pos := 0; pos <= len(runes); pos++ {
		// close every span ending here; spans above it close and reopen
		lowest := -1
		for i, sp := range stack {
			if sp.End <= pos {
				lowest = i
				break
			}
		}
		if lowest >= 0 {
			popped := stack[lowest:]
			for i := len(popped) - 1; i >= 0; i-- {
				writeTag(&sb, popped[i].Style, true)
			}
			reopen := make([]Span, 0, len(popped))
			for _, sp := range popped {
				if sp.End > pos {
					reopen = append(reopen, sp)
				}
			}
			stack = stack[:lowest]
			for _, sp := range reopen {
				writeTag(&sb, sp.Style, false)
				stack = append(stack, sp)
			}
		}

		for next < len(spans) && spans[next].Start == pos {
			if _, ok := markupStyles[spans[next].Style]; ok {
				writeTag(&sb, spans[next].Style, false)
				stack = append(stack, spans[next])
			}
			next++
		}

		if pos < len(runes) {
			sb.WriteString(html.EscapeString(string(runes[pos])))
		}
	}

	return markupSanitizer().Sanitize(sb.String())
}

// FormatHTML formats the template and renders the result with HTML.
func (t *Template) FormatHTML() (string, error) {
	out, err := t.FormatSpanned()
	if err != nil {
		return "", err
	}
	return out.HTML(), nil
}

func writeTag(sb *strings.Builder, style string, closing bool) {
	sb.WriteByte('<')
	if closing {
		sb.WriteByte('/')
	}
	sb.WriteString(style)
	sb.WriteByte('>')
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		elements := make([]string, 0, len(markupStyles))
		for style := range markupStyles {
			elements = append(elements, style)
		}
		policy.AllowElements(elements...)
		markupPolicy = policy
	})
	return markupPolicy
}
