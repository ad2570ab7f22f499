package phrase

import (
	"strings"

	"go.uber.org/zap"
)

// Tag is a named pair of start and end markers, e.g. "<name>" and "</name>".
type Tag struct {
	Name  string `json:"name" yaml:"name"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// TagResult holds the substrings found between a tag's markers, in order.
type TagResult struct {
	Tag     Tag      `json:"tag" yaml:"tag"`
	Matches []string `json:"matches" yaml:"matches"`
}

// Found reports whether at least one match was found.
func (r TagResult) Found() bool {
	return len(r.Matches) > 0
}

// TagFinder extracts the text enclosed by tag markers.
type TagFinder struct {
	logger *zap.Logger
}

// NewTagFinder creates a finder. A nil logger disables logging.
func NewTagFinder(logger *zap.Logger) *TagFinder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TagFinder{logger: logger}
}

// FindTags runs a TagFinder without logging.
func FindTags(text string, tags ...Tag) ([]TagResult, error) {
	return NewTagFinder(nil).Find(text, tags...)
}

// Find returns one result per tag, in the order given. A tag whose start
// and end markers occur a different number of times fails with
// ErrUnbalancedTags.
func (f *TagFinder) Find(text string, tags ...Tag) ([]TagResult, error) {
	results := make([]TagResult, 0, len(tags))
	for _, tag := range tags {
		if tag.Start == "" || tag.End == "" {
			results = append(results, TagResult{Tag: tag})
			continue
		}

		starts := strings.Count(text, tag.Start)
		ends := strings.Count(text, tag.End)
		if starts != ends {
			f.logger.Debug(LogMsgTagUnbalanced,
				zap.String(LogFieldTag, tag.Name),
				zap.Int(MetaKeyStartCount, starts),
				zap.Int(MetaKeyEndCount, ends))
			return nil, NewUnbalancedTagsError(tag.Name, starts, ends)
		}

		matches := substringsBetween(text, tag.Start, tag.End)
		f.logger.Debug(LogMsgTagFound,
			zap.String(LogFieldTag, tag.Name),
			zap.Int(LogFieldMatches, len(matches)))
		results = append(results, TagResult{Tag: tag, Matches: matches})
	}
	return results, nil
}

// substringsBetween collects every substring between a start marker and the
// next end marker, scanning left to right without overlap.
func substringsBetween(text, start, end string) []string {
	var out []string
	pos := 0
	for pos < len(text) {
		i := strings.Index(text[pos:], start)
		if i < 0 {
			break
		}
		from := pos + i + len(start)
		j := strings.Index(text[from:], end)
		if j < 0 {
			break
		}
		out = append(out, text[from:from+j])
		pos = from + j + len(end)
	}
	return out
}
