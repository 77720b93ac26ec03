package valueobjects

import "fmt"

type BodyFormat string

const (
	FormatPlain    BodyFormat = "plain"
	FormatMarkdown BodyFormat = "markdown"
	FormatHTML     BodyFormat = "html"
)

func (f BodyFormat) String() string {
	return string(f)
}

func (f BodyFormat) IsValid() bool {
	switch f {
	case FormatPlain, FormatMarkdown, FormatHTML:
		return true
	default:
		return false
	}
}

// NewBodyFormat parses s; an empty string yields FormatPlain.
func NewBodyFormat(s string) (BodyFormat, error) {
	if s == "" {
		return FormatPlain, nil
	}
	f := BodyFormat(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid body format: %s", s)
	}
	return f, nil
}
