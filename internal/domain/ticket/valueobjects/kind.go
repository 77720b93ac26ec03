package valueobjects

import "fmt"

// Kind separates help-desk tickets from course doubts. Both share the same
// workflow; only listings filter on it.
type Kind string

const (
	KindSupport Kind = "support"
	KindDoubt   Kind = "doubt"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	return k == KindSupport || k == KindDoubt
}

// NewKind parses s; an empty string yields KindSupport.
func NewKind(s string) (Kind, error) {
	if s == "" {
		return KindSupport, nil
	}
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid ticket kind: %s", s)
	}
	return k, nil
}
