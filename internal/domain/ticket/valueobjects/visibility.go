package valueobjects

import "fmt"

// Visibility partitions a thread: internal messages are shown to handlers only.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
)

func (v Visibility) String() string {
	return string(v)
}

func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityInternal
}

func (v Visibility) IsInternal() bool {
	return v == VisibilityInternal
}

// NewVisibility parses s; an empty string yields VisibilityPublic.
func NewVisibility(s string) (Visibility, error) {
	if s == "" {
		return VisibilityPublic, nil
	}
	v := Visibility(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid visibility: %s", s)
	}
	return v, nil
}
