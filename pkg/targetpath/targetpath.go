package targetpath

import (
	"strings"

	"github.com/arthur-debert/actionreg/pkg/errors"
)

// Separator delimits the segments of a target path
const Separator = "/"

// Path is a parsed target path
type Path struct {
	Root     string
	Segments []string
}

// Parse splits target into its root and group segments.
// It fails with ErrMalformedPath when target is empty, has an empty segment
// (leading, trailing or doubled separators), or repeats a segment.
func Parse(target string) (Path, error) {
	if target == "" {
		return Path{}, errors.New(errors.ErrMalformedPath, "target path cannot be empty")
	}

	parts := strings.Split(target, Separator)
	seen := make(map[string]struct{}, len(parts))
	for i, part := range parts {
		if err := ValidateSegment(part); err != nil {
			return Path{}, errors.Wrapf(err, errors.ErrMalformedPath,
				"segment %d of target path %q is invalid", i, target).
				WithDetail("target", target)
		}
		if _, dup := seen[part]; dup {
			return Path{}, errors.Newf(errors.ErrMalformedPath,
				"target path %q visits %q twice", target, part).
				WithDetail("target", target)
		}
		seen[part] = struct{}{}
	}

	return Path{Root: parts[0], Segments: parts[1:]}, nil
}

// ResolveRoot returns the root id of target.
// Deeper segments are validated for shape only; whether they exist is the
// action set's concern.
func ResolveRoot(target string) (string, error) {
	p, err := Parse(target)
	if err != nil {
		return "", err
	}
	return p.Root, nil
}

// ValidateSegment checks a single id used as a path segment or as a
// contribution id.
func ValidateSegment(id string) error {
	if id == "" {
		return errors.New(errors.ErrMalformedPath, "segment cannot be empty")
	}
	if strings.Contains(id, Separator) {
		return errors.Newf(errors.ErrMalformedPath,
			"segment %q cannot contain the separator %q", id, Separator).
			WithDetail("segment", id)
	}
	for _, r := range id {
		if r < 32 || r == 127 {
			return errors.Newf(errors.ErrMalformedPath, "segment %q contains control characters", id).
				WithDetail("segment", id)
		}
	}
	return nil
}

// Join builds a target path from a root and segments
func Join(root string, segments ...string) string {
	if len(segments) == 0 {
		return root
	}
	return root + Separator + strings.Join(segments, Separator)
}

// Leaf returns the last segment, or the root when there are no segments
func (p Path) Leaf() string {
	if len(p.Segments) == 0 {
		return p.Root
	}
	return p.Segments[len(p.Segments)-1]
}

// Parent returns the path with its last segment removed.
// The parent of a root-only path is the path itself.
func (p Path) Parent() Path {
	if len(p.Segments) == 0 {
		return p
	}
	return Path{Root: p.Root, Segments: p.Segments[:len(p.Segments)-1]}
}

// Child returns the path extended by one segment
func (p Path) Child(segment string) Path {
	segs := make([]string, 0, len(p.Segments)+1)
	segs = append(segs, p.Segments...)
	return Path{Root: p.Root, Segments: append(segs, segment)}
}

// Contains reports whether id appears anywhere in the path, root included
func (p Path) Contains(id string) bool {
	if p.Root == id {
		return true
	}
	for _, s := range p.Segments {
		if s == id {
			return true
		}
	}
	return false
}

// String renders the path back into its slash form
func (p Path) String() string {
	return Join(p.Root, p.Segments...)
}
