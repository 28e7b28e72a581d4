package index

import "fmt"

// PathNotDirectoryError reports an add of a path that does not resolve to
// an existing directory. Validation failures leave the index untouched.
type PathNotDirectoryError struct {
	Path string
}

func (e *PathNotDirectoryError) Error() string {
	return fmt.Sprintf("path %q is not a directory that exists", e.Path)
}

// RelativePathError reports an add of a non-absolute path.
type RelativePathError struct {
	Path string
}

func (e *RelativePathError) Error() string {
	return fmt.Sprintf("path %q is not absolute", e.Path)
}

// NoResultsError reports that the jump loop exhausted every candidate for
// a pattern without finding a directory that still exists.
type NoResultsError struct {
	Pattern string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("no path found for pattern %q", e.Pattern)
}
