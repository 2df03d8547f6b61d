// Package failure defines the two error kinds a generation run can end with:
// configuration violations and filesystem I/O failures. Both are fatal.
package failure

import (
	"errors"
	"fmt"
)

// Tag prefixes every message surfaced to the host.
const Tag = "schemas-to-ts"

var (
	ErrConfiguration = errors.New("configuration error")
	ErrIO            = errors.New("i/o error")
)

// Reasons an artifact is rejected before anything is written.
var (
	ErrMissingHeader = errors.New("does not start with the generator header")
	ErrOutsideRoot   = errors.New("is outside the project root")
	ErrReservedArea  = errors.New("lies in a folder the generator must not write to")
)

// Violation identifies which destination rule a configured folder broke.
type Violation int

const (
	NoViolation Violation = iota
	OutsideRoot
	SameAsRoot
	SameAsSrc
	InsideAPI
	InsideComponents
	InsideExtensions
	InsidePolicies
	InsideMiddlewares
	InsideConfig
	InsideDist
	InsideStatic
)

var violationNames = map[Violation]string{
	NoViolation:       "none",
	OutsideRoot:       "outside-root",
	SameAsRoot:        "same-as-root",
	SameAsSrc:         "same-as-src",
	InsideAPI:         "inside-api",
	InsideComponents:  "inside-components",
	InsideExtensions:  "inside-extensions",
	InsidePolicies:    "inside-policies",
	InsideMiddlewares: "inside-middlewares",
	InsideConfig:      "inside-config",
	InsideDist:        "inside-dist",
	InsideStatic:      "inside-static",
}

func (v Violation) String() string {
	if name, ok := violationNames[v]; ok {
		return name
	}
	return fmt.Sprintf("violation(%d)", int(v))
}

// describe returns the human-readable rule for a violation.
func (v Violation) describe(path string) string {
	switch v {
	case OutsideRoot:
		return fmt.Sprintf("The destination folder is not inside the Strapi project: '%s'", path)
	case SameAsRoot:
		return "The given destinationFolder is the same as the Strapi root"
	case SameAsSrc:
		return "The given destinationFolder is the same as the Strapi src"
	case InsideAPI:
		return "The given destinationFolder is inside the Strapi api"
	case InsideComponents:
		return "The given destinationFolder is inside the Strapi components"
	case InsideExtensions:
		return "The given destinationFolder is inside the Strapi extensions"
	case InsidePolicies:
		return "The given destinationFolder is inside the Strapi policies"
	case InsideMiddlewares:
		return "The given destinationFolder is inside the Strapi middlewares"
	case InsideConfig:
		return "The given destinationFolder is inside the Strapi config"
	case InsideDist:
		return "The given destinationFolder is inside the Strapi dist"
	case InsideStatic:
		return "The given destinationFolder is inside the Strapi static"
	}
	return "The given destinationFolder is invalid"
}

// ConfigError reports a destination folder that collides with the host layout.
type ConfigError struct {
	Violation Violation
	Path      string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s ⚠️  %s", Tag, e.Violation.describe(e.Path))
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// NewConfigError returns nil for NoViolation.
func NewConfigError(v Violation, path string) error {
	if v == NoViolation {
		return nil
	}
	return &ConfigError{Violation: v, Path: path}
}

// ArtifactError rejects one artifact of a run. It is a configuration error:
// errors.Is(err, ErrConfiguration) holds, and Err carries the reason.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s ⚠️  artifact %s: %v", Tag, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

func (e *ArtifactError) Is(target error) bool { return target == ErrConfiguration }

// Artifact wraps err as an ArtifactError for path. A nil err stays nil.
func Artifact(path string, err error) error {
	if err == nil {
		return nil
	}
	return &ArtifactError{Path: path, Err: err}
}

// IOError wraps a filesystem failure with the operation and path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s %s: %v", Tag, e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrIO) match any IOError.
func (e *IOError) Is(target error) bool { return target == ErrIO }

// IO wraps err as an IOError. A nil err stays nil.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}
