package tag

import (
	"fmt"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/luciano-fiandesio/proto-events-release/errors"
	"github.com/luciano-fiandesio/proto-events-release/fsys"
)

// Field counts for the two tag shapes.
const (
	domainArity  = 4
	serviceArity = 3
)

// Positions of the release marker within each shape.
const (
	domainMarkerPos  = 2
	serviceMarkerPos = 1
)

// Validator checks raw tag strings against the tag grammar and the proto
// tree. It is immutable after construction and safe to reuse across tags.
//
// Checks run in a fixed order and the first failure wins:
//
//  1. field count for the shape
//  2. service directory exists under the proto root
//  3. category membership (domain shape only)
//  4. release-marker literal
//  5. strict semantic version
//
// The only side effect is the directory existence probe.
type Validator struct {
	fs        *fsys.FS
	protoRoot string
	debug     bool
}

// NewValidator creates a Validator reading service directories under
// protoRoot on fs. When debug is true the sandbox category is admitted.
func NewValidator(fs *fsys.FS, protoRoot string, debug bool) *Validator {
	return &Validator{fs: fs, protoRoot: protoRoot, debug: debug}
}

// ParseDomain validates a raw tag against the four-field shape and returns
// the typed tag.
func (v *Validator) ParseDomain(raw string) (Tag, error) {
	fields := strings.Split(raw, "/")
	if len(fields) != domainArity {
		return nil, errors.Newf(errors.CodeInvalidFormat,
			"tag %q has %d field(s), expected %d (category/service/%s/version)",
			raw, len(fields), domainArity, Marker)
	}

	t := DomainTag{Category: fields[0], Svc: fields[1], Ver: fields[3]}

	if err := v.checkServiceDir(t.SourceRel()); err != nil {
		return nil, err
	}
	if !categoryAllowed(t.Category, v.debug) {
		return nil, errors.Newf(errors.CodeInvalidCategory,
			"category %q is not allowed (allowed: %s)", t.Category, categoryList(v.debug))
	}
	if err := checkMarker(fields[domainMarkerPos]); err != nil {
		return nil, err
	}
	if err := checkVersion(t.Ver); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseService validates a raw tag against the three-field shape and returns
// the typed tag. The service shape has no category check.
func (v *Validator) ParseService(raw string) (Tag, error) {
	fields := strings.Split(raw, "/")
	if len(fields) != serviceArity {
		return nil, errors.Newf(errors.CodeInvalidFormat,
			"tag %q has %d field(s), expected %d (service/%s/version)",
			raw, len(fields), serviceArity, Marker)
	}

	t := ServiceTag{Svc: fields[0], Ver: fields[2]}

	if err := v.checkServiceDir(t.SourceRel()); err != nil {
		return nil, err
	}
	if err := checkMarker(fields[serviceMarkerPos]); err != nil {
		return nil, err
	}
	if err := checkVersion(t.Ver); err != nil {
		return nil, err
	}
	return t, nil
}

// checkServiceDir verifies the service's source directory exists under the
// proto root.
func (v *Validator) checkServiceDir(rel string) error {
	dir := path.Join(v.protoRoot, rel)
	ok, err := v.fs.DirExists(dir)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeInternal,
			"probing service directory", map[string]interface{}{"dir": dir})
	}
	if !ok {
		return errors.Newf(errors.CodeUnknownService,
			"no service directory %q under proto root %q", rel, v.protoRoot)
	}
	return nil
}

func checkMarker(field string) error {
	if field != Marker {
		return errors.Newf(errors.CodeInvalidMarker,
			"expected release marker %q, got %q", Marker, field)
	}
	return nil
}

// checkVersion enforces strict semver: no leading zeros, all three numeric
// components present, optional pre-release and build metadata. The version
// is never parsed into components downstream; it stays an opaque string.
func checkVersion(ver string) error {
	if _, err := semver.StrictNewVersion(ver); err != nil {
		return errors.Wrap(err, errors.CodeInvalidVersion,
			fmt.Sprintf("version %q is not a valid semantic version", ver))
	}
	return nil
}
