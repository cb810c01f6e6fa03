// Package tag defines the release tag model for proto-events-release and the
// validator that turns a raw tag string into a typed, checked value.
//
// Two tag shapes exist, mirroring the two release pipelines:
//
//	category/service/release/version   (domain shape)
//	service/release/version            (service shape)
//
// A validated tag knows where its interface-definition sources live relative
// to the proto root and what the packaged artifact must be called.
package tag

import (
	"fmt"
	"path"
)

// Marker is the literal required in the release-marker position of every tag.
// It acts as a format sentinel: tags without it are not release tags.
const Marker = "release"

// artifactInfix sits between the service name and the version in every
// artifact name; the archives carry generated event sources.
const artifactInfix = "events"

// artifactExt is the extension of the packaged artifact.
const artifactExt = ".jar"

// Tag is a validated release tag of either shape. Downstream code never
// touches raw tag fields by position; it goes through this interface.
type Tag interface {
	// Service returns the service name the tag releases.
	Service() string

	// Version returns the semantic version as an opaque string.
	Version() string

	// SourceRel returns the path of the service's interface-definition
	// directory relative to the proto root.
	SourceRel() string

	// ArtifactName returns the file name of the packaged artifact.
	ArtifactName() string

	// String reassembles the canonical tag string.
	String() string
}

// DomainTag is the four-field shape: category/service/release/version.
type DomainTag struct {
	Category string
	Svc      string
	Ver      string
}

// Service implements Tag.
func (t DomainTag) Service() string { return t.Svc }

// Version implements Tag.
func (t DomainTag) Version() string { return t.Ver }

// SourceRel implements Tag.
func (t DomainTag) SourceRel() string { return path.Join(t.Category, t.Svc) }

// ArtifactName implements Tag.
func (t DomainTag) ArtifactName() string {
	return fmt.Sprintf("%s-%s-%s-%s%s", t.Category, t.Svc, artifactInfix, t.Ver, artifactExt)
}

// String implements Tag.
func (t DomainTag) String() string {
	return t.Category + "/" + t.Svc + "/" + Marker + "/" + t.Ver
}

// ServiceTag is the three-field shape: service/release/version. It has no
// category and therefore no category check.
type ServiceTag struct {
	Svc string
	Ver string
}

// Service implements Tag.
func (t ServiceTag) Service() string { return t.Svc }

// Version implements Tag.
func (t ServiceTag) Version() string { return t.Ver }

// SourceRel implements Tag.
func (t ServiceTag) SourceRel() string { return t.Svc }

// ArtifactName implements Tag.
func (t ServiceTag) ArtifactName() string {
	return fmt.Sprintf("%s-%s-%s%s", t.Svc, artifactInfix, t.Ver, artifactExt)
}

// String implements Tag.
func (t ServiceTag) String() string {
	return t.Svc + "/" + Marker + "/" + t.Ver
}
