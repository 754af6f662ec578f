// Package version describes the configuration file schema and the keys
// each schema revision defines.
//
// A configuration file names the schema it was written for in its top-level
// "version" key. Minor revisions only add keys to the logstarter section,
// so a file can be read by any build whose schema has the same major
// version and an equal or newer minor version.
package version

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Library is the release of this module, reported by the demo tool.
const Library = "0.4.0"

// Schema is the newest configuration schema this build reads.
const Schema = "1.1"

var (
	// ErrMajorMismatch reports a file written for another major schema.
	ErrMajorMismatch = errors.New("schema major version mismatch")

	// ErrNewerSchema reports a file written for a newer minor schema.
	ErrNewerSchema = errors.New("schema newer than supported")
)

// keySince maps every key of the logstarter section to the minor revision
// of schema 1 that introduced it.
var keySince = map[string]uint16{
	"enabled":    0,
	"level":      0,
	"operations": 1,
}

// SchemaVersion is a parsed "major.minor" schema version.
type SchemaVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (SchemaVersion, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return SchemaVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	maj, err := strconv.ParseUint(major, 10, 16)
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}
	mnr, err := strconv.ParseUint(minor, 10, 16)
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return SchemaVersion{Major: uint16(maj), Minor: uint16(mnr)}, nil
}

// Current returns the parsed Schema version.
func Current() SchemaVersion {
	v, _ := Parse(Schema)
	return v
}

func (v SchemaVersion) String() string {
	return strconv.FormatUint(uint64(v.Major), 10) + "." + strconv.FormatUint(uint64(v.Minor), 10)
}

// Keys returns the keys schema v defines, sorted.
func (v SchemaVersion) Keys() []string {
	var keys []string
	if v.Major != Current().Major {
		return keys
	}
	for key, since := range keySince {
		if since <= v.Minor {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// Since returns the schema version that introduced key.
func Since(key string) (SchemaVersion, bool) {
	minor, ok := keySince[key]
	if !ok {
		return SchemaVersion{}, false
	}
	return SchemaVersion{Major: Current().Major, Minor: minor}, true
}

// KeyResult holds the outcome of checking a file's keys against its schema.
type KeyResult struct {
	// Unknown lists keys no schema revision of this build defines.
	Unknown []string

	// TooNew lists known keys introduced after the file's schema, in the
	// form "key (since 1.1)".
	TooNew []string
}

// Valid reports whether every key is usable under the checked schema.
func (r KeyResult) Valid() bool {
	return len(r.Unknown) == 0 && len(r.TooNew) == 0
}

func (r KeyResult) String() string {
	var parts []string
	if len(r.Unknown) > 0 {
		parts = append(parts, "unsupported keys: "+strings.Join(r.Unknown, ", "))
	}
	if len(r.TooNew) > 0 {
		parts = append(parts, "keys newer than file schema: "+strings.Join(r.TooNew, ", "))
	}
	return strings.Join(parts, "; ")
}

// CheckKeys sorts the keys used by a file written for schema v into the
// ones this build does not know and the ones v does not define yet.
func CheckKeys(v SchemaVersion, keys []string) KeyResult {
	var result KeyResult
	for _, key := range keys {
		since, ok := Since(key)
		switch {
		case !ok:
			result.Unknown = append(result.Unknown, key)
		case since.Minor > v.Minor:
			result.TooNew = append(result.TooNew, fmt.Sprintf("%s (since %s)", key, since))
		}
	}
	slices.Sort(result.Unknown)
	slices.Sort(result.TooNew)
	return result
}

// Supported checks that a file written for schema v can be read by this
// build. The error wraps ErrMajorMismatch or ErrNewerSchema.
func Supported(v SchemaVersion) error {
	cur := Current()
	switch {
	case v.Major != cur.Major:
		return fmt.Errorf("%w: file %s, supported %d.x", ErrMajorMismatch, v, cur.Major)
	case v.Minor > cur.Minor:
		return fmt.Errorf("%w: file %s, supported up to %s", ErrNewerSchema, v, cur)
	}
	return nil
}
