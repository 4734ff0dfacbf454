// Package security implements the credential hash used for stored
// passwords and session nonces. Hashes are deterministic and carry a
// $N$ version prefix so the format can evolve without rehashing every
// stored credential at once.
package security

import (
	"fmt"
	"regexp"
)

type hashVersionNumber int

// A box holding the version number and hash function for one format
// version.
type hashVersionRecord struct {
	Version hashVersionNumber
	Hash    func(plaintext string) string
}

// An immutable container of every known hash version. The last entry
// in the slice is the latest version.
type hashVersions struct {
	versions     []hashVersionRecord
	versionsByID map[hashVersionNumber]*hashVersionRecord
}

// The canonical version list. Maintained here and only here.
var knownVersions = newHashVersions(
	hashVersionRecord1,
)

func newHashVersions(records ...hashVersionRecord) hashVersions {
	if len(records) == 0 {
		panic("must be called with at least one version record")
	}

	versions := make([]hashVersionRecord, len(records))
	versionsByID := make(map[hashVersionNumber]*hashVersionRecord)

	for i, v := range records {
		if _, ok := versionsByID[v.Version]; ok {
			panic(fmt.Sprintf("duplicate hash version number %d", v.Version))
		}
		versions[i] = v
		versionsByID[v.Version] = &versions[i]
	}

	return hashVersions{versions, versionsByID}
}

func (h *hashVersions) Latest() hashVersionRecord {
	return h.versions[len(h.versions)-1]
}

var versionTag = regexp.MustCompile(`^\$(\d+)\$.+`)

// ComputeHash hashes a plaintext with the latest format version and
// prefixes the result with its version tag. The hash is deterministic:
// the same plaintext always produces the same output, so stored hashes
// compare by string equality.
func ComputeHash(plaintext string) string {
	latest := knownVersions.Latest()
	return fmt.Sprintf("$%d$%s", latest.Version, latest.Hash(plaintext))
}

// Version returns the version tag of a hash, or "" and false when the
// value carries no tag. Callers use this to tell an already-hashed
// value from a plaintext password before hashing.
func Version(hash string) (string, bool) {
	m := versionTag.FindStringSubmatch(hash)
	if m == nil {
		return "", false
	}
	return m[1], true
}
