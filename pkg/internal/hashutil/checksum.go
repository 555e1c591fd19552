// Package hashutil computes content digests of resources.
package hashutil

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"slices"
	"strings"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// DefaultAlgorithm is used when none is configured
const DefaultAlgorithm = "sha256"

var algorithms = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// Algorithms returns the supported algorithm names, sorted
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate normalizes an algorithm name. Unknown names are CONFIG errors.
func Validate(algorithm string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	if name == "" {
		return DefaultAlgorithm, nil
	}
	if _, ok := algorithms[name]; !ok {
		return "", errors.Newf(errors.ErrConfig, "unknown hash algorithm %q", algorithm).
			WithDetail("available", Algorithms())
	}
	return name, nil
}

// Checksum returns the hex digest of the file at path on fsys
func Checksum(fsys types.FS, path, algorithm string) (string, error) {
	name, err := Validate(algorithm)
	if err != nil {
		return "", err
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}
	h := algorithms[name]()
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
