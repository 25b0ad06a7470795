package utils

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// ChunkSize is the read buffer used when hashing, so memory stays constant
// regardless of file size.
const ChunkSize = 4096

// Algorithm names a content digest function
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
)

// DefaultAlgorithm produces a 128-bit digest
const DefaultAlgorithm = MD5

// Algorithms lists the supported digest functions
func Algorithms() []Algorithm {
	return []Algorithm{MD5, SHA1, SHA256}
}

// ParseAlgorithm converts a config value into an Algorithm. An empty string
// selects DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultAlgorithm, nil
	case MD5:
		return MD5, nil
	case SHA1, "sha-1":
		return SHA1, nil
	case SHA256, "sha-256":
		return SHA256, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// New returns a fresh hash.Hash for the algorithm
func (a Algorithm) New() hash.Hash {
	switch a {
	case SHA1:
		return sha1.New()
	case SHA256:
		return sha256.New()
	default:
		return md5.New()
	}
}

// Size returns the digest width in bytes
func (a Algorithm) Size() int {
	return a.New().Size()
}

// HashFile computes the hex digest of the full content of a file,
// reading it ChunkSize bytes at a time
func HashFile(filepath string, algo Algorithm) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return HashReader(file, algo)
}

// HashReader computes the hex digest of everything readable from r
func HashReader(r io.Reader, algo Algorithm) (string, error) {
	h := algo.New()
	buf := make([]byte, ChunkSize)
	// Wrap r so io.CopyBuffer can't bypass buf through WriterTo.
	if _, err := io.CopyBuffer(h, struct{ io.Reader }{r}, buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
