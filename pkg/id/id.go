package id

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalid = errors.New("invalid id")

// New returns a random v4 uuid as exactly 32 lowercase hex characters.
func New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Parse reads a positive decimal id (documents, members, steps).
func Parse(raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalid
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, ErrInvalid
	}
	return n, nil
}

// ParseList reads a comma separated list of ids, skipping blanks.
func ParseList(raw string) ([]uint64, error) {
	var out []uint64
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		n, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
