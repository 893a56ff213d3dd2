package signatures

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
)

// Result is the outcome of looking a digest up in one blocklist
type Result int

const (
	NotFound Result = iota
	Found
	ListUnavailable
)

func (r Result) String() string {
	switch r {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	default:
		return "list unavailable"
	}
}

// Blocklist is a newline-delimited file of hex digests for one algorithm.
// It is read-only to the scanner and needs no locking.
type Blocklist struct {
	Algorithm models.Algorithm
	Path      string
}

// NewBlocklist creates a blocklist reference
func NewBlocklist(alg models.Algorithm, path string) *Blocklist {
	return &Blocklist{Algorithm: alg, Path: path}
}

// Match scans the list line by line and returns Found on the first line equal
// to the digest. The list is reopened on every call so administrative appends
// are picked up without a restart.
func (b *Blocklist) Match(ctx context.Context, digest models.Digest) (Result, error) {
	if digest.Algorithm != b.Algorithm {
		return NotFound, fmt.Errorf("%w: %s digest checked against %s list", models.ErrDigest, digest.Algorithm, b.Algorithm)
	}

	file, err := os.Open(b.Path)
	if err != nil {
		return ListUnavailable, fmt.Errorf("%w: %w", models.ErrListUnavailable, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 4096), 1024*1024)

	lines := 0
	for scanner.Scan() {
		// Checking every line would dominate the cost of huge lists
		if lines++; lines%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return NotFound, err
			}
		}

		if strings.TrimRight(scanner.Text(), "\r") == digest.Hex {
			return Found, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return ListUnavailable, fmt.Errorf("%w: read %s: %w", models.ErrListUnavailable, b.Path, err)
	}

	return NotFound, nil
}
