// Package fingerprint computes hex digests of files by streaming them
// through the standard library hash implementations.
package fingerprint

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
)

// chunkSize is the read buffer used while streaming a file
const chunkSize = 32 * 1024

// New returns a fresh hash for the algorithm
func New(alg models.Algorithm) (hash.Hash, error) {
	switch alg {
	case models.MD5:
		return md5.New(), nil
	case models.SHA1:
		return sha1.New(), nil
	case models.SHA256:
		return sha256.New(), nil
	}
	return nil, fmt.Errorf("%w: unsupported algorithm %q", models.ErrDigest, alg)
}

// File computes one digest of the file at path
func File(ctx context.Context, path string, alg models.Algorithm) (models.Digest, error) {
	digests, err := Files(ctx, path, alg)
	if err != nil {
		return models.Digest{}, err
	}
	return digests[alg], nil
}

// Files computes digests for every requested algorithm in a single read pass.
// A deadline on ctx bounds the whole read; when it expires the file is closed
// and an ErrIO wrapping the context error is returned.
func Files(ctx context.Context, path string, algs ...models.Algorithm) (map[models.Algorithm]models.Digest, error) {
	hashes := make(map[models.Algorithm]hash.Hash, len(algs))
	writers := make([]io.Writer, 0, len(algs))
	for _, alg := range algs {
		if _, ok := hashes[alg]; ok {
			continue
		}
		h, err := New(alg)
		if err != nil {
			return nil, err
		}
		hashes[alg] = h
		writers = append(writers, h)
	}
	if len(writers) == 0 {
		return nil, fmt.Errorf("%w: no algorithm requested", models.ErrDigest)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrIO, path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	defer file.Close()

	done := make(chan error, 1)
	go func() {
		buf := make([]byte, chunkSize)
		_, err := io.CopyBuffer(io.MultiWriter(writers...), &ctxReader{ctx: ctx, r: file}, buf)
		done <- err
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		// Unblock a read stuck in the kernel, then wait for the goroutine so
		// the hashes are no longer touched
		file.Close()
		<-done
		err = ctx.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", models.ErrIO, path, err)
	}

	out := make(map[models.Algorithm]models.Digest, len(hashes))
	for alg, h := range hashes {
		out[alg] = models.Digest{Algorithm: alg, Hex: hex.EncodeToString(h.Sum(nil))}
	}
	return out, nil
}

// Compare reports whether two hex digests are equal, ignoring case and
// surrounding whitespace
func Compare(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ctxReader stops a streaming read between chunks once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := c.r.Read(p)
	if err != nil && errors.Is(err, os.ErrClosed) && c.ctx.Err() != nil {
		return n, c.ctx.Err()
	}
	return n, err
}
