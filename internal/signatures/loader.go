package signatures

import (
	"errors"
	"io/fs"
	"os"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
)

// PathFunc maps an algorithm to its blocklist file
type PathFunc func(models.Algorithm) string

// Loader locates the per-algorithm blocklists
type Loader struct {
	pathFor PathFunc
}

// NewLoader creates a new blocklist loader
func NewLoader(pathFor PathFunc) *Loader {
	return &Loader{
		pathFor: pathFor,
	}
}

// Load returns one blocklist per algorithm, in the order given. Lists that do
// not exist are still returned so the missing-list policy is applied at match
// time; the second return value names the algorithms whose file is absent.
func (l *Loader) Load(algs []models.Algorithm) ([]*Blocklist, []models.Algorithm) {
	lists := make([]*Blocklist, 0, len(algs))
	var missing []models.Algorithm

	for _, alg := range algs {
		path := l.pathFor(alg)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, alg)
		}
		lists = append(lists, NewBlocklist(alg, path))
	}

	return lists, missing
}
