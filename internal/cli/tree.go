package cli

import (
	"path/filepath"

	"github.com/disiqueira/gotree/v3"
)

// pathTree renders absolute paths as a directory tree
type pathTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func newPathTree(rootLabel string) pathTree {
	return pathTree{tree: gotree.New(rootLabel), dirs: make(map[string]gotree.Tree)}
}

func (t pathTree) dir(path string) gotree.Tree {
	if path == "/" || path == "." {
		return t.tree
	}
	if d, ok := t.dirs[path]; ok {
		return d
	}
	d := t.dir(filepath.Dir(path)).Add(filepath.Base(path) + "/")
	t.dirs[path] = d
	return d
}

// insert adds a leaf for path, labelled with its base name and suffix
func (t pathTree) insert(path, suffix string) {
	t.dir(filepath.Dir(path)).Add(filepath.Base(path) + suffix)
}

func (t pathTree) render() string {
	return t.tree.Print()
}
