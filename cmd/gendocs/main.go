package main

import (
	"log"
	"os"

	"github.com/SethMC26/3320-antivirus-Final/internal/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	mdDir := "./docs/cli"
	manDir := "./docs/man"
	for _, dir := range []string{mdDir, manDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	root := cli.RootCmd()
	root.DisableAutoGenTag = true

	if err := doc.GenMarkdownTree(root, mdDir); err != nil {
		log.Fatal(err)
	}
	header := &doc.GenManHeader{
		Title:   "PPROC",
		Section: "1",
	}
	if err := doc.GenManTree(root, header, manDir); err != nil {
		log.Fatal(err)
	}
}
