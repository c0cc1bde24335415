// Package docs holds the user documentation of txi, one markdown file per
// topic.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// Topic returns the content of a documentation topic. "readme" is the index.
func Topic(name string) (string, error) {
	content, err := files.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Topics concatenates several topics; "*" stands for all of them.
func Topics(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		expanded := []string{name}
		if name == "*" {
			expanded = All()
		}
		for _, n := range expanded {
			content, err := Topic(n)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// All returns the sorted names of every topic but the index.
func All() []string {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		// the embedded directory always exists
		panic(err)
	}
	var topics []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if e.IsDir() || name == "readme" {
			continue
		}
		topics = append(topics, name)
	}
	slices.Sort(topics)
	return topics
}
