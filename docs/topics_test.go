package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestTopics checks that readme.md lists exactly the topic files.
func TestTopics(t *testing.T) {
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); m != nil {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := Topic(topic); err != nil {
			t.Errorf("readme.md lists %q: %v", topic, err)
		}
	}
	for _, topic := range All() {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestTopicsStar(t *testing.T) {
	all, err := Topics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range All() {
		content, _ := Topic(topic)
		if !strings.Contains(all, content) {
			t.Errorf("Topics(*) is missing %q", topic)
		}
	}
	if _, err := Topic("nope"); err == nil {
		t.Errorf("Topic(nope) succeeded, want error")
	}
}

// TestTopicStructure checks that every topic opens with a level 1 heading
// and that console examples only call txi.
func TestTopicStructure(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			content, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			root := goldmark.DefaultParser().Parse(text.NewReader(content))

			first := root.FirstChild()
			if h, ok := first.(*ast.Heading); !ok || h.Level != 1 {
				t.Errorf("%s does not start with a level 1 heading", file)
			}

			ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				fcb, ok := n.(*ast.FencedCodeBlock)
				if !entering || !ok || string(fcb.Language(content)) != "console" {
					return ast.WalkContinue, nil
				}
				for i := 0; i < fcb.Lines().Len(); i++ {
					line := fcb.Lines().At(i)
					cmd := strings.TrimSpace(string(line.Value(content)))
					if strings.HasPrefix(cmd, "$ ") && !strings.HasPrefix(cmd, "$ txi ") {
						t.Errorf("%s: example %q does not run txi", file, cmd)
					}
				}
				return ast.WalkContinue, nil
			})
		})
	}
}
