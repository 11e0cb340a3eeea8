package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/repolens/pkg/types"
)

// fencedBlockPattern matches a complete ``` fence pair, with an optional
// language tag on the opening line.
var fencedBlockPattern = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)\\n```")

// proseStrategy handles markup and plain-text languages. Markdown gets
// header extraction; every prose language gets a fenced code block count.
type proseStrategy struct {
	name    string
	headers bool
}

func newProseStrategy(name string, headers bool) *proseStrategy {
	return &proseStrategy{name: name, headers: headers}
}

func (s *proseStrategy) Name() string { return s.name }

func (s *proseStrategy) Extract(content string) (*Extraction, error) {
	ext := &Extraction{}

	if s.headers {
		for i, line := range strings.Split(content, "\n") {
			if !strings.HasPrefix(strings.TrimSpace(line), "#") {
				continue
			}
			// Depth counts the leading # run on the raw line, so an
			// indented heading reports depth zero.
			depth := len(line) - len(strings.TrimLeft(line, "#"))
			title := strings.TrimSpace(strings.Trim(line, "#"))
			ext.Functions = append(ext.Functions, types.FunctionRecord{
				Name: title,
				Line: i + 1,
				Kind: fmt.Sprintf("%s%d", types.KindHeaderPrefix, depth),
			})
		}
	}

	ext.CodeBlocks = len(fencedBlockPattern.FindAllStringIndex(content, -1))
	return ext, nil
}
