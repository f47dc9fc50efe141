package navtree

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
)

// TestAnnotateDataDriven runs the scenarios in testdata/annotate.
//
//	tree
//	<indented items: title [/url] [alias=/a,/b] [globals]>
//	----
//	<item count>
//
//	annotate url=<url> [all]
//	----
//	<Fprint output>
func TestAnnotateDataDriven(t *testing.T) {
	var tree *Tree
	datadriven.RunTest(t, "testdata/annotate", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "tree":
			var err error
			tree, err = parseTree(td.Input)
			if err != nil {
				return err.Error()
			}
			return fmt.Sprintf("%d items", tree.Len())

		case "annotate":
			var url string
			td.ScanArgs(t, "url", &url)
			lim := DefaultLimits()
			td.MaybeScanArgs(t, "fan-out", &lim.FanOut)
			td.MaybeScanArgs(t, "expand-depth", &lim.ExpandDepth)

			var b strings.Builder
			opts := PrintOptions{All: td.HasArg("all")}
			if err := Fprint(&b, tree.Annotate(url, lim), opts); err != nil {
				return err.Error()
			}
			return b.String()

		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}

// parseTree reads an indented outline, two spaces per level.
func parseTree(input string) (*Tree, error) {
	type frame struct {
		node  *Node
		depth int
	}
	var root *Node
	var stack []frame

	for line := range strings.SplitSeq(input, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")
		depth := (len(line) - len(trimmed)) / 2

		fields := strings.Fields(trimmed)
		n := &Node{Title: fields[0]}
		for _, f := range fields[1:] {
			switch {
			case f == "globals":
				n.IsGlobals = true
			case strings.HasPrefix(f, "alias="):
				n.DedicatedURLs = strings.Split(strings.TrimPrefix(f, "alias="), ",")
			case strings.HasPrefix(f, "/"):
				n.URL = f
			default:
				return nil, fmt.Errorf("unknown field %q", f)
			}
		}

		if root == nil {
			if depth != 0 {
				return nil, fmt.Errorf("first item must not be indented")
			}
			root = n
			stack = []frame{{node: n, depth: 0}}
			continue
		}
		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			return nil, fmt.Errorf("%q: more than one root", n.Title)
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, n)
		stack = append(stack, frame{node: n, depth: depth})
	}
	return FromNode(root)
}
