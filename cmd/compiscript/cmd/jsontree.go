package cmd

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/compiscript-lang/compiscript/internal/cst"
	"github.com/compiscript-lang/compiscript/internal/source"
)

// jsonTree adapts a gjson.Result to cst.Tree, letting this CLI drive
// the pipeline without a real Compiscript grammar front-end: a parse
// tree is instead supplied as JSON of the shape
//
//	{"kind": "program", "children": [...], "attrs": {...}, "text": "..."}
//
// This is a convenience for the CLI only; pkg/compiscript.Analyze takes
// any cst.Tree, JSON-backed or otherwise.
type jsonTree struct {
	result gjson.Result
}

func (t jsonTree) Kind() string { return t.result.Get("kind").String() }
func (t jsonTree) Text() string { return t.result.Get("text").String() }

func (t jsonTree) Attr(key string) string {
	return t.result.Get("attrs." + key).String()
}

func (t jsonTree) Pos() source.Position {
	return source.Position{
		Line:   int(t.result.Get("pos.line").Int()),
		Column: int(t.result.Get("pos.column").Int()),
		Offset: int(t.result.Get("pos.offset").Int()),
	}
}

func (t jsonTree) Children() []cst.Tree {
	arr := t.result.Get("children").Array()
	if len(arr) == 0 {
		return nil
	}
	children := make([]cst.Tree, len(arr))
	for i, c := range arr {
		children[i] = jsonTree{result: c}
	}
	return children
}

// parseJSONTree validates and wraps a JSON-encoded parse tree.
func parseJSONTree(data []byte) (cst.Tree, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.Get("kind").Exists() {
		return nil, fmt.Errorf(`parse tree root is missing a "kind" field`)
	}
	return jsonTree{result: root}, nil
}
