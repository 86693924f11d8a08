package cmd

import "testing"

func TestParseJSONTreeRejectsInvalidJSON(t *testing.T) {
	if _, err := parseJSONTree([]byte("not json")); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestParseJSONTreeRejectsMissingKind(t *testing.T) {
	if _, err := parseJSONTree([]byte(`{"text": "x"}`)); err == nil {
		t.Error("expected an error for a tree with no \"kind\" field")
	}
}

func TestParseJSONTreeWalksChildrenAndAttrs(t *testing.T) {
	doc := `{
		"kind": "program",
		"children": [
			{"kind": "identifier", "text": "x"},
			{"kind": "varDecl", "attrs": {"name": "y"}}
		]
	}`
	tree, err := parseJSONTree([]byte(doc))
	if err != nil {
		t.Fatalf("parseJSONTree: %v", err)
	}
	if tree.Kind() != "program" {
		t.Errorf("Kind() = %q, want program", tree.Kind())
	}
	children := tree.Children()
	if len(children) != 2 {
		t.Fatalf("Children() = %d, want 2", len(children))
	}
	if children[0].Kind() != "identifier" || children[0].Text() != "x" {
		t.Errorf("children[0] = %q/%q, want identifier/x", children[0].Kind(), children[0].Text())
	}
	if children[1].Attr("name") != "y" {
		t.Errorf("children[1].Attr(name) = %q, want y", children[1].Attr("name"))
	}
}
