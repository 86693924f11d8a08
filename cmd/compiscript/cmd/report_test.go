package cmd

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/compiscript-lang/compiscript/internal/reporter"
	"github.com/compiscript-lang/compiscript/internal/source"
	"github.com/compiscript-lang/compiscript/pkg/compiscript"
)

func TestBuildReportOkWithNoDiagnostics(t *testing.T) {
	result := &compiscript.Result{}
	doc, err := buildReport(result, "")
	if err != nil {
		t.Fatalf("buildReport: %v", err)
	}
	if !gjson.Get(doc, "ok").Bool() {
		t.Error("ok should be true with no diagnostics")
	}
	if gjson.Get(doc, "errors").Array() != nil && len(gjson.Get(doc, "errors").Array()) != 0 {
		t.Errorf("errors = %v, want empty", gjson.Get(doc, "errors").Array())
	}
	if gjson.Get(doc, "ir").Exists() {
		t.Error("ir should be absent when irText is empty")
	}
}

func TestBuildReportIncludesEachDiagnostic(t *testing.T) {
	result := &compiscript.Result{
		Diagnostics: []reporter.Diagnostic{
			{Code: reporter.EUndeclared, Severity: reporter.SeverityError, Message: "undeclared x", Pos: source.Position{Line: 1, Column: 2}},
		},
	}
	doc, err := buildReport(result, "")
	if err != nil {
		t.Fatalf("buildReport: %v", err)
	}
	if gjson.Get(doc, "ok").Bool() {
		t.Error("ok should be false when a SeverityError diagnostic is present")
	}
	first := gjson.Get(doc, "errors.0")
	if first.Get("code").String() != "E100" {
		t.Errorf("errors.0.code = %q, want E100", first.Get("code").String())
	}
	if first.Get("line").Int() != 1 || first.Get("column").Int() != 2 {
		t.Errorf("errors.0 position = %d:%d, want 1:2", first.Get("line").Int(), first.Get("column").Int())
	}
}

func TestBuildReportIncludesIRWhenGiven(t *testing.T) {
	doc, err := buildReport(&compiscript.Result{}, "function main():\nL0:\n  return\n")
	if err != nil {
		t.Fatalf("buildReport: %v", err)
	}
	if gjson.Get(doc, "ir").String() == "" {
		t.Error("expected a non-empty ir field")
	}
}

func TestErrorCountIgnoresWarnings(t *testing.T) {
	diags := []reporter.Diagnostic{
		{Severity: reporter.SeverityWarning},
		{Severity: reporter.SeverityError},
		{Severity: reporter.SeverityError},
	}
	if got := errorCount(diags); got != 2 {
		t.Errorf("errorCount() = %d, want 2", got)
	}
}
