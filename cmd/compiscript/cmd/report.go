package cmd

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/compiscript-lang/compiscript/internal/reporter"
	"github.com/compiscript-lang/compiscript/pkg/compiscript"
)

// buildReport assembles the {ok, errors, ir?} JSON shape field by field
// with sjson, rather than hand-rolling encoding/json struct tags: the
// report's shape is a CLI convenience, not part of the pipeline's
// exported types, and sjson lets it stay that way. irText is omitted
// from the report when empty (the check subcommand never lowers).
func buildReport(result *compiscript.Result, irText string) (string, error) {
	doc := "{}"
	var err error

	doc, err = sjson.Set(doc, "ok", result.Ok())
	if err != nil {
		return "", err
	}

	doc, err = sjson.SetRaw(doc, "errors", "[]")
	if err != nil {
		return "", err
	}
	for i, d := range result.Diagnostics {
		base := fmt.Sprintf("errors.%d", i)
		doc, err = sjson.Set(doc, base+".code", string(d.Code))
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, base+".severity", d.Severity.String())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, base+".message", d.Message)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, base+".line", d.Pos.Line)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, base+".column", d.Pos.Column)
		if err != nil {
			return "", err
		}
	}

	if irText != "" {
		doc, err = sjson.Set(doc, "ir", irText)
		if err != nil {
			return "", err
		}
	}

	return doc, nil
}

func errorCount(diags []reporter.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == reporter.SeverityError {
			n++
		}
	}
	return n
}

// printReport renders the JSON report, either as a single field pulled
// out via a gjson path (--query) or pretty-printed in full.
func printReport(doc, query string) {
	if query != "" {
		fmt.Println(gjson.Get(doc, query).String())
		return
	}
	fmt.Println(string(pretty.Pretty([]byte(doc))))
}
