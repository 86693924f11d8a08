// Package cst declares the shape an external Compiscript parser hands
// back to this module. Nothing in this package is implemented here: the
// concrete parse tree is produced by a grammar-generated (or hand-written)
// parser front-end that lives outside this pipeline (spec §6). astbuild
// walks any Tree that satisfies this interface.
package cst

import "github.com/compiscript-lang/compiscript/internal/source"

// Tree is a generic concrete-syntax-tree node. Kind identifies the grammar
// rule or token type the external parser assigned (e.g. "program",
// "ifStmt", "binaryExpr", "identifier"); Text is a token's literal text
// (an identifier's name, a literal's spelling); Attr looks up a named
// sub-value the builder needs but that isn't itself a child node (an
// operator string, a declared name, a type annotation's base name and
// rank). Children are in source order.
type Tree interface {
	Kind() string
	Text() string
	Attr(key string) string
	Children() []Tree
	Pos() source.Position
}

// ParserContext is the opaque state an external parser returns alongside
// the Tree (diagnostics collected during lexing/parsing, token stream
// handles, etc). The pipeline never inspects it; it exists purely so
// Parser's signature matches spec §6 exactly.
type ParserContext struct {
	SourceFile string
	SourceText string
}

// Parser is the external collaborator spec §6 calls "the parser": a
// function producing a parse tree from source text. The pipeline is
// parameterized over this interface and never implements a Compiscript
// grammar itself.
type Parser interface {
	Parse(sourceText string) (*ParserContext, Tree, error)
}
