package transform

import "github.com/go-doceng/doceng/test/builder"

var (
	schema = builder.Schema
	doc    = builder.Doc
	p      = builder.P
	h1     = builder.H1
)
