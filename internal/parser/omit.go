package parser

import (
	"strings"

	"github.com/cmmoran/nestgen/internal/model"
)

// shouldOmitDecl reports whether a flattened declaration is provided by the
// host package and must not be declared again.
func shouldOmitDecl(decl *model.StructDecl, opts *Options) bool {
	if decl == nil {
		return true
	}
	for _, ex := range opts.ExcludeTypes {
		if strings.EqualFold(ex, decl.Name) {
			return true
		}
	}
	return false
}

// attributeKind classifies an attribute for Go materialization.
type attributeKind int

const (
	attrMarker attributeKind = iota
	attrDoc
	attrDeprecated
	attrTag
)

func classifyAttribute(a model.Attribute, onField bool) attributeKind {
	switch a.Name {
	case "doc":
		if _, ok := a.Value(); ok {
			return attrDoc
		}
	case "deprecated":
		return attrDeprecated
	}
	if onField && isTagKey(a.Name) {
		if _, ok := a.Value(); ok {
			return attrTag
		}
	}
	return attrMarker
}

// isTagKey reports whether name can be used as a struct tag key.
func isTagKey(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r <= ' ' || r == ':' || r == '"' || r == 0x7f {
			return false
		}
	}
	return true
}
