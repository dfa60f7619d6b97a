package source

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Extract scans the top-level items under root.
//
// Public functions are returned in declaration order; public structs are
// indexed by name. Other item kinds and non-public items are ignored. A file
// with no qualifying items yields an empty (non-nil) result.
func Extract(root *sitter.Node, content []byte, filePath string) *Items {
	items := NewItems()
	if root == nil {
		return items
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child == nil || !isPublic(child, content) {
			continue
		}

		switch child.Type() {
		case "function_item":
			if fn, ok := extractFunc(child, content, filePath); ok {
				items.Funcs = append(items.Funcs, fn)
			}
		case "struct_item":
			if st, ok := extractStruct(child, content, filePath); ok {
				items.Structs[st.Name] = st
			}
		}
	}

	return items
}

// isPublic reports whether the item carries a bare `pub` visibility modifier.
func isPublic(node *sitter.Node, content []byte) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Type() == "visibility_modifier" {
			return NormalizeType(child.Content(content)) == "pub"
		}
	}
	return false
}

func extractFunc(node *sitter.Node, content []byte, filePath string) (FuncDecl, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return FuncDecl{}, false
	}

	fn := FuncDecl{
		Name:   nameNode.Content(content),
		Params: []ParamDecl{},
		Pos:    nodePos(node, filePath),
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			child := params.NamedChild(i)
			if child == nil || isTrivia(child.Type()) {
				continue
			}
			fn.Params = append(fn.Params, extractParam(child, content, filePath))
		}
	}

	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = NormalizeType(ret.Content(content))
		fn.HasReturn = true
	}

	return fn, true
}

func extractParam(node *sitter.Node, content []byte, filePath string) ParamDecl {
	param := ParamDecl{
		Pattern: PatternOther,
		Text:    node.Content(content),
		Pos:     nodePos(node, filePath),
	}

	switch node.Type() {
	case "self_parameter":
		param.Pattern = PatternSelf
	case "parameter":
		if ty := node.ChildByFieldName("type"); ty != nil {
			param.Type = NormalizeType(ty.Content(content))
		}
		pattern := node.ChildByFieldName("pattern")
		if pattern == nil {
			break
		}
		if pattern.Type() == "self" {
			param.Pattern = PatternSelf
		} else if name, ok := bindingName(pattern, content); ok {
			param.Pattern = PatternIdent
			param.Name = name
		}
	}

	return param
}

// bindingName unwraps `x`, `ref x`, `ref mut x` and `mut x` to the bound
// identifier. Any other pattern has no single name.
func bindingName(pattern *sitter.Node, content []byte) (string, bool) {
	switch pattern.Type() {
	case "identifier":
		return pattern.Content(content), true
	case "ref_pattern", "mut_pattern":
		var inner *sitter.Node
		for i := 0; i < int(pattern.NamedChildCount()); i++ {
			child := pattern.NamedChild(i)
			if child == nil || child.Type() == "mutable_specifier" {
				continue
			}
			if inner != nil {
				return "", false
			}
			inner = child
		}
		if inner == nil {
			return "", false
		}
		return bindingName(inner, content)
	}
	return "", false
}

func extractStruct(node *sitter.Node, content []byte, filePath string) (StructDecl, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return StructDecl{}, false
	}

	st := StructDecl{
		Name:   nameNode.Content(content),
		Layout: LayoutUnit,
		Fields: []FieldDecl{},
		Pos:    nodePos(node, filePath),
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "field_declaration_list":
			st.Layout = LayoutNamed
			st.Fields = extractNamedFields(child, content, filePath)
		case "ordered_field_declaration_list":
			st.Layout = LayoutTuple
			st.Fields = extractTupleFields(child, content, filePath)
		}
	}

	return st, true
}

func extractNamedFields(list *sitter.Node, content []byte, filePath string) []FieldDecl {
	fields := []FieldDecl{}
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		if child == nil || child.Type() != "field_declaration" {
			continue
		}
		field := FieldDecl{Pos: nodePos(child, filePath)}
		if name := child.ChildByFieldName("name"); name != nil {
			field.Name = name.Content(content)
		}
		if ty := child.ChildByFieldName("type"); ty != nil {
			field.Type = NormalizeType(ty.Content(content))
		}
		fields = append(fields, field)
	}
	return fields
}

// extractTupleFields reads `(pub A, B)`: every named child that is not a
// modifier or trivia is a field type.
func extractTupleFields(list *sitter.Node, content []byte, filePath string) []FieldDecl {
	fields := []FieldDecl{}
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		if child == nil || isTrivia(child.Type()) || child.Type() == "visibility_modifier" {
			continue
		}
		fields = append(fields, FieldDecl{
			Type: NormalizeType(child.Content(content)),
			Pos:  nodePos(child, filePath),
		})
	}
	return fields
}

func isTrivia(nodeType string) bool {
	switch nodeType {
	case "attribute_item", "line_comment", "block_comment":
		return true
	}
	return false
}
