package ir

import (
	"strings"

	"inkanalyzer/internal/syntax"
)

// maxResolveDepth bounds how many `use` indirections are followed.
const maxResolveDepth = 10

// ResolveItem resolves a Rust path (e.g. `crate::erc20::Erc20`) as seen from
// node to an item of the given syntax kind in the same file. Only items,
// modules and `use` declarations of the current file are considered; nil is
// returned for anything else.
func ResolveItem(path string, from *syntax.Node, kind string) *syntax.Node {
	if path == "" || from == nil {
		return nil
	}
	return resolvePath(splitPath(path), moduleScope(from), kind, 0)
}

func splitPath(path string) []string {
	return strings.Split(stripSpace(path), "::")
}

// moduleScope returns the item container (file root or module body) n lives in.
func moduleScope(n *syntax.Node) *syntax.Node {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Kind() {
		case syntax.KindSourceFile:
			return cur
		case syntax.KindDeclarationList:
			if p := cur.Parent(); p != nil && p.Kind() == syntax.KindModItem {
				return cur
			}
		}
	}
	return nil
}

func rootScope(n *syntax.Node) *syntax.Node {
	return n.Tree().Root()
}

func parentScope(scope *syntax.Node) *syntax.Node {
	if scope.Kind() == syntax.KindSourceFile {
		return nil
	}
	return moduleScope(scope.Parent())
}

func resolvePath(segments []string, scope *syntax.Node, kind string, depth int) *syntax.Node {
	if scope == nil || len(segments) == 0 || depth > maxResolveDepth {
		return nil
	}
	switch segments[0] {
	case "", "crate":
		if len(segments) == 1 {
			return nil
		}
		return resolvePath(segments[1:], rootScope(scope), kind, depth)
	case "self":
		if len(segments) == 1 {
			return nil
		}
		return resolvePath(segments[1:], scope, kind, depth)
	case "super":
		if len(segments) == 1 {
			return nil
		}
		return resolvePath(segments[1:], parentScope(scope), kind, depth)
	}

	name := segments[0]
	if len(segments) == 1 {
		return lookup(name, scope, kind, depth)
	}
	mod := lookup(name, scope, syntax.KindModItem, depth)
	if mod == nil || mod.Body() == nil {
		return nil
	}
	return resolvePath(segments[1:], mod.Body(), kind, depth)
}

// resolveScope resolves a module path to the item container it names.
func resolveScope(segments []string, scope *syntax.Node, depth int) *syntax.Node {
	if scope == nil || depth > maxResolveDepth {
		return nil
	}
	if len(segments) == 0 {
		return scope
	}
	switch segments[0] {
	case "", "crate":
		return resolveScope(segments[1:], rootScope(scope), depth)
	case "self":
		return resolveScope(segments[1:], scope, depth)
	case "super":
		return resolveScope(segments[1:], parentScope(scope), depth)
	}
	mod := lookup(segments[0], scope, syntax.KindModItem, depth)
	if mod == nil {
		return nil
	}
	return resolveScope(segments[1:], mod.Body(), depth)
}

// lookup finds an item named name in scope, either declared there or
// brought in by a `use` declaration.
func lookup(name string, scope *syntax.Node, kind string, depth int) *syntax.Node {
	if scope == nil || depth > maxResolveDepth {
		return nil
	}
	for _, c := range scope.Children() {
		if c.Kind() == kind && c.Name() == name {
			return c
		}
	}
	for _, use := range scope.ChildrenOfKind(syntax.KindUseDeclaration) {
		arg := use.ChildByField("argument")
		if arg == nil {
			continue
		}
		for _, entry := range expandUseTree(normalizeUse(arg.Text()), "") {
			if entry.glob {
				target := resolveScope(splitPath(entry.path), scope, depth+1)
				if found := lookup(name, target, kind, depth+1); found != nil {
					return found
				}
				continue
			}
			if entry.alias != name {
				continue
			}
			if found := resolvePath(splitPath(entry.path), scope, kind, depth+1); found != nil {
				return found
			}
		}
	}
	return nil
}

type useEntry struct {
	path  string
	alias string
	glob  bool
}

// expandUseTree flattens a use tree such as `a::{b, c::d as e, f::*}` into
// one entry per imported name.
func expandUseTree(tree, prefix string) []useEntry {
	join := func(p, s string) string {
		if p == "" {
			return s
		}
		return p + "::" + s
	}
	if i := strings.IndexByte(tree, '{'); i >= 0 && strings.HasSuffix(tree, "}") {
		base := join(prefix, strings.TrimSuffix(tree[:i], "::"))
		if tree[:i] == "" || tree[:i] == "::" {
			base = prefix
		}
		var out []useEntry
		for _, part := range splitTopLevel(tree[i+1 : len(tree)-1]) {
			if part == "" {
				continue
			}
			if part == "self" {
				out = append(out, useEntry{path: base, alias: lastSegment(base)})
				continue
			}
			out = append(out, expandUseTree(part, base)...)
		}
		return out
	}
	if strings.HasSuffix(tree, "*") {
		return []useEntry{{path: join(prefix, strings.TrimSuffix(strings.TrimSuffix(tree, "*"), "::")), glob: true}}
	}
	path, alias := tree, ""
	if i := strings.Index(tree, " as "); i > 0 {
		path, alias = tree[:i], tree[i+len(" as "):]
	}
	path = join(prefix, path)
	if alias == "" {
		alias = lastSegment(path)
	}
	if alias == "_" {
		return nil
	}
	return []useEntry{{path: path, alias: alias}}
}

// normalizeUse collapses whitespace in a use tree, keeping the single
// space around `as`.
func normalizeUse(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	for _, tok := range []string{"::", "{", "}", ","} {
		s = strings.ReplaceAll(s, " "+tok, tok)
		s = strings.ReplaceAll(s, tok+" ", tok)
	}
	return s
}

func splitTopLevel(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "::"); i >= 0 {
		return path[i+2:]
	}
	return path
}
