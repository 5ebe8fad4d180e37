package parser

import (
	"testing"

	"swiftstyle/internal/ast"
)

func TestParseStructMembers(t *testing.T) {
	src := `import Foundation
import struct Models.Point

struct Point: Equatable {
    var x: Int
    private(set) var y = 0
    func move(by dx: Int, _ dy: Int) -> Point { return self }
    static func == (lhs: Point, rhs: Point) -> Bool { true }
}
`
	tree := mustParse(t, src)

	var imports []string
	for _, n := range tree.All() {
		if n.Kind == ast.KindImportDecl {
			imports = append(imports, n.Text)
		}
	}
	if len(imports) != 2 || imports[0] != "Foundation" || imports[1] != "Models.Point" {
		t.Fatalf("imports = %v", imports)
	}

	sid, st := findFirst(tree, ast.KindStructDecl)
	if st == nil || st.Text != "Point" {
		t.Fatalf("struct decl missing: %s", sexpr(tree, tree.Root))
	}
	if tok, ok := tree.KeyToken(sid); !ok || tok.Text != "Point" {
		t.Fatalf("struct key token = %q", tok.Text)
	}
	if !tree.Child(sid, ast.KindInheritance).IsValid() {
		t.Fatalf("inheritance clause missing")
	}
	body := tree.Child(sid, ast.KindCodeBlock)
	if got := len(tree.Children(body)); got != 4 {
		t.Fatalf("members = %d, want 4", got)
	}

	var mods []string
	for _, n := range tree.All() {
		if n.Kind == ast.KindModifier {
			mods = append(mods, n.Text)
		}
	}
	if len(mods) != 2 || mods[0] != "private(set)" || mods[1] != "static" {
		t.Fatalf("modifiers = %v", mods)
	}

	type param struct{ label, name string }
	var params []param
	for _, n := range tree.All() {
		if n.Kind == ast.KindParam {
			params = append(params, param{n.Label, n.Text})
		}
	}
	want := []param{{"by", "dx"}, {"_", "dy"}, {"", "lhs"}, {"", "rhs"}}
	if len(params) != len(want) {
		t.Fatalf("params = %v, want %v", params, want)
	}
	for i := range want {
		if params[i] != want[i] {
			t.Fatalf("params = %v, want %v", params, want)
		}
	}

	var funcs []string
	for _, n := range tree.All() {
		if n.Kind == ast.KindFuncDecl {
			funcs = append(funcs, n.Text)
		}
	}
	if len(funcs) != 2 || funcs[0] != "move" || funcs[1] != "==" {
		t.Fatalf("funcs = %v", funcs)
	}
}

func TestParseEnumCases(t *testing.T) {
	src := `indirect enum Shape: Int {
    case circle(radius: Double), square
    indirect case node(Shape)
    case raw = 3
}
`
	tree := mustParse(t, src)
	var names []string
	for _, n := range tree.All() {
		if n.Kind == ast.KindEnumElement {
			names = append(names, n.Text)
		}
	}
	if len(names) != 4 || names[0] != "circle" || names[3] != "raw" {
		t.Fatalf("enum elements = %v", names)
	}
	if got := countKind(tree, ast.KindEnumCaseDecl); got != 3 {
		t.Fatalf("case decls = %d, want 3", got)
	}
	if got := countKind(tree, ast.KindModifier); got != 2 {
		t.Fatalf("modifiers = %d, want 2", got)
	}
}

func TestParseClassAccessors(t *testing.T) {
	src := `@MainActor
final class View: Base {
    class func make() -> View { View() }
    override init() { super.init() }
    deinit {}
    var size: Int {
        get { return 1 }
        set { store = newValue }
    }
    var title = "" {
        didSet { update() }
    }
    var area: Int { size * size }
    subscript(i: Int) -> Int { i }
    lazy var cache = [String: Int]()
    weak var delegate: Delegate?
}
`
	tree := mustParse(t, src)
	var accessors []string
	for _, n := range tree.All() {
		if n.Kind == ast.KindAccessor {
			accessors = append(accessors, n.Text)
		}
	}
	if len(accessors) != 3 || accessors[0] != "get" || accessors[1] != "set" || accessors[2] != "didSet" {
		t.Fatalf("accessors = %v", accessors)
	}
	for _, k := range []ast.Kind{ast.KindClassDecl, ast.KindInitDecl, ast.KindDeinitDecl, ast.KindSubscriptDecl, ast.KindAttribute} {
		if countKind(tree, k) != 1 {
			t.Errorf("expected exactly one %s", k)
		}
	}
	var mods []string
	for _, n := range tree.All() {
		if n.Kind == ast.KindModifier {
			mods = append(mods, n.Text)
		}
	}
	want := []string{"final", "class", "override", "lazy", "weak"}
	if len(mods) != len(want) {
		t.Fatalf("modifiers = %v, want %v", mods, want)
	}
	for i := range want {
		if mods[i] != want[i] {
			t.Fatalf("modifiers = %v, want %v", mods, want)
		}
	}
}

func TestParseProtocolAndExtension(t *testing.T) {
	src := `protocol Store: AnyObject {
    associatedtype Item: Hashable
    var count: Int { get }
    func load() async throws -> [Item]
    init(name: String)
}

extension Array: Store where Element: Hashable {
    typealias Handler = (Result<Int, Error>) -> Void
    func max<T: Comparable>(_ a: T, _ b: T) -> T where T: Hashable { a }
}

actor Counter {
    var n = 0
}

infix operator <>: AdditionPrecedence
`
	tree := mustParse(t, src)
	_, ext := findFirst(tree, ast.KindExtensionDecl)
	if ext == nil || ext.Text != "Array" {
		t.Fatalf("extension = %+v", ext)
	}
	for _, k := range []ast.Kind{
		ast.KindProtocolDecl, ast.KindAssociatedTypeDecl, ast.KindTypealiasDecl,
		ast.KindActorDecl, ast.KindOperatorDecl, ast.KindGenericParams, ast.KindWhereClause,
	} {
		if countKind(tree, k) == 0 {
			t.Errorf("missing %s", k)
		}
	}
	if got := countKind(tree, ast.KindAccessor); got != 1 {
		t.Fatalf("accessors = %d, want 1", got)
	}
}
