package parser

import (
	"testing"

	"swiftstyle/internal/ast"
)

// bindingValue returns the last child of the first binding in `let v ...`.
func bindingValue(t *testing.T, tree *ast.Tree) ast.NodeID {
	t.Helper()
	id, n := findFirst(tree, ast.KindBinding)
	if n == nil || len(n.Children) < 2 {
		t.Fatalf("no binding value in tree")
	}
	return tree.Children(id)[len(n.Children)-1]
}

func TestParseExpressionShapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a + b * c", "(BinaryExpr + (IdentExpr a) (BinaryExpr * (IdentExpr b) (IdentExpr c)))"},
		{"a * b + c", "(BinaryExpr + (BinaryExpr * (IdentExpr a) (IdentExpr b)) (IdentExpr c))"},
		{"a ?? b ?? c", "(BinaryExpr ?? (IdentExpr a) (BinaryExpr ?? (IdentExpr b) (IdentExpr c)))"},
		{"x != nil && y", "(BinaryExpr && (BinaryExpr != (IdentExpr x) (LiteralExpr nil)) (IdentExpr y))"},
		{"a ? b : c", "(TernaryExpr ?: (IdentExpr a) (IdentExpr b) (IdentExpr c))"},
		{"x as? Int", "(CastExpr as? (IdentExpr x) (TypeIdent Int))"},
		{"x is String", "(CastExpr is (IdentExpr x) (TypeIdent String))"},
		{"opt!.count", "(MemberExpr count (ForceUnwrapExpr ! (IdentExpr opt)))"},
		{"a?.b", "(MemberExpr b (OptionalChainExpr ? (IdentExpr a)))"},
		{"1..<n", "(BinaryExpr ..< (LiteralExpr 1) (IdentExpr n))"},
		{"a >> 2", "(BinaryExpr >> (IdentExpr a) (LiteralExpr 2))"},
		{"-x", "(PrefixExpr - (IdentExpr x))"},
		{"!flag && ok", "(BinaryExpr && (PrefixExpr ! (IdentExpr flag)) (IdentExpr ok))"},
		{"[1, 2]", "(ArrayExpr (LiteralExpr 1) (LiteralExpr 2))"},
		{"[:]", "(DictExpr)"},
		{`["a": 1]`, `(DictExpr (DictElement (LiteralExpr "a") (LiteralExpr 1)))`},
		{"(a, b)", "(TupleExpr (IdentExpr a) (IdentExpr b))"},
		{"(a)", "(ParenExpr (IdentExpr a))"},
		{".red", "(ImplicitMemberExpr red)"},
		{`\Person.name`, `(KeyPathExpr \Person.name)`},
		{"pair.0", "(MemberExpr 0 (IdentExpr pair))"},
		{"self.value", "(MemberExpr value (SelfExpr self))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree := mustParse(t, "let v = "+tt.src)
			if got := sexpr(tree, bindingValue(t, tree)); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParseTypeShapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"[String: Int]", "(DictType (TypeIdent String) (TypeIdent Int))"},
		{"[Int]", "(ArrayType (TypeIdent Int))"},
		{"Int?", "(OptionalType ? (TypeIdent Int))"},
		{"Int!", "(IUOType ! (TypeIdent Int))"},
		{"Array<Array<Int>>", "(TypeIdent Array (TypeIdent Array (TypeIdent Int)))"},
		{"(Int) throws -> Void", "(FunctionType -> (TupleType (TupleTypeElement (TypeIdent Int))) (TypeIdent Void))"},
		{"some View", "(OpaqueType some (TypeIdent View))"},
		{"Foo.Bar", "(MemberType Foo.Bar (TypeIdent Foo))"},
		{"P & Q", "(CompositionType & (TypeIdent P) (TypeIdent Q))"},
		{"Int.Type", "(Metatype Type (TypeIdent Int))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree := mustParse(t, "let v: "+tt.src)
			if got := sexpr(tree, bindingValue(t, tree)); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParseGenericSpecializationVersusComparison(t *testing.T) {
	tree := mustParse(t, "let a = make<Int>(3)\nlet b = x<y")
	if countKind(tree, ast.KindSpecializeExpr) != 1 {
		t.Fatalf("expected one SpecializeExpr")
	}
	found := false
	for _, n := range tree.All() {
		if n.Kind == ast.KindBinaryExpr && n.Text == "<" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected x<y to parse as comparison")
	}
}

func TestParseTrailingClosures(t *testing.T) {
	src := `let doubled = items.map { $0 * 2 }
let sum = items.reduce(0, +)
let f = { (a: Int, b: Int) -> Int in a + b }
view.animate(duration: 1) {
    layout()
} completion: { _ in
}
`
	tree := mustParse(t, src)
	if got := countKind(tree, ast.KindClosureExpr); got != 4 {
		t.Fatalf("closures = %d, want 4", got)
	}
	if got := countKind(tree, ast.KindClosureSignature); got != 2 {
		t.Fatalf("closure signatures = %d, want 2", got)
	}
	labeled := false
	for _, n := range tree.All() {
		if n.Kind == ast.KindClosureExpr && n.Label == "completion" {
			labeled = true
		}
	}
	if !labeled {
		t.Fatalf("labeled trailing closure not recorded")
	}
}

func TestParseConditionDoesNotTakeTrailingClosure(t *testing.T) {
	tree := mustParse(t, "if list.isEmpty {\n    print(1)\n}\nwhile queue.isEmpty == false { queue.pop() }")
	if got := countKind(tree, ast.KindClosureExpr); got != 0 {
		t.Fatalf("closures = %d, want 0", got)
	}
	if countKind(tree, ast.KindIfStmt) != 1 || countKind(tree, ast.KindWhileStmt) != 1 {
		t.Fatalf("unexpected tree: %s", sexpr(tree, tree.Root))
	}
}

func TestParseCallArguments(t *testing.T) {
	tree := mustParse(t, "let s = #selector(tap(_:))\nlet p = Point(x: 1, y: 2)")
	_, call := findFirst(tree, ast.KindCallExpr)
	if call == nil {
		t.Fatal("no call")
	}
	var labels []string
	for _, n := range tree.All() {
		if n.Kind == ast.KindArg && n.Label != "" {
			labels = append(labels, n.Label)
		}
	}
	want := []string{"_", "x", "y"}
	if len(labels) != len(want) {
		t.Fatalf("labels = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("labels = %v, want %v", labels, want)
		}
	}
}
