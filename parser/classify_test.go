package parser

import (
	"errors"
	"testing"
)

func newTestParser() *Parser {
	kw := DefaultKeywords()
	kw.AddEnvironment("sub")
	return New(kw)
}

func TestClassifyStatements(t *testing.T) {
	tests := []struct {
		src  string
		want Kind
	}{
		{"$x = 1;", StmtAssign},
		{"$x += 1;", StmtAssignOp},
		{"$x++;", StmtAssignOp},
		{"($a, $b) = @(1, 2);", StmtAssignTuple},
		{"@a[0] = 1;", StmtAssign},
		{"if ($x) { 1; }", StmtIf},
		{"if ($x) { 1; } else if ($y) { 2; } else { 3; }", StmtIf},
		{"while ($x < 3) { $x++; }", StmtWhile},
		{"while $line (readln()) { 1; }", StmtAssignWhile},
		{"while $line = (readln()) { 1; }", StmtAssignWhile},
		{"for ($i = 0; $i < 3; $i++) { 1; }", StmtFor},
		{"foreach $v (@a) { 1; }", StmtForeach},
		{"foreach $k => $v (%h) { 1; }", StmtForeachKV},
		{"try { 1; } catch $e { 2; }", StmtTry},
		{"sub foo { 1; }", StmtBind},
		{"sub ($x) { 1; }", StmtBindPredicate},
		{"sub foo bar { 1; }", StmtBindFilter},
		{"return;", StmtReturn},
		{"return $x + 1;", StmtReturn},
		{"break;", StmtBreak},
		{"continue;", StmtContinue},
		{"throw 'oops';", StmtThrow},
		{"yield 3;", StmtYield},
		{"callcc &f;", StmtCallcc},
		{"halt;", StmtHalt},
		{"done;", StmtDone},
		{"println('hi');", StmtExpression},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			stmts, err := p.ParseStatements(tt.src, 1)
			if err != nil {
				t.Fatalf("ParseStatements() error = %v", err)
			}
			if len(stmts) != 1 {
				t.Fatalf("got %d statements", len(stmts))
			}
			if stmts[0].Kind != tt.want {
				t.Errorf("Kind = %v, want %v", stmts[0].Kind, tt.want)
			}
		})
	}
}

func TestClassifyValues(t *testing.T) {
	tests := []struct {
		src  string
		want Kind
	}{
		{"'lit'", ValueLiteral},
		{`"hello $name"`, ValueString},
		{"`ls`", ValueBacktick},
		{"42", ValueNumber},
		{"0xff", ValueNumber},
		{"-7", ValueNumber},
		{"42L", ValueLong},
		{"4.5", ValueDouble},
		{"1e3", ValueDouble},
		{"true", ValueBoolean},
		{"$null", ValueNull},
		{"^Thing", ValueClass},
		{"{ 1; }", ValueBlock},
		{"&foo", ValueFunction},
		{"$x", ValueVariable},
		{"@list", ValueVariable},
		{"%map", ValueVariable},
		{"$x[1]", ValueIndexed},
		{"foo(1)[0]", ValueIndexed},
		{"'a' => 1", ValueHashPair},
		{"foo(1, 2)", ValueCall},
		{"[new Thing: 1]", ValueObjectNew},
		{"[$obj run: 1, 2]", ValueObjectAccess},
		{"[$closure]", ValueObjectAccess},
		{"[Thing make: 3]", ValueObjectStatic},
		{"@(1, 2)", ValueArray},
		{"%(a => 1)", ValueHash},
		{"(1 + 2)", ValueGroup},
		{"1 + 2", ValueOperation},
		{"$a % 2", ValueOperation},
		{"-$x", ValueNegate},
		{"$a == 3", ValuePredicate},
		{"bareword", ValueLiteral},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, err := p.ParseValueText(tt.src, 1)
			if err != nil {
				t.Fatalf("ParseValueText() error = %v", err)
			}
			if v.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", v.Kind, tt.want)
			}
		})
	}
}

func TestOperatorSplitting(t *testing.T) {
	tests := []struct {
		src       string
		wantOp    string
		wantLeft  string
		wantRight string
	}{
		{"1 + 2 * 3", "+", "1", "2 * 3"},
		{"2 * 3 + 1", "+", "2 * 3", "1"},
		{"1 - 2 - 3", "-", "1 - 2", "3"},
		{"2 * 3 / 4", "/", "2 * 3", "4"},
		{"$a . $b . $c", ".", "$a . $b", "$c"},
		{"'k' => 1 + 2", "=>", "'k'", "1 + 2"},
		{"$a % 2", "%", "$a", "2"},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, err := p.ParseValueText(tt.src, 1)
			if err != nil {
				t.Fatalf("ParseValueText() error = %v", err)
			}
			if v.Op != tt.wantOp || joinText(v.Left) != tt.wantLeft || joinText(v.Right) != tt.wantRight {
				t.Errorf("got %q %q %q", joinText(v.Left), v.Op, joinText(v.Right))
			}
		})
	}
}

func TestClassifyPredicates(t *testing.T) {
	tests := []struct {
		src  string
		want Kind
		op   string
	}{
		{"$a == 1", PredBinary, "=="},
		{"$a !isin $b", PredBinary, "!isin"},
		{"-isarray @a", PredUnary, "-isarray"},
		{"!-isarray @a", PredUnary, "!-isarray"},
		{"$a && $b || $c", PredOr, "||"},
		{"$a < 1 && $b", PredAnd, "&&"},
		{"! $a", PredNot, ""},
		{"!$a", PredNot, ""},
		{"($a == 1)", PredGroup, ""},
		{"$a", PredValue, ""},
		{"foo(1)", PredValue, ""},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			pred, err := p.ParsePredicateText(tt.src, 1)
			if err != nil {
				t.Fatalf("ParsePredicateText() error = %v", err)
			}
			if pred.Kind != tt.want || pred.Op != tt.op {
				t.Errorf("got %v %q, want %v %q", pred.Kind, pred.Op, tt.want, tt.op)
			}
		})
	}
}

func TestSyntaxErrorsAreCollected(t *testing.T) {
	p := newTestParser()
	_, err := p.ParseStatements("$a = 1;\n$b $c;\nif $x { 1; }\n$d = 2;", 1)
	var list *ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("error = %v, want *ErrorList", err)
	}
	if len(list.Errors) != 2 {
		t.Fatalf("got %d errors: %v", len(list.Errors), list)
	}
	if list.Errors[0].Line != 2 || list.Errors[1].Line != 3 {
		t.Errorf("lines = %d, %d", list.Errors[0].Line, list.Errors[1].Line)
	}
}

func TestBadStatements(t *testing.T) {
	bad := []string{
		"$x = ;",
		"3 = $x;",
		"foreach (@a) { 1; }",
		"try { 1; }",
		"break 3;",
		"throw;",
		"$a +;",
		"else { 1; }",
		"if ($a) { 1; } else 3;",
	}
	p := newTestParser()
	for _, src := range bad {
		t.Run(src, func(t *testing.T) {
			if _, err := p.ParseStatements(src, 1); err == nil {
				t.Errorf("ParseStatements(%q) should fail", src)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	got := Segments("foo(1, (2))[\"]\"][3]")
	want := []string{"foo", "(1, (2))", "[\"]\"]", "[3]"}
	if len(got) != len(want) {
		t.Fatalf("Segments() = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, got[i], want[i])
		}
	}
}
