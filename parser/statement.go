package parser

// Kind tags a classified statement. Statement, value and predicate kinds
// form three disjoint categories.
type Kind int

const (
	// Statements
	StmtAssign Kind = iota
	StmtAssignOp
	StmtAssignTuple
	StmtIf
	StmtWhile
	StmtAssignWhile
	StmtFor
	StmtForeach
	StmtForeachKV
	StmtTry
	StmtBind
	StmtBindPredicate
	StmtBindFilter
	StmtReturn
	StmtBreak
	StmtContinue
	StmtThrow
	StmtYield
	StmtCallcc
	StmtHalt
	StmtDone
	StmtExpression

	// Values
	ValueLiteral
	ValueString
	ValueBacktick
	ValueNumber
	ValueLong
	ValueDouble
	ValueBoolean
	ValueNull
	ValueClass
	ValueBlock
	ValueFunction
	ValueVariable
	ValueIndexed
	ValueHashPair
	ValueCall
	ValueObjectNew
	ValueObjectAccess
	ValueObjectStatic
	ValueArray
	ValueHash
	ValueGroup
	ValueOperation
	ValueNegate
	ValuePredicate

	// Predicates
	PredBinary
	PredUnary
	PredNot
	PredAnd
	PredOr
	PredGroup
	PredValue
)

// Category groups kinds
type Category int

const (
	CategoryStatement Category = iota
	CategoryValue
	CategoryPredicate
)

// Category reports which grammar category k belongs to
func (k Kind) Category() Category {
	switch {
	case k <= StmtExpression:
		return CategoryStatement
	case k <= ValuePredicate:
		return CategoryValue
	default:
		return CategoryPredicate
	}
}

var kindNames = map[Kind]string{
	StmtAssign:        "assign",
	StmtAssignOp:      "assign-op",
	StmtAssignTuple:   "assign-tuple",
	StmtIf:            "if",
	StmtWhile:         "while",
	StmtAssignWhile:   "assign-while",
	StmtFor:           "for",
	StmtForeach:       "foreach",
	StmtForeachKV:     "foreach-kv",
	StmtTry:           "try",
	StmtBind:          "bind",
	StmtBindPredicate: "bind-predicate",
	StmtBindFilter:    "bind-filter",
	StmtReturn:        "return",
	StmtBreak:         "break",
	StmtContinue:      "continue",
	StmtThrow:         "throw",
	StmtYield:         "yield",
	StmtCallcc:        "callcc",
	StmtHalt:          "halt",
	StmtDone:          "done",
	StmtExpression:    "expression",
	ValueLiteral:      "literal",
	ValueString:       "string",
	ValueBacktick:     "backtick",
	ValueNumber:       "number",
	ValueLong:         "long",
	ValueDouble:       "double",
	ValueBoolean:      "boolean",
	ValueNull:         "null",
	ValueClass:        "class-literal",
	ValueBlock:        "block",
	ValueFunction:     "function-ref",
	ValueVariable:     "variable",
	ValueIndexed:      "indexed",
	ValueHashPair:     "hash-pair",
	ValueCall:         "call",
	ValueObjectNew:    "object-new",
	ValueObjectAccess: "object-access",
	ValueObjectStatic: "object-static",
	ValueArray:        "array-literal",
	ValueHash:         "hash-literal",
	ValueGroup:        "group",
	ValueOperation:    "operation",
	ValueNegate:       "negate",
	ValuePredicate:    "predicate-value",
	PredBinary:        "binary-predicate",
	PredUnary:         "unary-predicate",
	PredNot:           "not",
	PredAnd:           "and",
	PredOr:            "or",
	PredGroup:         "predicate-group",
	PredValue:         "value-predicate",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Statement is one classified unit. What each field holds depends on Kind:
//
//	StmtAssign, StmtAssignTuple   Left target, Right value
//	StmtAssignOp                  Op operator, Left target, Right value
//	StmtIf                        Tokens [pred, block], Right else tokens
//	StmtWhile                     Tokens [pred, block]
//	StmtAssignWhile               Tokens [var, (expr), block]
//	StmtFor                       Tokens [(init; pred; step), block]
//	StmtForeach                   Tokens [var, (expr), block]
//	StmtForeachKV                 Tokens [key, var, (expr), block]
//	StmtTry                       Tokens [block, var, block]
//	StmtBind                      Op keyword, Tokens [name, block]
//	StmtBindPredicate             Op keyword, Tokens [pred, block]
//	StmtBindFilter                Op keyword, Tokens [name, filter, block]
//	return family, StmtExpression Right value (may be empty)
//	ValueOperation, ValueHashPair Op, Left, Right
//	ValueIndexed                  Left base, Right [index]
//	ValueCall                     Op name, Right [(args)]
//	ValueObject*                  Left target, Op message, Right args
//	PredBinary                    Op, Left, Right
//	PredUnary                     Op, Right
//	PredNot, PredGroup            Right
//	PredAnd, PredOr               Left, Right
//	other values and PredValue    Tokens [the token]
type Statement struct {
	Kind   Kind
	Line   int
	Op     string
	Tokens []Token
	Left   []Token
	Right  []Token
}

// Token returns the first constituent token
func (s *Statement) Token() Token {
	if len(s.Tokens) > 0 {
		return s.Tokens[0]
	}
	if len(s.Left) > 0 {
		return s.Left[0]
	}
	if len(s.Right) > 0 {
		return s.Right[0]
	}
	return NewToken("", s.Line)
}

func (s *Statement) String() string {
	all := append(append(append([]Token{}, s.Left...), s.Tokens...), s.Right...)
	return s.Kind.String() + " " + joinText(all)
}
