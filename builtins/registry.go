package builtins

import (
	"slumber/vm"
)

// NewRegistry returns a registry with the standard bridges installed.
// patterns may be nil, in which case a default sized cache is used.
func NewRegistry(patterns *PatternCache) *vm.Registry {
	r := vm.NewRegistry()
	Register(r, patterns)
	return r
}

// Register installs every standard operator, predicate, function and
// bind keyword into r
func Register(r *vm.Registry, patterns *PatternCache) {
	if patterns == nil {
		patterns = NewPatternCache(DefaultPatternCacheSize)
	}

	registerOperators(r)
	registerPredicates(r, patterns)

	// Output
	r.RegisterFunc("println", builtinPrintln)
	r.RegisterFunc("print", builtinPrint)
	r.RegisterFunc("warn", builtinWarn)

	// Containers
	r.RegisterFunc("size", builtinSize)
	r.RegisterFunc("push", builtinPush)
	r.RegisterFunc("pop", builtinPop)
	r.RegisterFunc("shift", builtinShift)
	r.RegisterFunc("add", builtinAdd)
	r.RegisterFunc("remove", builtinRemove)
	r.RegisterFunc("removeAt", builtinRemoveAt)
	r.RegisterFunc("copy", builtinCopy)
	r.RegisterFunc("keys", builtinKeys)
	r.RegisterFunc("values", builtinValues)
	r.RegisterFunc("putAll", builtinPutAll)
	r.RegisterFunc("array", builtinArray)
	r.RegisterFunc("hash", hashBuiltin(false))
	r.RegisterFunc("ohash", hashBuiltin(false))
	r.RegisterFunc("ohasha", hashBuiltin(true))
	r.RegisterFunc("setRemovalPolicy", builtinSetRemovalPolicy)
	r.RegisterFunc("setMissPolicy", builtinSetMissPolicy)
	r.RegisterFunc("map", builtinMap)
	r.RegisterFunc("filter", builtinFilter)

	// Closures and scopes
	r.RegisterFunc("lambda", builtinLambda)
	r.RegisterFunc("let", builtinLet)
	r.RegisterFunc("local", builtinDeclare)
	r.RegisterFunc("this", builtinDeclare)
	r.RegisterFunc("global", builtinDeclare)
	r.RegisterFunc("undeclare", builtinUndeclare)
	r.RegisterFunc("invoke", builtinInvoke)
	r.RegisterFunc("typeOf", builtinTypeOf)
	r.RegisterFunc("checkError", builtinCheckError)
	r.RegisterFunc("debug", builtinDebug)
	r.RegisterFunc("iff", builtinIff)

	// Strings
	s := &stringBuiltins{patterns: patterns}
	r.RegisterFunc("join", builtinJoin)
	r.RegisterFunc("split", s.split)
	r.RegisterFunc("matches", s.matches)
	r.RegisterFunc("matched", builtinMatched)
	r.RegisterFunc("replace", s.replace)
	r.RegisterFunc("strlen", builtinStrlen)
	r.RegisterFunc("substr", builtinSubstr)
	r.RegisterFunc("indexOf", builtinIndexOf)
	r.RegisterFunc("uc", builtinUpper)
	r.RegisterFunc("lc", builtinLower)

	// Numbers
	r.RegisterFunc("int", builtinInt)
	r.RegisterFunc("long", builtinLong)
	r.RegisterFunc("double", builtinDouble)

	// Hashing
	r.RegisterFunc("digest", builtinDigest)

	r.RegisterEnvironment("sub", subBinder{})
}
