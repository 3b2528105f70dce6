package builtins

import (
	"strings"

	"slumber/vm"
)

// subBinder handles `sub name { ... }` by registering a named closure owned
// by the binding script
type subBinder struct{}

func (subBinder) Bind(s *vm.ScriptInstance, _ string, name string, body *vm.Block) error {
	name = strings.TrimPrefix(name, "&")
	if name == "" {
		return vm.Errorf("sub", "missing function name")
	}
	s.Registry().Register(name, vm.NewClosure(s, "&"+name, body))
	return nil
}
