package vm

import (
	"errors"

	"slumber/types"
)

// ErrNoHost is returned for object expressions when no host bridge is set
var ErrNoHost = errors.New("no host object bridge installed")

// HostObjects is the narrow capability scripts use to reach host objects:
// [new Class: args], ^Class, [$obj message: args] and [Class message: args].
type HostObjects interface {
	New(class string, args []*types.Scalar) (*types.Scalar, error)
	Class(name string) (*types.Scalar, error)
	Send(target *types.Scalar, message string, args []*types.Scalar) (*types.Scalar, error)
	Static(class, message string, args []*types.Scalar) (*types.Scalar, error)
}

// HostIterator lets foreach walk a host object
type HostIterator interface {
	HasNext() bool
	Next() *types.Scalar
}

// haltValue marks the result of `halt`
type haltValue struct{}

func (haltValue) String() string { return "halt" }

// Halt returns the scalar a `halt` statement returns
func Halt() *types.Scalar { return types.NewObject(haltValue{}) }

// IsHalt reports whether v came from `halt`
func IsHalt(v *types.Scalar) bool {
	_, ok := v.Object().(haltValue)
	return ok
}

// sendObject dispatches [target message: args]. Functions are invoked with
// message as $0, Messengers receive the message, and anything else goes to
// the host bridge.
func (s *ScriptInstance) sendObject(env *Environment, target *types.Scalar, message string, args *Frame) *types.Scalar {
	switch obj := target.Object().(type) {
	case Function:
		return s.invokeValue(env, target, message, args)
	case types.Messenger:
		result, err := obj.Send(message, args.Args())
		return s.hostResult(env, result, err)
	}
	if s.host == nil {
		env.Throw(types.NewString(Errorf(message, "%s is not an object", target.Describe()).Error()))
		return types.NewNull()
	}
	result, err := s.host.Send(target, message, args.Args())
	return s.hostResult(env, result, err)
}

func (s *ScriptInstance) hostResult(env *Environment, result *types.Scalar, err error) *types.Scalar {
	if err != nil {
		env.Throw(thrownValue(err))
		return types.NewNull()
	}
	if result == nil {
		return types.NewNull()
	}
	return result
}
