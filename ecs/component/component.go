package component

import (
	"errors"
	"reflect"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentKind identifies one component store. Two kinds over the same Go
// type are distinct stores.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{
		id:   ComponentID(nextComponentID.Add(1)),
		name: reflect.TypeFor[T]().String(),
	}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

// Name is the Go type name of the component, for error messages and logs.
func (k ComponentKind[T]) Name() string {
	return k.name
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// ComponentHandle is the package-level value each component file declares.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
