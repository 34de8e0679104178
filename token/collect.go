package token

import (
	"reflect"
	"unsafe"
)

// Implemented by payloads that list their symbolic token references themselves.
//
// Collect uses it instead of the structural traversal.
// Use it when the payload hides tokens behind values the traversal can not inspect,
// e.g. functions or channels.
type Referencer interface {
	SymTokens() []Id
}

var (
	idType         = reflect.TypeOf(Id{})
	referencerType = reflect.TypeOf((*Referencer)(nil)).Elem()
)

// Collect returns every symbolic token referenced by v, sorted and without duplicates.
//
// If v implements Referencer its answer is used. Otherwise v is traversed with Walk.
func Collect(v any) []Id {
	if r, ok := v.(Referencer); ok {
		return NewSet(r.SymTokens()...).Sorted()
	}
	return Walk(v)
}

// Walk traverses v structurally and returns every Id found in it, sorted and without duplicates.
//
// Structs, pointers, interfaces, slices, arrays and map keys and values are followed,
// unexported fields included. Cycles through pointers, maps and slices are visited once.
// Nested values implementing Referencer are asked for their tokens instead of being traversed,
// also when they are stored in unexported fields.
// The root value is always traversed, so a manual extractor may call Walk on its own receiver
// (but not Collect, which would call the extractor again).
func Walk(v any) []Id {
	if v == nil {
		return nil
	}
	w := walker{
		found: Set{},
		seen:  map[visit]bool{},
	}
	w.walk(reflect.ValueOf(v), true)
	return w.found.Sorted()
}

// A reference value that has already been traversed.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type walker struct {
	found Set
	seen  map[visit]bool
}

// Every value passed to walk is either addressable or was not read through an unexported field.
// Struct and array values are made addressable before their fields are visited to keep it that way.
func (w *walker) walk(v reflect.Value, root bool) {
	if !v.IsValid() {
		return
	}
	if !v.CanInterface() {
		if !v.CanAddr() {
			return
		}
		// Values read through unexported fields are read-only. Rebuild them from their address
		v = reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
	}
	if !root && w.referencer(v) {
		return
	}
	if v.Type() == idType {
		w.found.Add(v.Interface().(Id))
		return
	}
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() || w.visited(v, 0) {
			return
		}
		w.walk(v.Elem(), false)
	case reflect.Interface:
		if v.IsNil() {
			return
		}
		w.walk(v.Elem(), false)
	case reflect.Struct:
		v = addressable(v)
		for i := 0; i < v.NumField(); i++ {
			w.walk(v.Field(i), false)
		}
	case reflect.Slice:
		if v.IsNil() || w.visited(v, v.Len()) {
			return
		}
		for i := 0; i < v.Len(); i++ {
			w.walk(v.Index(i), false)
		}
	case reflect.Array:
		v = addressable(v)
		for i := 0; i < v.Len(); i++ {
			w.walk(v.Index(i), false)
		}
	case reflect.Map:
		if v.IsNil() || w.visited(v, 0) {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			w.walk(iter.Key(), false)
			w.walk(iter.Value(), false)
		}
	}
}

// Marks the reference value v as seen. Returns true if it was seen before.
func (w *walker) visited(v reflect.Value, n int) bool {
	key := visit{ptr: v.Pointer(), typ: v.Type(), len: n}
	if w.seen[key] {
		return true
	}
	w.seen[key] = true
	return false
}

func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

// Uses the manual extractor of v if it has one. Returns false if v must be traversed instead.
func (w *walker) referencer(v reflect.Value) bool {
	if !v.Type().Implements(referencerType) {
		return false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return true
		}
	}
	w.found.Add(v.Interface().(Referencer).SymTokens()...)
	return true
}
