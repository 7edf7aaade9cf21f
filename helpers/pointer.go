package helpers

import "reflect"

// StrPanic panics with panicMessage if s is empty; otherwise returns s unchanged.
//
// Used for fail-fast validation of required strings in constructors (base URLs, store paths, key prefixes).
func StrPanic(s string, panicMessage string) string {
	if s == "" {
		panic(panicMessage)
	}
	return s
}

// NilPanic panics with panicMessage if v is nil (nil interface, pointer, slice, map, chan or func); otherwise returns v.
//
// Called from every constructor that takes a required dependency: service.NewNodeRegistry, service.NewHealthTracker,
// service.NewRegistryService, adapters/pebbledb.NewStore, handlers.NewHTTPServer, client.NewMasterHTTP and others.
func NilPanic[T any](v T, panicMessage string) T {
	if isNil(v) {
		panic(panicMessage)
	}
	return v
}

// isNil reports whether v is nil or a typed nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
