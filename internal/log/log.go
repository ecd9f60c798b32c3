// Package log provides special log formatting features for the game host.
package log

import (
	"log"
	"reflect"
)

// Tprintf prints its arguments in the manner of [log.Printf], with a prefix of
// the form "Type(0xabcd...)" indicating the element type and address of the src
// pointer. This is a convenient way to tell apart lines from the per-game
// handlers, which all share one type.
func Tprintf[T any](src *T, fmt string, v ...any) {
	tfmt := "%s(%p): " + fmt
	tval := make([]any, len(v)+2)
	tval[0], tval[1] = reflect.TypeFor[T]().Name(), src
	copy(tval[2:], v)
	log.Printf(tfmt, tval...)
}

// Printf prints through the standard logger. It exists so that callers of this
// package do not need to import both.
func Printf(format string, v ...any) {
	log.Printf(format, v...)
}
