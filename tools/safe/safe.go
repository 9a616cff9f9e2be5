package safe

import (
	"CProject/logger"
	"reflect"
)

// MustNotNil panics if the given value is nil.
// Useful for enforcing required fields during struct initialization.
func MustNotNil(v any, name string) {
	if reflect.ValueOf(v).IsNil() {
		panic(name + " must not be nil")
	}
}

// Go starts a goroutine that recovers from panic so a single worker
// cannot crash the process.
func Go(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[safe.Go] panic recovered: %v", r)
			}
		}()
		f()
	}()
}

// Call runs f inline, swallowing a panic. Used where independent passes
// must not be able to abort each other.
func Call(name string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[safe.Call] %s panic recovered: %v", name, r)
		}
	}()
	f()
}
