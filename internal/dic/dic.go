//nolint:ireturn
package dic

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

var (
	mu       sync.RWMutex           //nolint:gochecknoglobals
	services = make(map[string]any) //nolint:gochecknoglobals
)

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// GetService panics when T was never registered, the container is built once at boot.
func GetService[T any]() T {
	serviceName := typeName[T]()
	mu.RLock()
	service, exist := services[serviceName]
	mu.RUnlock()
	if !exist {
		panic(errors.Errorf("service %s does not exist", serviceName))
	}
	return service.(T) //nolint:forcetypeassert
}

// Register keeps the first implementation registered for T, so tests can
// override services before the container is built.
func Register[T any](implementation T) error {
	mu.Lock()
	defer mu.Unlock()
	if _, exist := services[typeName[T]()]; exist {
		return nil
	}
	services[typeName[T]()] = implementation
	return nil
}

func Has[T any]() bool {
	mu.RLock()
	defer mu.RUnlock()
	_, exist := services[typeName[T]()]
	return exist
}

func ResetContainer() {
	mu.Lock()
	defer mu.Unlock()
	services = make(map[string]any, len(services))
}
