package providers

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"nathanbeddoewebdev/mailprov/internal/dns/domain"
	"nathanbeddoewebdev/mailprov/internal/util"
)

// Factory builds a Provider bound to one zone.
type Factory func(creds domain.ZoneCredentials) (domain.Provider, error)

var factories struct {
	sync.RWMutex
	byName map[string]Factory
}

// Register makes a zone factory available under name. Names are matched
// case-insensitively. Registering an empty name, a nil factory or the same
// name twice panics.
func Register(name string, factory Factory) {
	key := util.NormalizeKey(name)
	switch {
	case key == "":
		panic("dns/providers: empty provider name")
	case factory == nil:
		panic("dns/providers: nil factory for " + key)
	}

	factories.Lock()
	defer factories.Unlock()
	if factories.byName == nil {
		factories.byName = make(map[string]Factory)
	}
	if _, dup := factories.byName[key]; dup {
		panic(fmt.Sprintf("dns/providers: provider %q already registered", name))
	}
	factories.byName[key] = factory
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	factories.RLock()
	defer factories.RUnlock()
	if f, ok := factories.byName[util.NormalizeKey(name)]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("dns/providers: unknown provider %q", name)
}

// Get builds the named provider for one zone.
func Get(name string, creds domain.ZoneCredentials) (domain.Provider, error) {
	f, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return f(creds)
}

// List returns the registered provider names in sorted order.
func List() []string {
	factories.RLock()
	defer factories.RUnlock()
	return slices.Sorted(maps.Keys(factories.byName))
}

// Reset forgets every registration. Tests use it to isolate registries.
func Reset() {
	factories.Lock()
	defer factories.Unlock()
	factories.byName = nil
}
