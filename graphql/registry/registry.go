// Package registry holds the resolvers custom packages plug into the _extension query.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mitchellh/mapstructure"

	"grocery.GO/core/registry"
)

// Resolver answers one extension name. args is the JSON object passed as the _extension args.
type Resolver func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// ErrUnknownExtension is returned by Resolve for names nobody registered.
var ErrUnknownExtension = errors.New("unknown extension")

var (
	mu     sync.Mutex
	sealed atomic.Bool
)

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func resolvers() map[string]Resolver {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryGraphQL); ok && v != nil {
		return v.(map[string]Resolver)
	}
	return make(map[string]Resolver)
}

// Register adds a resolver from a custom package's init. Names are case-insensitive and must be
// unique. It panics once the first request has sealed the registry.
func Register(name string, fn Resolver) {
	key := normalize(name)
	if key == "" || fn == nil {
		panic("graphql/registry: extension needs a name and a resolver")
	}
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryGraphQL) {
		panic("graphql/registry: locked, register extensions from init()")
	}
	entries := resolvers()
	if _, ok := entries[key]; ok {
		panic("graphql/registry: duplicate extension " + key)
	}
	entries[key] = fn
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryGraphQL, entries)
}

// Unregister removes an extension and reopens the registry. Tests only.
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryGraphQL)
	entries := resolvers()
	delete(entries, normalize(name))
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryGraphQL, entries)
}

// Resolve runs the named extension. The first call seals the registry; the map is read-only
// from then on.
func Resolve(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	if sealed.CompareAndSwap(false, true) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryGraphQL)
	}
	fn, ok := resolvers()[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExtension, name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return fn(ctx, args)
}

// Args decodes raw extension arguments into T using its json tags. Numbers sent as strings
// (and the reverse) are converted.
func Args[T any](args map[string]interface{}) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(args); err != nil {
		return out, fmt.Errorf("extension args: %w", err)
	}
	return out, nil
}

// Names lists the registered extensions, sorted.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	entries := resolvers()
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
