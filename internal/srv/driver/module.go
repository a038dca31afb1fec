package driver

import (
	"fmt"
	"plugin"
	"sort"
	"sync"
)

// Module is a loaded code object that exports driver symbols by name. It is
// either a compiled plugin on disk or a driver built into the binary.
type Module interface {
	Lookup(name string) (any, error)
	Close() error
}

type pluginModule struct {
	p *plugin.Plugin
}

func (m pluginModule) Lookup(name string) (any, error) {
	sym, err := m.p.Lookup(name)
	if err != nil {
		return nil, err
	}
	return sym, nil
}

// Close is a no-op: the runtime keeps plugins mapped for the process
// lifetime.
func (m pluginModule) Close() error { return nil }

// OpenPlugin maps a driver plugin from disk.
func OpenPlugin(path string) (Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open driver module %s: %w", path, err)
	}
	return pluginModule{p: p}, nil
}

// SymbolMap is an in-memory Module, used by built-in drivers and by tests.
type SymbolMap struct {
	Symbols map[string]any
	OnClose func() error
}

func (m *SymbolMap) Lookup(name string) (any, error) {
	sym, ok := m.Symbols[name]
	if !ok {
		return nil, fmt.Errorf("symbol %s not found", name)
	}
	return sym, nil
}

func (m *SymbolMap) Close() error {
	if m.OnClose != nil {
		return m.OnClose()
	}
	return nil
}

var (
	builtinMu sync.Mutex
	builtins  = map[string]func() Module{}
)

// RegisterBuiltin makes a compiled-in driver loadable by name. Driver
// packages call it from init.
func RegisterBuiltin(name string, factory func() Module) {
	builtinMu.Lock()
	defer builtinMu.Unlock()
	if _, dup := builtins[name]; dup {
		panic("driver: duplicate builtin " + name)
	}
	builtins[name] = factory
}

// OpenBuiltin instantiates a compiled-in driver module.
func OpenBuiltin(name string) (Module, error) {
	builtinMu.Lock()
	factory, ok := builtins[name]
	builtinMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no builtin driver %q", name)
	}
	return factory(), nil
}

// Builtins lists the names of the compiled-in drivers.
func Builtins() []string {
	builtinMu.Lock()
	defer builtinMu.Unlock()
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
