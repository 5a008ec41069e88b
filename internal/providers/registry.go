package providers

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/danmuck/parsecgen/internal/fixture"
	"github.com/danmuck/parsecgen/internal/protocol"
)

var (
	ErrProviderExists = errors.New("provider already exists")
	ErrProviderNil    = errors.New("provider is nil")
	ErrInvalidName    = errors.New("invalid provider name")
)

// Provider produces the golden suite for one opcode.
type Provider interface {
	Name() string
	Opcode() protocol.Opcode
	BuildSuite() (fixture.Suite, error)
}

// Registry stores providers by artifact name.
type Registry struct {
	items map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Provider)}
}

// ValidateName checks the lower snake case artifact name format.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if !isValidName(name) {
		return fmt.Errorf("%w: invalid name format %q", ErrInvalidName, name)
	}
	return nil
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return ErrProviderNil
	}
	name := p.Name()
	if err := ValidateName(name); err != nil {
		return err
	}
	if want := p.Opcode().Name(); want != name {
		return fmt.Errorf("%w: %q does not name opcode %s", ErrInvalidName, name, p.Opcode())
	}
	if _, ok := r.items[name]; ok {
		return fmt.Errorf("%w: %s", ErrProviderExists, name)
	}
	r.items[name] = p
	return nil
}

// Resolve returns a provider by name.
func (r *Registry) Resolve(name string) (Provider, bool) {
	p, ok := r.items[name]
	return p, ok
}

// Names returns provider names in deterministic order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns providers ordered by name.
func (r *Registry) List() []Provider {
	names := r.Names()
	list := make([]Provider, 0, len(names))
	for _, name := range names {
		list = append(list, r.items[name])
	}
	return list
}

func isValidName(name string) bool {
	lastSep := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if (i == 0 || i == len(name)-1) && isSep {
			return false
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}
