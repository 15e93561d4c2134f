package remote

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// CopierConstructor is a function that creates a protocol engine bound to an
// authenticated session
type CopierConstructor func(session *Session, logger zerolog.Logger) (Copier, error)

var copierRegistry = make(map[string]CopierConstructor)

// RegisterCopier registers a protocol engine constructor
func RegisterCopier(protocol string, constructor CopierConstructor) {
	copierRegistry[protocol] = constructor
}

// NewCopier instantiates the engine for the named protocol
func NewCopier(protocol string, session *Session, logger zerolog.Logger) (Copier, error) {
	constructor, ok := copierRegistry[protocol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, protocol)
	}
	return constructor(session, logger)
}

// Protocols returns the registered protocol names, sorted
func Protocols() []string {
	names := make([]string, 0, len(copierRegistry))
	for name := range copierRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
