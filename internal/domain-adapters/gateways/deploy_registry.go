// Package gateways provides implementations of domain gateway interfaces.
package gateways

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/interfaces/gateways"
)

// DeployFactory creates a deploy gateway for one repository target
type DeployFactory func(target entities.RepositoryTarget) (gateways.DeployGateway, error)

var (
	deployFactories = make(map[string]DeployFactory)
	deployMu        sync.RWMutex
)

// RegisterDeployScheme adds a deploy gateway factory for a URL scheme.
// Gateways register themselves from init; "file", "http", and "https" are
// built in.
func RegisterDeployScheme(scheme string, factory DeployFactory) {
	deployMu.Lock()
	defer deployMu.Unlock()
	deployFactories[scheme] = factory
}

// NewDeployGateway creates the deploy gateway matching the target's URL
// scheme
func NewDeployGateway(target entities.RepositoryTarget) (gateways.DeployGateway, error) {
	parsed, err := url.Parse(target.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid repository URL %q: %w", target.URL, err)
	}

	deployMu.RLock()
	factory, ok := deployFactories[parsed.Scheme]
	deployMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported repository scheme: %s", parsed.Scheme)
	}

	return factory(target)
}

// SupportedDeploySchemes returns all registered URL schemes
func SupportedDeploySchemes() []string {
	deployMu.RLock()
	defer deployMu.RUnlock()

	schemes := make([]string, 0, len(deployFactories))
	for scheme := range deployFactories {
		schemes = append(schemes, scheme)
	}
	return schemes
}
