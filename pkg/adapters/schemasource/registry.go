package schemasource

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ekaya-inc/diagram-engine/pkg/apperrors"
)

// DriverInfo describes a registered schema source driver.
type DriverInfo struct {
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// IntrospectorFactory builds an introspector from a generic config map.
// A nil logger means no-op logging.
type IntrospectorFactory func(ctx context.Context, config map[string]any, logger *zap.Logger) (SchemaIntrospector, error)

// DriverRegistration pairs driver info with its factory.
type DriverRegistration struct {
	Info    DriverInfo
	Factory IntrospectorFactory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]DriverRegistration)
)

// Register is called by each driver's init(). Thread-safe for concurrent
// init() calls.
func Register(reg DriverRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// RegisteredDrivers returns info for all registered drivers, sorted by type.
func RegisteredDrivers() []DriverInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]DriverInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result
}

// IsRegistered checks if a driver type is available.
func IsRegistered(driverType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[driverType]
	return ok
}

// NewIntrospector builds an introspector for a driver type.
func NewIntrospector(ctx context.Context, driverType string, config map[string]any, logger *zap.Logger) (SchemaIntrospector, error) {
	registryMu.RLock()
	reg, ok := registry[driverType]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownDriver, driverType)
	}
	return reg.Factory(ctx, config, logger)
}
