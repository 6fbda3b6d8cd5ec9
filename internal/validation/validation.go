package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/socialsimple/backend/internal/logger"
	"go.uber.org/zap"
)

const checkTimeout = 10 * time.Second

// Check probes one external service
type Check func(ctx context.Context) error

// ServiceValidator handles validation of optional services at startup
type ServiceValidator struct {
	checks           map[string]Check
	requiredServices []string
}

// NewServiceValidator creates a validator. required lists the names in checks
// whose failure aborts startup; every other check only logs a warning.
func NewServiceValidator(checks map[string]Check, required []string) *ServiceValidator {
	return &ServiceValidator{
		checks:           checks,
		requiredServices: required,
	}
}

// ValidateServices runs every check and fails on the first required service
// that is unknown or unreachable.
func (sv *ServiceValidator) ValidateServices(ctx context.Context) error {
	for _, name := range sv.requiredServices {
		if _, ok := sv.checks[name]; !ok {
			return fmt.Errorf("unknown required service %q", name)
		}
	}

	names := make([]string, 0, len(sv.checks))
	for name := range sv.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		timeoutCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := sv.checks[name](timeoutCtx)
		cancel()

		if err == nil {
			logger.Log.Info("✅ Service validated successfully", zap.String("service", name))
			continue
		}
		if sv.isRequired(name) {
			logger.Log.Error("❌ Required service validation failed", zap.String("service", name), zap.Error(err))
			return fmt.Errorf("required service '%s' validation failed: %w", name, err)
		}
		logger.Log.Warn("Optional service unavailable", zap.String("service", name), zap.Error(err))
	}

	return nil
}

func (sv *ServiceValidator) isRequired(name string) bool {
	for _, r := range sv.requiredServices {
		if r == name {
			return true
		}
	}
	return false
}

// ParseRequiredServices splits a comma separated list such as "media,redis".
func ParseRequiredServices(value string) []string {
	var required []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			required = append(required, s)
		}
	}
	return required
}
