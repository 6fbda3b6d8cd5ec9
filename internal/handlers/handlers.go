package handlers

import (
	"github.com/socialsimple/backend/internal/kernel"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	kernel *kernel.Kernel
}

// NewHandlers creates a new handlers instance
func NewHandlers(k *kernel.Kernel) *Handlers {
	return &Handlers{kernel: k}
}
