// Package service holds the application logic between the HTTP surface
// and the store.
package service

import "github.com/habitflow/habitflow-server/internal/validation"

// validate is the shared request validator for all services.
var validate = validation.New()
