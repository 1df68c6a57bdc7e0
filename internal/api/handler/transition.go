package handler

import (
	"errors"

	"github.com/carevillage/admin-api/internal/api/metrics"
	"github.com/carevillage/admin-api/internal/core/domain"
)

// recordTransition counts an attempted status change. Errors other than a
// refused edge (not found, bad input) are not transitions and are skipped.
func recordTransition(resource, to string, err error) {
	switch {
	case err == nil:
		metrics.StatusTransitionsTotal.WithLabelValues(resource, to, "applied").Inc()
	case errors.Is(err, domain.ErrInvalidTransition):
		metrics.StatusTransitionsTotal.WithLabelValues(resource, to, "rejected").Inc()
	}
}
