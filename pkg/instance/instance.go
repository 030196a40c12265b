package instance

import (
	"os"

	"github.com/Oleksa-32/car-sharing-app/pkg/env"
)

// GetID identifies this process among worker replicas. CARSHARING_WORKER_ID
// wins, then the hostname.
func GetID() string {
	if id := env.Get("CARSHARING_WORKER_ID", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
