package instance

import (
	"os"

	"github.com/angelmondragon/uniforms-backend/pkg/env"
)

// GetID identifies this API process in logs. Platform dyno names win over the
// host name; "local" is the last resort.
func GetID() string {
	if id := env.Get("UNIFORMS_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
