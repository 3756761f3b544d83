package instance

import "os"

// GetID returns the process instance identifier, preferring the platform's
// dyno name, then INSTANCE_ID, then "local".
func GetID() string {
	for _, key := range []string{"DYNO", "INSTANCE_ID"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
