package enums

import (
	"fmt"
	"strings"
)

// AppEnv names the deployment environment.
type AppEnv string

const (
	AppEnvDevelopment AppEnv = "development"
	AppEnvProduction  AppEnv = "production"
)

var appEnvAliases = map[string]AppEnv{
	"development": AppEnvDevelopment,
	"dev":         AppEnvDevelopment,
	"production":  AppEnvProduction,
	"prod":        AppEnvProduction,
}

// ParseAppEnv converts raw input into an AppEnv. Matching ignores case and
// accepts the short forms dev and prod.
func ParseAppEnv(value string) (AppEnv, error) {
	if env, ok := appEnvAliases[strings.ToLower(strings.TrimSpace(value))]; ok {
		return env, nil
	}
	return "", fmt.Errorf("invalid app env %q", value)
}
