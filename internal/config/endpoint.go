package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// envVarPattern matches ${VAR_NAME} references in endpoint values
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEndpoint replaces ${VAR_NAME} references with their environment values.
// Unlike os.ExpandEnv an unset variable is an error.
func expandEndpoint(field, raw string) (string, error) {
	var missing []string
	expanded := envVarPattern.ReplaceAllStringFunc(raw, func(ref string) string {
		name := envVarPattern.FindStringSubmatch(ref)[1]
		value, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%s references unset environment variables: %s", field, strings.Join(lo.Uniq(missing), ", "))
	}
	return expanded, nil
}

// GenerateEnvVarName returns the conventional variable name for a network endpoint.
// Examples: home -> HOME_RPC_URL, foreign -> FOREIGN_RPC_URL
func GenerateEnvVarName(network string) string {
	name := strings.ToUpper(network)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}
