// Package config handles seedbank.yaml loading: .env files, ${VAR}
// expansion and strict YAML decoding.
//
// Load reads the .env beside seedbank.yaml into the process environment
// before expanding, so a checked-out seed bank can keep SEEDBANK_PASSWORD
// and AWS credentials out of the YAML. Variables already exported win over
// the .env file. Values stay in the environment afterwards, which is how
// the AWS SDK credential chain picks them up for the S3 content and ledger
// backends.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR}, ${VAR:-default}, ${VAR:?message} and the
// escaped form $${VAR}.
var envVarPattern = regexp.MustCompile(`\$?\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// ExpandEnv replaces ${VAR} references in input with environment values.
//
//   - ${VAR} is the value, or empty when unset
//   - ${VAR:-default} falls back to default when unset or empty
//   - ${VAR:?message} fails with message when unset or empty
//   - $${VAR} is kept as the literal text ${VAR}
//
// The escape lets passwords and webhook templates contain ${...} verbatim.
// Every missing required variable is reported in one error.
func ExpandEnv(input string) (string, error) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		if strings.HasPrefix(match, "$$") {
			return match[1:]
		}
		groups := envVarPattern.FindStringSubmatch(match)
		name, op, arg := groups[1], groups[2], groups[3]

		if value, ok := os.LookupEnv(name); ok && value != "" {
			return value
		}
		switch op {
		case ":-":
			return arg
		case ":?":
			if arg == "" {
				arg = "required variable is not set"
			}
			missing = append(missing, name+": "+arg)
		}
		return ""
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing environment variables: %s", strings.Join(missing, "; "))
	}
	return out, nil
}
