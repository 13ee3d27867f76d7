package util

import (
	"os"
	"strconv"
	"strings"
)

// GetEnv returns the value of the environment variable with the given key
// or the provided default value if the variable is unset.
func GetEnv(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// GetEnvAsInt returns the int value of the environment variable with the given key
// or the provided default value if the variable is unset or unparsable.
func GetEnvAsInt(key string, defaultVal int) int {
	strVal := GetEnv(key, "")
	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}
	return defaultVal
}

// GetEnvAsUint returns the uint value of the environment variable with the given key
// or the provided default value if the variable is unset or unparsable.
func GetEnvAsUint(key string, defaultVal uint) uint {
	strVal := GetEnv(key, "")
	if val, err := strconv.ParseUint(strVal, 10, 32); err == nil {
		return uint(val)
	}
	return defaultVal
}

// GetEnvAsBool returns the bool value of the environment variable with the given key
// or the provided default value if the variable is unset or unparsable.
func GetEnvAsBool(key string, defaultVal bool) bool {
	strVal := GetEnv(key, "")
	if val, err := strconv.ParseBool(strVal); err == nil {
		return val
	}
	return defaultVal
}

// GetEnvAsStringArr returns the value of the environment variable with the given key
// split by the separator (default ",") or the provided default value if unset or empty.
func GetEnvAsStringArr(key string, defaultVal []string, separator ...string) []string {
	strVal := GetEnv(key, "")
	if strVal == "" {
		return defaultVal
	}

	sep := ","
	if len(separator) > 0 {
		sep = separator[0]
	}

	parts := strings.Split(strVal, sep)
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}

	if len(trimmed) == 0 {
		return defaultVal
	}
	return trimmed
}
