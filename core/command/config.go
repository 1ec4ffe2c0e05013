package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"userdata-server/core/server"
	"userdata-server/core/utils"
)

// InvalidConfigError rejects a malformed configuration payload, naming the
// offending field.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Reason)
}

// ParseConfig parses the raw JSON configuration ({db_path, port}) into a
// validated server config. The port accepts a numeric string or an integer.
// Trailing input after the JSON object is rejected. ParseConfig has no side
// effects; the returned config is constructed fresh per call.
func ParseConfig(raw string) (server.Config, error) {
	var payload struct {
		DBPath *string `json:"db_path"`
		Port   any     `json:"port"`
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return server.Config{}, &InvalidConfigError{Field: "config", Reason: err.Error()}
	}
	if dec.More() {
		return server.Config{}, &InvalidConfigError{Field: "config", Reason: "trailing input after configuration object"}
	}

	if payload.DBPath == nil || *payload.DBPath == "" {
		return server.Config{}, &InvalidConfigError{Field: "db_path", Reason: "must be a non-empty path"}
	}

	if payload.Port == nil {
		return server.Config{}, &InvalidConfigError{Field: "port", Reason: "is required"}
	}
	port, ok := utils.ToInt(payload.Port)
	if !ok {
		return server.Config{}, &InvalidConfigError{Field: "port", Reason: fmt.Sprintf("%v is not a number", payload.Port)}
	}
	if port < 1 || port > 65535 {
		return server.Config{}, &InvalidConfigError{Field: "port", Reason: fmt.Sprintf("%d is outside 1-65535", port)}
	}

	return server.Config{DBPath: *payload.DBPath, Port: port}, nil
}
