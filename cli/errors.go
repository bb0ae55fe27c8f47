package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/swa-hq/swa/gateway"
	"github.com/swa-hq/swa/render"
)

// classify maps an error to a stable machine-readable code plus an
// optional remediation hint for JSON output.
func classify(err error) (code, hint string) {
	var mc *gateway.MissingCredentialError
	if errors.As(err, &mc) {
		return "missing_api_key", fmt.Sprintf("set %s in the environment or .env", mc.EnvVar)
	}
	var up *gateway.UnsupportedProviderError
	if errors.As(err, &up) {
		return "provider_unsupported", ""
	}
	var ni *gateway.NotImplementedError
	if errors.As(err, &ni) {
		return "provider_not_implemented", ""
	}
	if gateway.IsTimeout(err) {
		return "timeout", "try increasing -timeout or check the network"
	}
	var pe *gateway.ProviderError
	if errors.As(err, &pe) {
		return "provider_error", ""
	}
	var de *gateway.DecodeError
	if errors.As(err, &de) {
		return "decode_error", ""
	}
	var re *gateway.RetriesExhaustedError
	if errors.As(err, &re) {
		return "network_error", ""
	}
	return "unknown", ""
}

// fail reports err in the requested output mode and returns the exit
// code for a failed command.
func fail(g *globals, err error) int {
	if g.json {
		code, hint := classify(err)
		render.JSONError(os.Stdout, code, err.Error(), hint)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return 1
}
