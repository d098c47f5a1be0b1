// Package primitives provides versioning utilities for MachineConfig.
package primitives

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// ComputeVersion computes a deterministic version for MachineConfig.
// Priority: user-provided config.Version, else the first 8 bytes of
// SHA256(config JSON). encoding/json sorts map keys, so equal configs
// always hash equally.
func ComputeVersion(config *MachineConfig) string {
	if config.Version != "" {
		return config.Version
	}

	data, err := json.Marshal(config)
	if err != nil {
		return "invalid"
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
