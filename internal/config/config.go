// Package config parses the two YAML inputs the reasoner's CLI accepts:
// the cluster host file and the optional update-batch manifest. Both are
// small enough to share a single decoder helper.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigParse is returned when a configuration file cannot be opened,
// decoded, or fails validation, per the fatal-at-startup configuration
// parse failure error kind.
var ErrConfigParse = fmt.Errorf("config: parse failure")

// Cluster is the distributed-mode topology: this process's zero-based
// position and the ordered set of peer endpoints. The reasoner accepts
// this configuration but does not itself open network connections —
// sharding the dataflow across a cluster is the out-of-scope distributed
// bootstrapper's job.
type Cluster struct {
	Index int      `yaml:"index"`
	Hosts []string `yaml:"hosts"`
}

// LoadCluster reads and validates a host-file. A malformed or
// out-of-range file is a fatal configuration-parse-failure per the
// error-handling contract.
func LoadCluster(path string) (*Cluster, error) {
	var c Cluster
	if err := decodeYAML(path, &c); err != nil {
		return nil, err
	}
	if c.Index < 0 || c.Index >= len(c.Hosts) {
		return nil, fmt.Errorf("%w: index %d out of range for %d hosts in %s", ErrConfigParse, c.Index, len(c.Hosts), path)
	}
	return &c, nil
}

// UpdateManifest names the encoded-triple file to ingest as an additional
// batch after the initial load, and whether its triples are retracted
// (Retract) or asserted. The CLI reads both fields; a plain, non-YAML
// update file yields a manifest naming that file with Retract set. The
// YAML form gives library callers the same struct shape the hostfile uses.
type UpdateManifest struct {
	TriplesPath string `yaml:"triples_path"`
	Retract     bool   `yaml:"retract"`
}

// LoadUpdateManifest reads an update manifest if path looks like YAML
// (".yml"/".yaml"); otherwise it is treated as a raw encoded-triple file
// to retract, matching §6's simpler "optional update file" contract.
func LoadUpdateManifest(path string) (*UpdateManifest, error) {
	if !isYAML(path) {
		return &UpdateManifest{TriplesPath: path, Retract: true}, nil
	}
	var m UpdateManifest
	if err := decodeYAML(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func isYAML(path string) bool {
	n := len(path)
	return (n >= 4 && path[n-4:] == ".yml") || (n >= 5 && path[n-5:] == ".yaml")
}

func decodeYAML(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrConfigParse, path, err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrConfigParse, path, err)
	}
	return nil
}
