package remote

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// --------------------------------------------------------------------------
// Cluster Topology
// --------------------------------------------------------------------------

// Member is one server of the cluster as listed in the topology file.
type Member struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`
}

// Topology is the parsed cluster topology file. The file lists the servers
// a client may connect to; the transport layer balances across them.
type Topology struct {
	Name    string   `yaml:"name"`
	Members []Member `yaml:"members"`
}

// LoadTopology reads and parses the topology file at path. Members without
// an explicit port fall back to defaultPort.
func LoadTopology(path string, defaultPort uint16) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topology: %w", err)
	}
	return ParseTopology(data, defaultPort)
}

// ParseTopology parses raw topology YAML.
func ParseTopology(data []byte, defaultPort uint16) (*Topology, error) {
	t := &Topology{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("topology: %w", err)
	}
	if len(t.Members) == 0 {
		return nil, fmt.Errorf("topology: no members listed")
	}
	for i := range t.Members {
		if t.Members[i].Host == "" {
			return nil, fmt.Errorf("topology: member %d has no host", i)
		}
		if t.Members[i].Port == 0 {
			t.Members[i].Port = defaultPort
		}
	}
	return t, nil
}

// Endpoints returns the member addresses in host:port form.
func (t *Topology) Endpoints() []string {
	endpoints := make([]string, len(t.Members))
	for i, m := range t.Members {
		endpoints[i] = fmt.Sprintf("%s:%d", m.Host, m.Port)
	}
	return endpoints
}
