package kubeconfig

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// kubeconfigFileMode keeps repaired files private; kubeconfigs carry credentials.
const kubeconfigFileMode = 0o600

// EndpointChange records a single cluster server rewrite.
type EndpointChange struct {
	Cluster   string `json:"cluster"`
	OldServer string `json:"oldServer"`
	NewServer string `json:"newServer"`
}

// RepairResult describes the outcome of a kubeconfig endpoint repair.
type RepairResult struct {
	Path    string           `json:"path"`
	Host    string           `json:"host"`
	Changes []EndpointChange `json:"changes"`
}

// Repair rewrites the server host of every cluster in the kubeconfig at
// path to the given host, keeping each cluster's original scheme and port,
// and writes the result back atomically. An empty host means "detect the
// primary interface address of this machine".
func Repair(path, host string) (*RepairResult, error) {
	if host == "" {
		detected, err := DetectHostIP()
		if err != nil {
			return nil, err
		}
		host = detected
	}

	config, err := clientcmd.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig from %s: %w", path, err)
	}

	changes, err := RewriteServerHost(config, host)
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := writeAtomic(config, path); err != nil {
			return nil, err
		}
	}

	return &RepairResult{
		Path:    path,
		Host:    host,
		Changes: changes,
	}, nil
}

// RewriteServerHost replaces the host portion of every cluster server URL
// in the config with newHost, preserving scheme and port. Clusters already
// pointing at newHost are left untouched and omitted from the returned
// change set.
func RewriteServerHost(config *clientcmdapi.Config, newHost string) ([]EndpointChange, error) {
	if config == nil {
		return nil, fmt.Errorf("kubeconfig is nil")
	}
	if newHost == "" {
		return nil, fmt.Errorf("new host must not be empty")
	}

	var changes []EndpointChange

	for name, cluster := range config.Clusters {
		if cluster.Server == "" {
			continue
		}

		rewritten, err := replaceURLHost(cluster.Server, newHost)
		if err != nil {
			return nil, fmt.Errorf("cluster %q has an invalid server URL %q: %w", name, cluster.Server, err)
		}

		if rewritten == cluster.Server {
			continue
		}

		changes = append(changes, EndpointChange{
			Cluster:   name,
			OldServer: cluster.Server,
			NewServer: rewritten,
		})
		cluster.Server = rewritten
	}

	return changes, nil
}

// replaceURLHost swaps the host of a URL while keeping scheme, port, and path.
func replaceURLHost(rawURL, newHost string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("missing scheme or host")
	}

	port := parsed.Port()
	if port != "" {
		parsed.Host = net.JoinHostPort(newHost, port)
	} else {
		parsed.Host = newHost
	}

	return parsed.String(), nil
}

// writeAtomic serializes the config to a temporary file next to the target
// and renames it into place, so readers never observe a partial write.
func writeAtomic(config *clientcmdapi.Config, path string) error {
	data, err := clientcmd.Write(*config)
	if err != nil {
		return fmt.Errorf("failed to serialize kubeconfig: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary kubeconfig: %w", err)
	}
	tmpName := tmp.Name()

	// Clean the temp file up on any failure path.
	defer os.Remove(tmpName)

	if err := tmp.Chmod(kubeconfigFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set kubeconfig permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write kubeconfig: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary kubeconfig: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace kubeconfig at %s: %w", path, err)
	}

	return nil
}
