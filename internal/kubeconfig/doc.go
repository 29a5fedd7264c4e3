// Package kubeconfig repairs and verifies kubeconfig control-plane endpoints.
//
// Clusters running inside a virtualized Linux environment (WSL, a VM, a
// container) advertise an API server address that is only reachable from
// inside that environment. A kubeconfig exported from there points at a stale
// or internal address, and clients on the host fail with connection errors.
//
// This package automates the manual repair procedure:
//
//  1. Detect the environment's primary network address (the first global
//     unicast IPv4 assigned to a non-loopback interface that is up).
//  2. Rewrite each cluster's server URL in the kubeconfig to use that
//     address, keeping the original scheme and port.
//  3. Verify the repaired file by hitting the API server's /healthz endpoint
//     and listing pods across all namespaces.
//
// Rewrites are atomic: the updated file is written to a temporary file in
// the same directory and renamed over the original, so a crash mid-write
// never leaves a corrupt kubeconfig behind.
package kubeconfig
