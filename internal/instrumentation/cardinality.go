package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with kubeconfig context names.

// ContextType represents a classification of kubeconfig context names for metrics.
type ContextType string

// Context type classifications for metrics cardinality control.
const (
	// ContextTypeProduction represents production contexts.
	ContextTypeProduction ContextType = "production"

	// ContextTypeStaging represents staging/pre-production contexts.
	ContextTypeStaging ContextType = "staging"

	// ContextTypeDevelopment represents development contexts.
	ContextTypeDevelopment ContextType = "development"

	// ContextTypeCICD represents CI/CD contexts (e.g., cicdprod, cicddev).
	ContextTypeCICD ContextType = "cicd"

	// ContextTypeOperations represents operations/infrastructure contexts.
	ContextTypeOperations ContextType = "operations"

	// ContextTypeLocal represents local single-node contexts such as
	// minikube, kind, k3s, and docker-desktop.
	ContextTypeLocal ContextType = "local"

	// ContextTypeInCluster represents the in-cluster context (empty name).
	ContextTypeInCluster ContextType = "in-cluster"

	// ContextTypeOther represents contexts that don't match any known pattern.
	ContextTypeOther ContextType = "other"
)

// ClassifyContextName classifies a kubeconfig context name into a type for
// metrics. This prevents cardinality explosion by grouping contexts into
// categories instead of using the full context name.
//
// The function uses case-insensitive pattern matching:
//
//	| Pattern                             | Classification |
//	|-------------------------------------|----------------|
//	| Empty string, "in-cluster"          | in-cluster     |
//	| minikube, kind-, k3s, docker-desktop| local          |
//	| Contains: cicd                      | cicd           |
//	| Contains: operations, ops           | operations     |
//	| Prefix/suffix/infix: prod           | production     |
//	| Prefix/suffix/infix: staging, stg   | staging        |
//	| Prefix/suffix/infix: dev, test, demo| development    |
//	| Everything else                     | other          |
//
// Organizations using different naming conventions (e.g., "live-", "prd-",
// "uat-") will see these contexts classified as "other".
//
// # Examples
//
//	ClassifyContextName("")                // "in-cluster"
//	ClassifyContextName("minikube")        // "local"
//	ClassifyContextName("kind-workloads")  // "local"
//	ClassifyContextName("prod-eu-01")      // "production"
//	ClassifyContextName("staging-test")    // "staging"
//	ClassifyContextName("dev-cluster")     // "development"
//	ClassifyContextName("cicdprod")        // "cicd"
//	ClassifyContextName("infra-ops")       // "operations"
//	ClassifyContextName("my-cluster")      // "other"
func ClassifyContextName(name string) string {
	if name == "" || name == "in-cluster" {
		return string(ContextTypeInCluster)
	}

	nameLower := strings.ToLower(name)

	// Local development distributions
	if nameLower == "minikube" ||
		nameLower == "docker-desktop" ||
		nameLower == "rancher-desktop" ||
		nameLower == "wsl" ||
		strings.HasPrefix(nameLower, "kind-") ||
		strings.HasPrefix(nameLower, "k3s") ||
		strings.HasPrefix(nameLower, "k3d-") ||
		strings.HasPrefix(nameLower, "microk8s") {
		return string(ContextTypeLocal)
	}

	// CI/CD patterns (check first as they often contain "prod" or "dev" in the name)
	if strings.Contains(nameLower, "cicd") {
		return string(ContextTypeCICD)
	}

	// Operations patterns
	if strings.Contains(nameLower, "operations") ||
		strings.HasPrefix(nameLower, "ops-") ||
		strings.HasPrefix(nameLower, "ops_") ||
		strings.Contains(nameLower, "-ops-") ||
		strings.HasSuffix(nameLower, "-ops") {
		return string(ContextTypeOperations)
	}

	// Production patterns
	if strings.HasPrefix(nameLower, "prod-") ||
		strings.HasPrefix(nameLower, "prod_") ||
		strings.Contains(nameLower, "production") ||
		strings.Contains(nameLower, "-prod-") ||
		strings.HasSuffix(nameLower, "-prod") {
		return string(ContextTypeProduction)
	}

	// Staging patterns
	if strings.HasPrefix(nameLower, "staging-") ||
		strings.HasPrefix(nameLower, "staging_") ||
		strings.HasPrefix(nameLower, "stg-") ||
		strings.Contains(nameLower, "staging") ||
		strings.Contains(nameLower, "-stg-") ||
		strings.HasSuffix(nameLower, "-stg") {
		return string(ContextTypeStaging)
	}

	// Development patterns (including demo and test contexts)
	if strings.HasPrefix(nameLower, "dev-") ||
		strings.HasPrefix(nameLower, "dev_") ||
		strings.Contains(nameLower, "development") ||
		strings.Contains(nameLower, "-dev-") ||
		strings.HasSuffix(nameLower, "-dev") ||
		strings.HasPrefix(nameLower, "demo") || // matches demo-, demo_, demotech, etc.
		strings.Contains(nameLower, "-demo-") ||
		strings.HasPrefix(nameLower, "test-") ||
		strings.HasPrefix(nameLower, "test_") ||
		strings.Contains(nameLower, "-test-") ||
		strings.HasSuffix(nameLower, "-test") {
		return string(ContextTypeDevelopment)
	}

	return string(ContextTypeOther)
}
