package kubeconfig

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// DefaultVerifyTimeout bounds the whole endpoint verification.
const DefaultVerifyTimeout = 10 * time.Second

// VerifyOptions configures endpoint verification.
type VerifyOptions struct {
	// Context selects the kubeconfig context to verify. Empty means the
	// file's current context.
	Context string

	// Timeout bounds the verification. Zero means DefaultVerifyTimeout.
	Timeout time.Duration
}

// VerifyResult reports the outcome of a successful verification.
type VerifyResult struct {
	Host     string `json:"host"`
	PodCount int    `json:"podCount"`
}

// Verify confirms that the kubeconfig at path can reach its control-plane
// endpoint. It checks the API server's /healthz and lists pods across all
// namespaces, the same probe the manual procedure uses, running both
// concurrently. Either failure fails the verification.
func Verify(ctx context.Context, path string, opts VerifyOptions) (*VerifyResult, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultVerifyTimeout
	}

	restConfig, err := restConfigFromFile(path, opts.Context)
	if err != nil {
		return nil, err
	}
	restConfig.Timeout = timeout

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := &VerifyResult{Host: restConfig.Host}

	g, gctx := errgroup.WithContext(verifyCtx)

	g.Go(func() error {
		return checkHealthz(gctx, restConfig)
	})

	g.Go(func() error {
		pods, err := clientset.CoreV1().Pods(metav1.NamespaceAll).List(gctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("failed to list pods across all namespaces: %w", err)
		}
		result.PodCount = len(pods.Items)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// restConfigFromFile builds a rest.Config from a kubeconfig file, optionally
// overriding the context.
func restConfigFromFile(path, contextName string) (*rest.Config, error) {
	loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: path}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}

	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build rest config from %s: %w", path, err)
	}

	return restConfig, nil
}

// checkHealthz performs a GET /healthz against the API server.
func checkHealthz(ctx context.Context, config *rest.Config) error {
	// The REST client needs GroupVersion and a serializer even for a raw
	// absolute path request.
	configCopy := rest.CopyConfig(config)
	configCopy.APIPath = "/api"
	configCopy.GroupVersion = &schema.GroupVersion{Version: "v1"}
	configCopy.NegotiatedSerializer = scheme.Codecs.WithoutConversion()

	restClient, err := rest.RESTClientFor(configCopy)
	if err != nil {
		return fmt.Errorf("failed to create REST client for health check: %w", err)
	}

	if err := restClient.Get().AbsPath("/healthz").Do(ctx).Error(); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	return nil
}
