// Package cluster validates the low-latency tuning state of a live cluster:
// node inventory, PerformanceProfile, RT kernel, CPU isolation, hugepages,
// and current node utilization.
package cluster

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"
)

// Status is the outcome of one validation check.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusWarn    Status = "WARN"
	StatusFail    Status = "FAIL"
	StatusUnknown Status = "UNKNOWN"
)

// CheckResult is one validation outcome. Critical failures drive the
// non-zero exit code; warnings and unknowns do not.
type CheckResult struct {
	Name     string
	Status   Status
	Detail   string
	Critical bool
}

// Per-check deadlines. Every check is sequential and blocking; a deadline
// hit marks the check unknown and the run continues.
const (
	checkTimeout     = 30 * time.Second
	deepCheckTimeout = 60 * time.Second
)

// Checker runs validation checks against a cluster.
type Checker struct {
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
	metricsClient metricsv.Interface
	verbose       bool
}

// New builds a checker from the local kubeconfig.
func New(verbose bool) (*Checker, error) {
	var kubeconfig string
	if home := homedir.HomeDir(); home != "" {
		kubeconfig = filepath.Join(home, ".kube", "config")
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	// The metrics API is optional; utilization is reported as unknown
	// when it is absent.
	metricsClient, err := metricsv.NewForConfig(config)
	if err != nil {
		metricsClient = nil
	}

	return &Checker{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		metricsClient: metricsClient,
		verbose:       verbose,
	}, nil
}

// NewWithClients wires explicit clients, used by tests.
func NewWithClients(clientset kubernetes.Interface, dynamicClient dynamic.Interface, metricsClient metricsv.Interface) *Checker {
	return &Checker{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		metricsClient: metricsClient,
	}
}

// RunAll executes every check in order and returns all results. Individual
// check failures never abort the run.
func (c *Checker) RunAll(ctx context.Context) []CheckResult {
	var results []CheckResult

	info, res := c.DetectArchitecture(ctx)
	results = append(results, res)

	results = append(results, c.CheckNodesReady(ctx))

	profile, res := c.CheckPerformanceProfile(ctx)
	results = append(results, res)

	results = append(results, c.CheckRTKernel(ctx, profile))
	results = append(results, c.CheckCPUIsolation(ctx, info, profile))
	results = append(results, c.CheckHugepages(ctx, profile))
	results = append(results, c.CheckNodeUsage(ctx))

	return results
}

// CriticalFailures counts failed checks marked critical.
func CriticalFailures(results []CheckResult) int {
	count := 0
	for _, r := range results {
		if r.Critical && r.Status == StatusFail {
			count++
		}
	}
	return count
}

func (c *Checker) logVerbose(format string, args ...interface{}) {
	if c.verbose {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}
