package cluster

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ClusterInfo describes the detected cluster topology.
type ClusterInfo struct {
	Type        string // SNO, MULTI_NODE, MULTI_MASTER
	TotalNodes  int
	MasterNodes int
	WorkerNodes int
	Nodes       []corev1.Node
}

// DetectArchitecture classifies the cluster as single-node, multi-node with
// dedicated workers, or masters-only.
func (c *Checker) DetectArchitecture(ctx context.Context) (*ClusterInfo, CheckResult) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, CheckResult{
			Name:     "Cluster architecture",
			Status:   StatusUnknown,
			Detail:   fmt.Sprintf("failed to list nodes: %v", err),
			Critical: true,
		}
	}

	info := &ClusterInfo{
		TotalNodes: len(nodes.Items),
		Nodes:      nodes.Items,
	}
	for _, node := range nodes.Items {
		if isMaster(node) {
			info.MasterNodes++
		}
		if isWorker(node) {
			info.WorkerNodes++
		}
	}

	switch {
	case info.TotalNodes == 1:
		info.Type = "SNO"
	case info.WorkerNodes > 0:
		info.Type = "MULTI_NODE"
	default:
		info.Type = "MULTI_MASTER"
	}

	return info, CheckResult{
		Name:   "Cluster architecture",
		Status: StatusPass,
		Detail: fmt.Sprintf("%s: %d node(s), %d master(s), %d worker(s)",
			info.Type, info.TotalNodes, info.MasterNodes, info.WorkerNodes),
	}
}

func isMaster(node corev1.Node) bool {
	_, master := node.Labels["node-role.kubernetes.io/master"]
	_, controlPlane := node.Labels["node-role.kubernetes.io/control-plane"]
	return master || controlPlane
}

func isWorker(node corev1.Node) bool {
	_, ok := node.Labels["node-role.kubernetes.io/worker"]
	return ok
}

// CheckNodesReady fails when any node reports a non-ready condition.
func (c *Checker) CheckNodesReady(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return CheckResult{
			Name:     "Node readiness",
			Status:   StatusUnknown,
			Detail:   fmt.Sprintf("failed to list nodes: %v", err),
			Critical: true,
		}
	}

	var notReady []string
	for _, node := range nodes.Items {
		if !nodeIsReady(node) {
			notReady = append(notReady, node.Name)
		}
	}

	if len(notReady) > 0 {
		return CheckResult{
			Name:     "Node readiness",
			Status:   StatusFail,
			Detail:   fmt.Sprintf("not ready: %s", strings.Join(notReady, ", ")),
			Critical: true,
		}
	}
	return CheckResult{
		Name:   "Node readiness",
		Status: StatusPass,
		Detail: fmt.Sprintf("all %d node(s) ready", len(nodes.Items)),
	}
}

func nodeIsReady(node corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}

// CheckRTKernel verifies that worker nodes run a realtime kernel when the
// performance profile requests one. Without a profile the check only
// reports what the nodes run.
func (c *Checker) CheckRTKernel(ctx context.Context, profile *PerformanceProfile) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return CheckResult{
			Name:   "RT kernel",
			Status: StatusUnknown,
			Detail: fmt.Sprintf("failed to list nodes: %v", err),
		}
	}

	rtCount := 0
	total := 0
	for _, node := range nodes.Items {
		if !isWorker(node) && len(nodes.Items) > 1 {
			continue
		}
		total++
		if strings.Contains(node.Status.NodeInfo.KernelVersion, "rt") {
			rtCount++
		}
	}

	wantRT := profile != nil && profile.RealTimeKernel
	switch {
	case wantRT && rtCount == total && total > 0:
		return CheckResult{
			Name:   "RT kernel",
			Status: StatusPass,
			Detail: fmt.Sprintf("realtime kernel active on %d/%d node(s)", rtCount, total),
		}
	case wantRT:
		return CheckResult{
			Name:     "RT kernel",
			Status:   StatusFail,
			Detail:   fmt.Sprintf("profile requests RT kernel, active on %d/%d node(s)", rtCount, total),
			Critical: true,
		}
	case rtCount > 0:
		return CheckResult{
			Name:   "RT kernel",
			Status: StatusPass,
			Detail: fmt.Sprintf("realtime kernel on %d/%d node(s)", rtCount, total),
		}
	default:
		return CheckResult{
			Name:   "RT kernel",
			Status: StatusWarn,
			Detail: "no realtime kernel detected (standard kernel is fine without RT workloads)",
		}
	}
}

// CheckHugepages verifies that nodes expose the hugepages the profile
// configures as allocatable resources.
func (c *Checker) CheckHugepages(ctx context.Context, profile *PerformanceProfile) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return CheckResult{
			Name:   "Hugepages",
			Status: StatusUnknown,
			Detail: fmt.Sprintf("failed to list nodes: %v", err),
		}
	}

	nodesWithHugepages := 0
	var detail string
	for _, node := range nodes.Items {
		for name, quantity := range node.Status.Allocatable {
			if strings.HasPrefix(string(name), "hugepages-") && !quantity.IsZero() {
				nodesWithHugepages++
				detail = fmt.Sprintf("%s=%s on %s", name, quantity.String(), node.Name)
				break
			}
		}
	}

	wantHugepages := profile != nil && len(profile.Hugepages) > 0
	switch {
	case nodesWithHugepages > 0:
		return CheckResult{
			Name:   "Hugepages",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d node(s) with allocatable hugepages (%s)", nodesWithHugepages, detail),
		}
	case wantHugepages:
		return CheckResult{
			Name:     "Hugepages",
			Status:   StatusFail,
			Detail:   "profile configures hugepages but no node exposes them",
			Critical: true,
		}
	default:
		return CheckResult{
			Name:   "Hugepages",
			Status: StatusWarn,
			Detail: "no hugepages allocated (expected before tuning is applied)",
		}
	}
}

// CheckNodeUsage reports current node CPU/memory utilization from the
// metrics API. Missing metrics API is not a failure.
func (c *Checker) CheckNodeUsage(ctx context.Context) CheckResult {
	if c.metricsClient == nil {
		return CheckResult{
			Name:   "Node utilization",
			Status: StatusUnknown,
			Detail: "metrics API not available",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	nodeMetrics, err := c.metricsClient.MetricsV1beta1().NodeMetricses().List(ctx, metav1.ListOptions{})
	if err != nil {
		return CheckResult{
			Name:   "Node utilization",
			Status: StatusUnknown,
			Detail: fmt.Sprintf("failed to read node metrics: %v", err),
		}
	}

	var parts []string
	for _, m := range nodeMetrics.Items {
		cpu := m.Usage.Cpu().MilliValue()
		mem := m.Usage.Memory().Value() / (1024 * 1024)
		parts = append(parts, fmt.Sprintf("%s: cpu=%dm mem=%dMi", m.Name, cpu, mem))
	}

	return CheckResult{
		Name:   "Node utilization",
		Status: StatusPass,
		Detail: strings.Join(parts, "; "),
	}
}
