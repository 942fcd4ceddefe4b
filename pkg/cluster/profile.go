package cluster

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// performanceProfileGVR addresses the Node Tuning Operator's
// PerformanceProfile CRD.
var performanceProfileGVR = schema.GroupVersionResource{
	Group:    "performance.openshift.io",
	Version:  "v2",
	Resource: "performanceprofiles",
}

// PerformanceProfile is the subset of the CRD this tool validates.
type PerformanceProfile struct {
	Name           string
	IsolatedCPUs   string
	ReservedCPUs   string
	RealTimeKernel bool
	Hugepages      []HugepageSpec
}

// HugepageSpec is one configured hugepage pool.
type HugepageSpec struct {
	Size  string
	Count int64
}

// CheckPerformanceProfile reads the first PerformanceProfile on the
// cluster. No profile is a warning, not a failure: the baseline modules run
// before tuning is applied.
func (c *Checker) CheckPerformanceProfile(ctx context.Context) (*PerformanceProfile, CheckResult) {
	if c.dynamicClient == nil {
		return nil, CheckResult{
			Name:   "Performance profile",
			Status: StatusUnknown,
			Detail: "dynamic client not available",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	list, err := c.dynamicClient.Resource(performanceProfileGVR).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, CheckResult{
			Name:   "Performance profile",
			Status: StatusUnknown,
			Detail: fmt.Sprintf("failed to list performance profiles: %v", err),
		}
	}

	if len(list.Items) == 0 {
		return nil, CheckResult{
			Name:   "Performance profile",
			Status: StatusWarn,
			Detail: "no PerformanceProfile found (apply one to enable tuning)",
		}
	}

	profile := parseProfile(&list.Items[0])
	c.logVerbose("Using performance profile %s", profile.Name)

	return profile, CheckResult{
		Name:   "Performance profile",
		Status: StatusPass,
		Detail: fmt.Sprintf("%s: isolated=%s reserved=%s rtKernel=%t hugepage pools=%d",
			profile.Name, profile.IsolatedCPUs, profile.ReservedCPUs,
			profile.RealTimeKernel, len(profile.Hugepages)),
	}
}

func parseProfile(obj *unstructured.Unstructured) *PerformanceProfile {
	profile := &PerformanceProfile{Name: obj.GetName()}

	profile.IsolatedCPUs, _, _ = unstructured.NestedString(obj.Object, "spec", "cpu", "isolated")
	profile.ReservedCPUs, _, _ = unstructured.NestedString(obj.Object, "spec", "cpu", "reserved")
	profile.RealTimeKernel, _, _ = unstructured.NestedBool(obj.Object, "spec", "realTimeKernel", "enabled")

	pages, _, _ := unstructured.NestedSlice(obj.Object, "spec", "hugepages", "pages")
	for _, page := range pages {
		fields, ok := page.(map[string]interface{})
		if !ok {
			continue
		}
		spec := HugepageSpec{}
		if size, ok := fields["size"].(string); ok {
			spec.Size = size
		}
		switch count := fields["count"].(type) {
		case int64:
			spec.Count = count
		case float64:
			spec.Count = int64(count)
		}
		profile.Hugepages = append(profile.Hugepages, spec)
	}

	return profile
}

// CheckCPUIsolation validates that the profile's isolated and reserved CPU
// sets are disjoint and fit the node CPU capacity.
func (c *Checker) CheckCPUIsolation(ctx context.Context, info *ClusterInfo, profile *PerformanceProfile) CheckResult {
	if profile == nil {
		return CheckResult{
			Name:   "CPU isolation",
			Status: StatusWarn,
			Detail: "no performance profile, CPUs are not isolated",
		}
	}

	_, cancel := context.WithTimeout(ctx, deepCheckTimeout)
	defer cancel()

	isolated, err := ParseCPUList(profile.IsolatedCPUs)
	if err != nil {
		return CheckResult{
			Name:     "CPU isolation",
			Status:   StatusFail,
			Detail:   fmt.Sprintf("invalid isolated set %q: %v", profile.IsolatedCPUs, err),
			Critical: true,
		}
	}
	reserved, err := ParseCPUList(profile.ReservedCPUs)
	if err != nil {
		return CheckResult{
			Name:     "CPU isolation",
			Status:   StatusFail,
			Detail:   fmt.Sprintf("invalid reserved set %q: %v", profile.ReservedCPUs, err),
			Critical: true,
		}
	}

	if overlap := intersect(isolated, reserved); len(overlap) > 0 {
		return CheckResult{
			Name:     "CPU isolation",
			Status:   StatusFail,
			Detail:   fmt.Sprintf("isolated and reserved sets overlap on CPUs %v", overlap),
			Critical: true,
		}
	}

	detail := fmt.Sprintf("%d isolated, %d reserved", len(isolated), len(reserved))
	if info != nil {
		capacity := int64(0)
		for _, node := range info.Nodes {
			if cpus := node.Status.Capacity.Cpu(); cpus != nil && cpus.Value() > capacity {
				capacity = cpus.Value()
			}
		}
		if capacity > 0 && int64(len(isolated)+len(reserved)) > capacity {
			return CheckResult{
				Name:     "CPU isolation",
				Status:   StatusFail,
				Detail:   fmt.Sprintf("%s exceeds node capacity of %d CPUs", detail, capacity),
				Critical: true,
			}
		}
		detail = fmt.Sprintf("%s of %d CPUs", detail, capacity)
	}

	return CheckResult{
		Name:   "CPU isolation",
		Status: StatusPass,
		Detail: detail,
	}
}

// ParseCPUList parses kernel cpu-list syntax, e.g. "0-3,8,10-11".
func ParseCPUList(list string) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	seen := map[int]bool{}
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if bounds := strings.SplitN(part, "-", 2); len(bounds) == 2 {
			start, err := strconv.Atoi(bounds[0])
			if err != nil {
				return nil, fmt.Errorf("invalid range start %q", bounds[0])
			}
			end, err := strconv.Atoi(bounds[1])
			if err != nil {
				return nil, fmt.Errorf("invalid range end %q", bounds[1])
			}
			if end < start {
				return nil, fmt.Errorf("range %q is reversed", part)
			}
			for cpu := start; cpu <= end; cpu++ {
				seen[cpu] = true
			}
		} else {
			cpu, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid cpu %q", part)
			}
			seen[cpu] = true
		}
	}

	cpus := make([]int, 0, len(seen))
	for cpu := range seen {
		cpus = append(cpus, cpu)
	}
	sort.Ints(cpus)
	return cpus, nil
}

func intersect(a, b []int) []int {
	inA := map[int]bool{}
	for _, v := range a {
		inA[v] = true
	}
	var out []int
	for _, v := range b {
		if inA[v] {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
