// Package explain prints the workshop's educational material: what latency
// percentiles mean, how VM and container startup differ, and what the tuning
// modules change.
package explain

import (
	"fmt"
	"io"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/termfmt"
)

// Percentiles explains P50/P95/P99 and why tail latency is the number that
// matters for tuning work.
func Percentiles(w io.Writer, pal termfmt.Palette) {
	fmt.Fprintln(w, pal.Bold("Understanding latency percentiles"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A percentile answers: what latency did the fastest N% of pods beat?")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s  half the pods started faster than this (the typical case)\n", pal.Cyan("P50"))
	fmt.Fprintf(w, "  %s  19 of 20 pods beat this; 1 in 20 was slower\n", pal.Cyan("P95"))
	fmt.Fprintf(w, "  %s  99 of 100 pods beat this; the slow tail lives here\n", pal.Cyan("P99"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, pal.Bold("Why P99 and not the average?"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Averages hide outliers. A run where 99 pods start in 100ms and one")
	fmt.Fprintln(w, "takes 10s still averages ~200ms, but that one pod is a failed SLO.")
	fmt.Fprintln(w, "Untuned clusters show noisy tails: CPU contention, interrupts, and")
	fmt.Fprintln(w, "memory pressure all land on P99 first. Tuning (CPU isolation, RT")
	fmt.Fprintln(w, "kernel, hugepages) narrows the gap between P50 and P99 -- that gap")
	fmt.Fprintln(w, "is the jitter the workshop is chasing.")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rule of thumb: compare runs on %s, report %s for context.\n",
		pal.Green("P99"), pal.Green("P50 and avg"))
}

// VMVsContainer explains why VMI startup latency is measured separately and
// what extra work sits between a container starting and a VM booting.
func VMVsContainer(w io.Writer, pal termfmt.Palette) {
	fmt.Fprintln(w, pal.Bold("VM startup vs container startup"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A container is ready when its process starts. A KubeVirt VM goes")
	fmt.Fprintln(w, "through the same pod lifecycle and then keeps going:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  container:  %s\n", pal.Cyan("scheduled -> image pulled -> process running"))
	fmt.Fprintf(w, "  VM:         %s\n", pal.Cyan("scheduled -> virt-launcher pod -> libvirt/QEMU -> guest kernel boot"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "That extra distance shows up in the measurements:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s marks when the virt-launcher pod's containers are up\n", pal.Yellow("ContainersReady"))
	fmt.Fprintf(w, "  %s marks when the guest itself is running\n", pal.Yellow("VMIRunning"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The difference between the two is virtualization overhead. Expect")
	fmt.Fprintln(w, "VMI P99 targets roughly 2x the pod targets (<2s good, <10s acceptable")
	fmt.Fprintln(w, "against <1s/<5s for pods). Tuning helps both, but hugepages and CPU")
	fmt.Fprintln(w, "isolation matter disproportionately for the QEMU boot path.")
}

// Summary walks the workshop arc: measure untuned, apply tuning, measure
// again, compare, and guard against regressions.
func Summary(w io.Writer, pal termfmt.Palette) {
	fmt.Fprintln(w, pal.Bold("Workshop summary: low-latency tuning loop"))
	fmt.Fprintln(w)
	steps := []struct {
		name string
		desc string
	}{
		{"Measure the baseline", "run kube-burner against the untuned cluster and record pod startup quantiles"},
		{"Apply tuning", "PerformanceProfile: isolated CPUs, reserved CPUs, RT kernel, hugepages"},
		{"Validate the cluster", "confirm the profile landed: RT kernel active, CPUs isolated, hugepages allocatable"},
		{"Measure again", "same workload, tuned cluster; compare P50/P95/P99 against the baseline"},
		{"Measure VMs", "KubeVirt VMIs on the tuned cluster; separate quantiles for guest boot"},
		{"Guard the result", "persist a baseline and run regression detection on every future change"},
	}
	for i, step := range steps {
		fmt.Fprintf(w, "  %d. %s -- %s\n", i+1, pal.Green(step.name), step.desc)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "What success looks like: P99 drops substantially more than P50 (the")
	fmt.Fprintln(w, "tail tightens), VMI boot latency lands inside its targets, and the")
	fmt.Fprintln(w, "regression detector stays quiet on repeat runs.")
}
