package explain

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/termfmt"
)

func TestPercentiles(t *testing.T) {
	var buf bytes.Buffer
	Percentiles(&buf, termfmt.Palette{})

	out := buf.String()
	for _, want := range []string{"P50", "P95", "P99", "Averages hide outliers"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to mention %q", want)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("disabled palette should not emit ANSI codes")
	}
}

func TestVMVsContainer(t *testing.T) {
	var buf bytes.Buffer
	VMVsContainer(&buf, termfmt.Palette{})

	out := buf.String()
	for _, want := range []string{"ContainersReady", "VMIRunning", "virt-launcher"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to mention %q", want)
		}
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, termfmt.Palette{})

	out := buf.String()
	for _, want := range []string{"baseline", "PerformanceProfile", "regression"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to mention %q", want)
		}
	}
	if !strings.Contains(out, "1.") || !strings.Contains(out, "6.") {
		t.Error("expected six numbered steps")
	}
}
