package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
)

// File patterns kube-burner writes into a results directory.
const (
	podQuantilePattern    = "*podLatencyQuantilesMeasurement*.json"
	vmiQuantilePattern    = "*vmiLatencyQuantilesMeasurement*.json"
	netpolQuantilePattern = "*netpolLatencyQuantilesMeasurement*.json"
	podRawPattern         = "*podLatencyMeasurement*.json"
	jobSummaryFile        = "jobSummary.json"
)

// Loader reads kube-burner result directories under a base directory.
type Loader struct {
	BaseDir string
}

// NewLoader expands ~ in baseDir and returns a loader rooted there.
func NewLoader(baseDir string) *Loader {
	return &Loader{BaseDir: ExpandHome(baseDir)}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Load reads everything from one results directory. A missing directory or
// unreadable files are never fatal: the corresponding sets stay empty and a
// warning is printed, matching the "no data" failure semantics of the rest
// of the toolset.
func (l *Loader) Load(dir string) *models.TestResult {
	result := &models.TestResult{
		Directory:     dir,
		PodLatency:    models.MetricSet{},
		VMILatency:    models.MetricSet{},
		NetpolLatency: models.MetricSet{},
	}

	path := filepath.Join(l.BaseDir, dir)
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("[WARN] Metrics directory not found: %s\n", path)
		return result
	}

	result.PodLatency = l.loadQuantileSet(path, podQuantilePattern)
	result.VMILatency = l.loadQuantileSet(path, vmiQuantilePattern)
	result.NetpolLatency = l.loadQuantileSet(path, netpolQuantilePattern)
	result.Summary = l.loadJobSummary(path)

	// Quantile files are occasionally missing while the raw per-pod
	// measurements survive; recompute the summary from those.
	if len(result.PodLatency) == 0 {
		result.PodLatency = l.loadRawPodSet(path)
	}

	return result
}

// loadQuantileSet parses the newest file matching pattern. Files that fail
// to parse are skipped with a warning and the next-newest is tried, so one
// corrupt file does not hide an older good one.
func (l *Loader) loadQuantileSet(dir, pattern string) models.MetricSet {
	set := models.MetricSet{}
	for _, file := range newestFirst(dir, pattern) {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("[WARN] Error loading %s: %v\n", filepath.Base(file), err)
			continue
		}

		var quantiles []models.LatencyQuantile
		if err := json.Unmarshal(data, &quantiles); err != nil {
			fmt.Printf("[WARN] Error parsing %s: %v\n", filepath.Base(file), err)
			continue
		}

		for _, q := range quantiles {
			if q.QuantileName != "" {
				set[q.QuantileName] = q
			}
		}
		break
	}
	return set
}

// loadJobSummary accepts both the single-object and the array-of-one form.
func (l *Loader) loadJobSummary(dir string) *models.JobSummary {
	data, err := os.ReadFile(filepath.Join(dir, jobSummaryFile))
	if err != nil {
		return nil
	}

	var summary models.JobSummary
	if err := json.Unmarshal(data, &summary); err == nil {
		return &summary
	}

	var summaries []models.JobSummary
	if err := json.Unmarshal(data, &summaries); err == nil && len(summaries) > 0 {
		return &summaries[0]
	}

	fmt.Printf("[WARN] Error parsing %s: unrecognized format\n", jobSummaryFile)
	return nil
}

// rawPodMeasurement is one per-pod entry from a podLatencyMeasurement file.
// Latencies are milliseconds from pod creation to the named condition.
type rawPodMeasurement struct {
	PodName                string  `json:"podName"`
	SchedulingLatency      float64 `json:"schedulingLatency"`
	InitializedLatency     float64 `json:"initializedLatency"`
	ContainersReadyLatency float64 `json:"containersReadyLatency"`
	PodReadyLatency        float64 `json:"podReadyLatency"`
}

func (l *Loader) loadRawPodSet(dir string) models.MetricSet {
	set := models.MetricSet{}
	for _, file := range newestFirst(dir, podRawPattern) {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("[WARN] Error loading %s: %v\n", filepath.Base(file), err)
			continue
		}

		var raw []rawPodMeasurement
		if err := json.Unmarshal(data, &raw); err != nil {
			fmt.Printf("[WARN] Error parsing %s: %v\n", filepath.Base(file), err)
			continue
		}
		if len(raw) == 0 {
			continue
		}

		samples := map[string][]float64{}
		for _, m := range raw {
			samples["PodScheduled"] = append(samples["PodScheduled"], m.SchedulingLatency)
			samples["Initialized"] = append(samples["Initialized"], m.InitializedLatency)
			samples["ContainersReady"] = append(samples["ContainersReady"], m.ContainersReadyLatency)
			samples["Ready"] = append(samples["Ready"], m.PodReadyLatency)
		}
		for condition, values := range samples {
			set[condition] = SummarizeSamples(condition, values)
		}
		fmt.Printf("[INFO] Quantiles recomputed from raw measurements: %s\n", filepath.Base(file))
		break
	}
	return set
}

// newestFirst returns matches of pattern under dir, most recently modified
// first. Glob errors only occur for bad patterns, which are all constants
// here.
func newestFirst(dir, pattern string) []string {
	files, _ := filepath.Glob(filepath.Join(dir, pattern))
	sort.Slice(files, func(i, j int) bool {
		fi, errI := os.Stat(files[i])
		fj, errJ := os.Stat(files[j])
		if errI != nil || errJ != nil {
			return files[i] < files[j]
		}
		return fi.ModTime().After(fj.ModTime())
	})
	return files
}
