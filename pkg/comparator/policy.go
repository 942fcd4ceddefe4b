package comparator

// Label is a classification bucket for a percentage change.
type Label string

const (
	LabelExcellent  Label = "excellent"
	LabelBetter     Label = "better"
	LabelSimilar    Label = "similar"
	LabelWorse      Label = "worse"
	LabelImproved   Label = "improved"
	LabelOK         Label = "ok"
	LabelWarning    Label = "warning"
	LabelRegression Label = "regression"
)

// Cut maps everything strictly above a bound to a label.
type Cut struct {
	Above float64 `yaml:"above"`
	Label Label   `yaml:"label"`
}

// ThresholdPolicy classifies a change percentage against ordered cut points.
// Cuts are evaluated from most positive to least positive; the first match
// wins and Fallback catches everything else, so classification is total.
type ThresholdPolicy struct {
	Name     string `yaml:"name"`
	Cuts     []Cut  `yaml:"cuts"`
	Fallback Label  `yaml:"fallback"`
}

// Classify returns the label for changePct. Always returns exactly one
// label; repeated calls with the same input return the same label.
func (p ThresholdPolicy) Classify(changePct float64) Label {
	for _, cut := range p.Cuts {
		if changePct > cut.Above {
			return cut.Label
		}
	}
	return p.Fallback
}

// ImprovementPolicy grades before/after tuning comparisons.
func ImprovementPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		Name: "improvement",
		Cuts: []Cut{
			{Above: 20, Label: LabelExcellent},
			{Above: 5, Label: LabelBetter},
			{Above: -5, Label: LabelSimilar},
		},
		Fallback: LabelWorse,
	}
}

// RegressionPolicy grades continuous-monitoring comparisons with a single
// configurable threshold. It uses the repository-wide sign convention
// (positive = candidate faster), so a regression is a change below
// -threshold: the candidate got slower by more than threshold percent.
func RegressionPolicy(threshold float64) ThresholdPolicy {
	return ThresholdPolicy{
		Name: "regression",
		Cuts: []Cut{
			{Above: 5, Label: LabelImproved},
			{Above: -threshold / 2, Label: LabelOK},
			{Above: -threshold, Label: LabelWarning},
		},
		Fallback: LabelRegression,
	}
}
