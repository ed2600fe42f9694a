package corpus

import "sort"

// LabelDelta describes how one label's count moved between two samples.
type LabelDelta struct {
	BaselineCount  int `json:"baseline_count"`
	CandidateCount int `json:"candidate_count"`
	DeltaCount     int `json:"delta_count"`
}

// DriftReport summarizes label drift between two stats reports.
type DriftReport struct {
	BaselineRepo    string                   `json:"baseline_repo"`
	CandidateRepo   string                   `json:"candidate_repo"`
	TargetDelta     int                      `json:"target_delta"`
	SampleSizeDelta int                      `json:"sample_size_delta"`
	LabelsAdded     []ClassName              `json:"labels_added,omitempty"`
	LabelsRemoved   []ClassName              `json:"labels_removed,omitempty"`
	ByLabel         map[ClassName]LabelDelta `json:"by_label"`
}

// CompareStats compares two stats reports label by label.
func CompareStats(baseline Stats, candidate Stats) *DriftReport {
	byLabel := make(map[ClassName]LabelDelta)
	for label, count := range baseline.PerLabelCounts {
		byLabel[label] = LabelDelta{BaselineCount: count, DeltaCount: -count}
	}
	for label, count := range candidate.PerLabelCounts {
		delta := byLabel[label]
		delta.CandidateCount = count
		delta.DeltaCount += count
		byLabel[label] = delta
	}

	report := &DriftReport{
		BaselineRepo:    baseline.Repo,
		CandidateRepo:   candidate.Repo,
		TargetDelta:     candidate.TargetLabelMin - baseline.TargetLabelMin,
		SampleSizeDelta: candidate.SampleSize - baseline.SampleSize,
		ByLabel:         byLabel,
	}
	for _, label := range sortedLabels(byLabel) {
		_, inBase := baseline.PerLabelCounts[label]
		_, inCand := candidate.PerLabelCounts[label]
		switch {
		case inCand && !inBase:
			report.LabelsAdded = append(report.LabelsAdded, label)
		case inBase && !inCand:
			report.LabelsRemoved = append(report.LabelsRemoved, label)
		}
	}
	return report
}

func sortedLabels[V any](m map[ClassName]V) []ClassName {
	labels := make([]ClassName, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}
