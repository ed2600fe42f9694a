package corpus

import "sort"

// Stats summarizes one balanced sample for acceptance checks.
type Stats struct {
	Repo             string            `json:"repo"`
	TargetLabelMin   int               `json:"target_label_min"`
	LabelsAvailable  int               `json:"labels_available"`
	PerLabelCounts   map[ClassName]int `json:"per_label_counts"`
	PerLabelSelected map[ClassName]int `json:"per_label_selected"`
	ShortLabels      []ClassName       `json:"short_labels,omitempty"`
	RecordsRead      int               `json:"records_read"`
	SampleSize       int               `json:"sample_size"`
	InputSample      string            `json:"input_sample"`
	OutputSample     string            `json:"output_sample"`
}

// StatsInput carries what ComputeStats needs besides the selection.
type StatsInput struct {
	Repo         string
	Target       int
	Buckets      Buckets
	RecordsRead  int
	InputSample  string
	OutputSample string
}

// ComputeStats derives the stats report from a finished selection.
// PerLabelCounts counts every label carried by selected records, so a
// record picked for one class still counts for its other labels;
// PerLabelSelected counts only the class each record was picked for.
func ComputeStats(in StatsInput, sel Selection) Stats {
	counts := make(map[ClassName]int)
	for _, record := range sel.Records {
		for _, class := range ClassNames(record) {
			counts[class]++
		}
	}

	selected := make(map[ClassName]int, len(sel.Added))
	for class, n := range sel.Added {
		selected[class] = n
	}

	short := sel.Short(in.Target)
	sort.Slice(short, func(i, j int) bool { return short[i] < short[j] })

	return Stats{
		Repo:             in.Repo,
		TargetLabelMin:   in.Target,
		LabelsAvailable:  in.Buckets.Len(),
		PerLabelCounts:   counts,
		PerLabelSelected: selected,
		ShortLabels:      short,
		RecordsRead:      in.RecordsRead,
		SampleSize:       len(sel.Records),
		InputSample:      in.InputSample,
		OutputSample:     in.OutputSample,
	}
}
