package corpus

// ClassNames returns the classes a record belongs to, in label order.
// Entries without a name are dropped; a record left with no classes
// belongs to NoneClass. The result is never empty.
func ClassNames(r Record) []ClassName {
	labels := r.Labels()
	names := make([]ClassName, 0, len(labels))
	for _, label := range labels {
		if label.Name == "" {
			continue
		}
		names = append(names, ClassName(label.Name))
	}
	if len(names) == 0 {
		return []ClassName{NoneClass}
	}
	return names
}
