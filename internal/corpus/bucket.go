package corpus

import (
	"iter"
	"sort"
)

// Buckets groups records by class. Each bucket keeps read order, and
// classes remember the order they were first seen in. The zero value is
// empty and ready to use.
type Buckets struct {
	rows  map[ClassName][]Record
	order []ClassName
}

// Add appends rec to the bucket of class.
func (b *Buckets) Add(class ClassName, rec Record) {
	if b.rows == nil {
		b.rows = make(map[ClassName][]Record)
	}
	if _, ok := b.rows[class]; !ok {
		b.order = append(b.order, class)
	}
	b.rows[class] = append(b.rows[class], rec)
}

// Rows returns the records of class in read order.
func (b Buckets) Rows(class ClassName) []Record {
	return b.rows[class]
}

// Len returns the number of classes.
func (b Buckets) Len() int {
	return len(b.order)
}

// BuildBuckets appends every record of seq to the bucket of each class it
// belongs to. It returns the number of records read and stops at the first
// read error.
func BuildBuckets(seq iter.Seq2[Record, error]) (Buckets, int, error) {
	var buckets Buckets
	read := 0
	for rec, err := range seq {
		if err != nil {
			return Buckets{}, read, err
		}
		read++
		for _, class := range ClassNames(rec) {
			buckets.Add(class, rec)
		}
	}
	return buckets, read, nil
}

// Classes returns class names ordered by bucket size, smallest first.
// Classes of equal size keep the order they were first seen in.
func (b Buckets) Classes() []ClassName {
	classes := make([]ClassName, len(b.order))
	copy(classes, b.order)
	sort.SliceStable(classes, func(i, j int) bool {
		return len(b.rows[classes[i]]) < len(b.rows[classes[j]])
	})
	return classes
}
