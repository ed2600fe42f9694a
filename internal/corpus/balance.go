package corpus

// Selection is the result of balancing.
type Selection struct {
	// Records holds the selected records in selection order.
	Records []Record
	// Added counts the records each class contributed to Records.
	Added map[ClassName]int
	// Order is the class visiting order used in every round.
	Order []ClassName
}

// Balance picks up to target records per class, round-robin over classes
// ordered smallest bucket first. A record is emitted at most once: after a
// record is picked, later buckets skip it by identifier. Records without
// an identifier cannot be matched and may be picked once per class.
// Classes with fewer eligible records than target are exhausted, not
// padded. The result depends only on bucket contents and target.
func Balance(buckets Buckets, target int) Selection {
	order := buckets.Classes()
	sel := Selection{
		Added: make(map[ClassName]int, len(order)),
		Order: order,
	}
	if target < 1 {
		return sel
	}

	cursor := make([]int, len(order))
	added := make([]int, len(order))
	picked := make(map[Identifier]struct{})

	isPicked := func(r Record) bool {
		id, ok := r.ID()
		if !ok {
			return false
		}
		_, seen := picked[id]
		return seen
	}

	for progressed := true; progressed; {
		progressed = false
		for i, class := range order {
			if added[i] >= target {
				continue
			}
			rows := buckets.Rows(class)
			j := cursor[i]
			for j < len(rows) && isPicked(rows[j]) {
				j++
			}
			cursor[i] = j
			if j == len(rows) {
				continue
			}

			row := rows[j]
			sel.Records = append(sel.Records, row)
			if id, ok := row.ID(); ok {
				picked[id] = struct{}{}
			}
			added[i]++
			cursor[i] = j + 1
			progressed = true
		}
	}

	for i, class := range order {
		sel.Added[class] = added[i]
	}
	return sel
}

// Short returns classes that contributed fewer than target records, in
// visiting order.
func (s Selection) Short(target int) []ClassName {
	var short []ClassName
	for _, class := range s.Order {
		if s.Added[class] < target {
			short = append(short, class)
		}
	}
	return short
}
