package corpus

import (
	"crypto/sha256"
	"encoding/binary"
)

const defaultTestSplitFraction = 0.2

// Split deterministically partitions records into train and test sets by
// hashing each record's identifier. Records without an identifier hash
// their JSON bytes instead. Relative order is kept within each set.
func Split(records []Record, testFraction float64) (train []Record, test []Record) {
	fraction := testFraction
	if fraction <= 0 || fraction >= 1 {
		fraction = defaultTestSplitFraction
	}

	threshold := uint64(float64(^uint64(0)) * fraction)
	train = make([]Record, 0, len(records))
	test = make([]Record, 0, len(records))

	for _, record := range records {
		if stableUint64(splitKey(record)) <= threshold {
			test = append(test, record)
			continue
		}
		train = append(train, record)
	}
	return train, test
}

func splitKey(record Record) string {
	if id, ok := record.ID(); ok {
		return "id|" + id.String()
	}
	return "raw|" + string(record.Bytes())
}

func stableUint64(input string) uint64 {
	sum := sha256.Sum256([]byte(input))
	return binary.BigEndian.Uint64(sum[:8])
}
