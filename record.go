package csvpeek

// Record is one parsed row: its fields in input order.
type Record []string

// Len returns the number of fields in the record.
func (rec Record) Len() int {
	return len(rec)
}

// Field returns the field at index i and whether the record has one.
func (rec Record) Field(i int) (string, bool) {
	if i < 0 || i >= len(rec) {
		return "", false
	}
	return rec[i], true
}

// Clone returns a copy of rec that does not share storage with the Reader.
func (rec Record) Clone() Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(rec))
	for i, s := range rec {
		out[i] = string([]byte(s))
	}
	return out
}
