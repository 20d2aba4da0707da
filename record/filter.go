package record

// Filter is a conjunction of equality predicates over field values. An empty
// Filter matches every record.
type Filter map[string]any

// Match reports whether every predicate of f holds for r. A field missing from
// r compares equal only to nil.
func (f Filter) Match(r Record) bool {
	for field, want := range f {
		if !Equal(r[field], want) {
			return false
		}
	}
	return true
}

// Apply returns the records of rs matched by f, in their original order. The
// returned slice shares records with rs.
func (f Filter) Apply(rs []Record) []Record {
	if len(f) == 0 {
		return rs
	}
	out := make([]Record, 0, len(rs))
	for _, r := range rs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Text is a filter value given as text, such as a command-line argument. It
// matches a cell whose string form is the same text, and also a numeric cell
// of the same value when the text parses as a number.
type Text string

// Equal compares two scalars. Numbers compare by value across numeric kinds,
// strings compare exactly, and a number never equals a string. A Text operand
// is the exception to the last rule.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if t, ok := b.(Text); ok {
		return matchText(a, t)
	}
	if t, ok := a.(Text); ok {
		return matchText(b, t)
	}
	if IsNumber(a) && IsNumber(b) {
		fa, okA := Float(a)
		fb, okB := Float(b)
		return okA && okB && fa == fb
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return sa == sb
	}
	if ba, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ba == bb
	}
	return false
}

func matchText(v any, t Text) bool {
	if u, ok := v.(Text); ok {
		return u == t
	}
	if String(v) == string(t) {
		return true
	}
	if !IsNumber(v) {
		return false
	}
	fv, okV := Float(v)
	ft, okT := Float(string(t))
	return okV && okT && fv == ft
}
