// Package kanon enforces k-anonymity on a set of records by generalizing
// quasi-identifiers and, as a last resort, suppressing them.
package kanon

import (
	"strconv"
	"strings"

	"github.com/delique1984/Experience5-privacy/record"
)

// encodeKey joins the values of a key, each prefixed by its byte length, so
// that distinct tuples never encode to the same string whatever bytes the
// values hold.
func encodeKey(key []string) string {
	var b strings.Builder
	for _, v := range key {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}

// Class is an equivalence class: the records sharing one tuple of
// quasi-identifier values.
type Class struct {
	// Key holds the quasi-identifier values in field order.
	Key     []string
	Records []record.Record
	// Members are the indices of Records in the slice the class was built from.
	Members []int
}

// Size returns the number of records in the class.
func (c *Class) Size() int {
	return len(c.Records)
}

// Classes is a set of equivalence classes in order of first appearance.
type Classes struct {
	fields []string
	order  []*Class
	byKey  map[string]*Class
}

// BuildClasses groups records by the tuple of their stringified values of
// fields. Missing and nil values stringify to "".
func BuildClasses(records []record.Record, fields []string) *Classes {
	cs := &Classes{
		fields: append([]string(nil), fields...),
		byKey:  make(map[string]*Class),
	}
	key := make([]string, len(fields))
	for i, r := range records {
		for j, f := range fields {
			key[j] = record.String(r[f])
		}
		k := encodeKey(key)
		c, ok := cs.byKey[k]
		if !ok {
			c = &Class{Key: append([]string(nil), key...)}
			cs.byKey[k] = c
			cs.order = append(cs.order, c)
		}
		c.Records = append(c.Records, r)
		c.Members = append(c.Members, i)
	}
	return cs
}

// Fields returns the quasi-identifiers the classes were built on.
func (cs *Classes) Fields() []string { return cs.fields }

// Len returns the number of classes.
func (cs *Classes) Len() int { return len(cs.order) }

// All returns the classes in order of first appearance.
func (cs *Classes) All() []*Class { return cs.order }

// Lookup returns the class with the given key tuple.
func (cs *Classes) Lookup(key ...string) (*Class, bool) {
	c, ok := cs.byKey[encodeKey(key)]
	return c, ok
}

// Sizes returns the size of each class in order of first appearance.
func (cs *Classes) Sizes() []int {
	sizes := make([]int, len(cs.order))
	for i, c := range cs.order {
		sizes[i] = c.Size()
	}
	return sizes
}

// Validation is the outcome of checking classes against k.
type Validation struct {
	IsKAnonymous     bool
	MinClassSize     int
	ViolatingClasses int
}

// Validate reports whether every class holds at least k records. An empty set
// of classes is not k-anonymous.
func Validate(cs *Classes, k int) Validation {
	if cs == nil || cs.Len() == 0 {
		return Validation{}
	}
	v := Validation{MinClassSize: cs.order[0].Size()}
	for _, c := range cs.order {
		if c.Size() < v.MinClassSize {
			v.MinClassSize = c.Size()
		}
		if c.Size() < k {
			v.ViolatingClasses++
		}
	}
	v.IsKAnonymous = v.MinClassSize >= k
	return v
}

// violators returns the indices of the records in classes smaller than k.
func violators(cs *Classes, k int) []int {
	var out []int
	for _, c := range cs.order {
		if c.Size() < k {
			out = append(out, c.Members...)
		}
	}
	return out
}
