package form

import (
	"fmt"
)

// List is the ordered field list of a design. Every operation returns a new
// list value and never aliases the receiver's backing array.
type List []Field

// Clone returns a deep copy of l
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, f := range l {
		out[i] = f.Clone()
	}
	return out
}

// Index returns the position of the field with the given id, or -1
func (l List) Index(id string) int {
	for i, f := range l {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Find returns a copy of the field with the given id
func (l List) Find(id string) (Field, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i].Clone(), true
	}
	return Field{}, false
}

// Contains reports whether a field with the given id exists
func (l List) Contains(id string) bool {
	return l.Index(id) >= 0
}

// IDs returns the set of ids in l
func (l List) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(l))
	for _, f := range l {
		ids[f.ID] = struct{}{}
	}
	return ids
}

// Add appends f, rejecting invalid fields and id collisions
func (l List) Add(f Field) (List, error) {
	if err := f.Validate(); err != nil {
		return l, err
	}
	if l.Contains(f.ID) {
		return l, fmt.Errorf("field id %s already exists", f.ID)
	}
	out := make(List, 0, len(l)+1)
	out = append(out, l.Clone()...)
	return append(out, f.Normalize()), nil
}

// Update merges p into the field with the given id. When the id is absent
// l is returned unchanged with changed false and no error. A patch that
// would leave the field invalid is rejected with an error and l unchanged.
func (l List) Update(id string, p Patch) (List, bool, error) {
	i := l.Index(id)
	if i < 0 {
		return l, false, nil
	}
	updated := p.Apply(l[i])
	updated.ID = id
	if err := updated.Validate(); err != nil {
		return l, false, err
	}
	out := l.Clone()
	out[i] = updated
	return out, true, nil
}

// Delete removes the field with the given id. When the id is absent, l is
// returned unchanged and the boolean is false.
func (l List) Delete(id string) (List, bool) {
	i := l.Index(id)
	if i < 0 {
		return l, false
	}
	out := make(List, 0, len(l)-1)
	for j, f := range l {
		if j != i {
			out = append(out, f.Clone())
		}
	}
	return out, true
}

// Validate checks every field and the uniqueness of ids
func (l List) Validate() error {
	seen := make(map[string]struct{}, len(l))
	for i, f := range l {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("duplicate field id: %s", f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}
