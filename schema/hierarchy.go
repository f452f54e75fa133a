package schema

import "fmt"

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// addClass enters c into the name-keyed table. Duplicate names are fatal.
func (m *Model) addClass(c *Class) error {
	if c.Name == RootName {
		return &SchemaError{Op: "classes", Subject: c.Name,
			Err: fmt.Errorf("%w: name is reserved for the root sentinel", ErrDuplicateClass)}
	}
	if _, ok := m.byName[c.Name]; ok {
		return &SchemaError{Op: "classes", Subject: c.Name, Err: ErrDuplicateClass}
	}
	m.byName[c.Name] = c
	m.classes = append(m.classes, c)
	return nil
}

// link resolves every parent name into a parent pointer and verifies that the
// result is a forest under the root sentinel.
func (m *Model) link() error {
	for _, c := range m.classes {
		c.children = nil
	}
	m.Root.children = nil

	for _, c := range m.classes {
		if c.ParentName == "" {
			c.Parent = m.Root
			continue
		}
		parent, ok := m.byName[c.ParentName]
		if !ok {
			return &SchemaError{Op: "resolve", Subject: c.Name,
				Err: fmt.Errorf("%w %q", ErrDanglingParent, c.ParentName)}
		}
		c.Parent = parent
	}

	states := make(map[*Class]visitState, len(m.classes))
	for _, c := range m.classes {
		if err := m.checkChain(c, states); err != nil {
			return err
		}
	}

	for _, c := range m.classes {
		c.Parent.children = append(c.Parent.children, c)
	}
	return nil
}

// checkChain walks c's parent chain. Reaching a class that is still on the
// current walk means the chain loops back on itself.
func (m *Model) checkChain(c *Class, states map[*Class]visitState) error {
	var path []*Class
	cur := c
	for !cur.IsRoot() {
		switch states[cur] {
		case stateDone:
			cur = m.Root
			continue
		case stateVisiting:
			return &SchemaError{Op: "resolve", Subject: cur.Name,
				Err: fmt.Errorf("%w: %s", ErrCycle, describeCycle(path, cur))}
		}
		states[cur] = stateVisiting
		path = append(path, cur)
		cur = cur.Parent
	}
	for _, p := range path {
		states[p] = stateDone
	}
	return nil
}

func describeCycle(path []*Class, at *Class) string {
	s := ""
	started := false
	for _, p := range path {
		if p == at {
			started = true
		}
		if started {
			s += p.Name + " -> "
		}
	}
	return s + at.Name
}
