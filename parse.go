// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cosim

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// A PinRef references a pin in a connection string: a plain pin or a whole
// bus (name), a single bus pin (name[i]) or a range of bus pins
// (name[start..end]).
//
type PinRef struct {
	Name  string
	Start int // -1 if no index or range was given
	End   int
}

// Whole returns true if the reference has no index or range.
//
func (r PinRef) Whole() bool { return r.Start < 0 }

// Pins returns the individual pin names referenced by r. Whole references
// return the name only.
//
func (r PinRef) Pins() []string {
	if r.Whole() {
		return []string{r.Name}
	}
	out := make([]string, 0, r.End-r.Start+1)
	for i := r.Start; i <= r.End; i++ {
		out = append(out, BusPinName(r.Name, i))
	}
	return out
}

func (r PinRef) String() string {
	switch {
	case r.Whole():
		return r.Name
	case r.Start == r.End:
		return BusPinName(r.Name, r.Start)
	}
	return r.Name + "[" + strconv.Itoa(r.Start) + ".." + strconv.Itoa(r.End) + "]"
}

// A Connection connects a part's pin(s) (PP) to pin(s) in its container (CP).
//
type Connection struct {
	PP PinRef
	CP PinRef
}

// BusPinName returns the name of the i-th pin of the bus.
//
func BusPinName(bus string, i int) string {
	return bus + "[" + strconv.Itoa(i) + "]"
}

// ParseConnections parses a connection configuration like "partPin1=chipPin1,
// partPin2=chipPin2". Buses are referenced either as a whole by name, by index
// (bus[3]) or by range (bus[0..3]).
//
//	"a=x, b[0..3]=y[4..7], out=z[0]"
//
func ParseConnections(c string) ([]Connection, error) {
	var conns []Connection
	err := forEachItem(c, func(item string, pos int) error {
		eq := strings.IndexRune(item, '=')
		if eq < 0 {
			return parseError(c, pos, "expected '=' in pin assignment")
		}
		pp, err := parsePinRef(c, item[:eq], pos)
		if err != nil {
			return err
		}
		cp, err := parsePinRef(c, item[eq+1:], pos+eq+1)
		if err != nil {
			return err
		}
		conns = append(conns, Connection{pp, cp})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conns, nil
}

// IO parses an I/O specification string and returns individual pin names,
// expanding bus declarations.
//
//	IO("a, b[2], sel") // []string{"a", "b[0]", "b[1]", "sel"}
//
func IO(spec string) ([]string, error) {
	var out []string
	err := forEachItem(spec, func(item string, pos int) error {
		r, err := parsePinRef(spec, item, pos)
		if err != nil {
			return err
		}
		switch {
		case r.Whole():
			out = append(out, r.Name)
		case r.Start != r.End:
			return parseError(spec, pos, "bus ranges not allowed in I/O specification")
		case r.Start == 0:
			return parseError(spec, pos, "empty bus "+strconv.Quote(r.Name))
		default:
			for i := 0; i < r.Start; i++ {
				out = append(out, BusPinName(r.Name, i))
			}
		}
		return nil
	})
	return out, err
}

// In parses an input pin specification string. It panics if spec is
// malformed.
//
func In(spec string) Inputs {
	return Inputs(mustIO(spec))
}

// Out parses an output pin specification string. It panics if spec is
// malformed.
//
func Out(spec string) Outputs {
	return Outputs(mustIO(spec))
}

func mustIO(spec string) []string {
	pins, err := IO(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

func forEachItem(s string, f func(item string, pos int) error) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	pos := 0
	for _, item := range strings.Split(s, ",") {
		if err := f(item, pos); err != nil {
			return err
		}
		pos += len(item) + 1
	}
	return nil
}

func parsePinRef(in, s string, pos int) (PinRef, error) {
	// skip leading spaces
	t := strings.TrimLeftFunc(s, unicode.IsSpace)
	pos += len(s) - len(t)
	s = strings.TrimRightFunc(t, unicode.IsSpace)
	if s == "" {
		return PinRef{}, parseError(in, pos, "expected pin name")
	}
	i := strings.IndexRune(s, '[')
	name := s
	if i >= 0 {
		name = s[:i]
	}
	if !isIdent(name) {
		return PinRef{}, parseError(in, pos, "invalid pin name "+strconv.Quote(name))
	}
	if i < 0 {
		return PinRef{Name: name, Start: -1, End: -1}, nil
	}
	if !strings.HasSuffix(s, "]") {
		return PinRef{}, parseError(in, pos+len(s), "closing ']' expected after index or range")
	}
	idx := s[i+1 : len(s)-1]
	pos += i + 1
	r := PinRef{Name: name}
	var err error
	if dots := strings.Index(idx, ".."); dots >= 0 {
		if r.Start, err = strconv.Atoi(idx[:dots]); err != nil || r.Start < 0 {
			return PinRef{}, parseError(in, pos, "integer value expected after '['")
		}
		if r.End, err = strconv.Atoi(idx[dots+2:]); err != nil || r.End < r.Start {
			return PinRef{}, parseError(in, pos+dots+2, "invalid range end after '..'")
		}
		return r, nil
	}
	if r.Start, err = strconv.Atoi(idx); err != nil || r.Start < 0 {
		return PinRef{}, parseError(in, pos, "integer value expected after '['")
	}
	r.End = r.Start
	return r, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
