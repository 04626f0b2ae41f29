// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cosim

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection must implement.
// See MakePart.
//
type Updater interface {
	Update(*Circuit)
}

// MakePart wraps an Updater into a custom component.
// Input/output pins are identified by field tags.
//
// The field tag must be `hw:"in"` or `hw:"out"` to identify input and output
// pins. By default, the pin name is the field name in lowercase. A specific
// field name can be forced by adding it in the tag: `hw:"in,pin_name"`.
//
// Tagged fields must be exported. Pins must be of type int and buses arrays
// of int. Untagged fields hold the component's state; each mounted instance
// gets its own zero valued copy.
//
// MakePart panics if t is not a struct (or a pointer to a struct) or if a
// tagged field has an unsupported type.
//
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}

	sp := &PartSpec{
		Name: typ.Name(),
	}

	fields := pinFields(typ)
	for _, f := range fields {
		if f.input {
			sp.Inputs = append(sp.Inputs, f.pins()...)
		} else {
			sp.Outputs = append(sp.Outputs, f.pins()...)
		}
	}
	sp.Mount = mountPart(typ, fields)
	return sp
}

type pinField struct {
	index int
	pin   string
	bus   int // bus width, 0 for a single pin
	input bool
}

func (f *pinField) pins() []string {
	if f.bus == 0 {
		return []string{f.pin}
	}
	return PinRef{Name: f.pin, Start: 0, End: f.bus - 1}.Pins()
}

func pinFields(typ reflect.Type) []pinField {
	var fs []pinField
	n := typ.NumField()
	for i := 0; i < n; i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		pf := pinField{index: i, pin: strings.ToLower(f.Name)}
		tv := strings.Split(tag, ",")
		if len(tv) > 1 && tv[1] != "" {
			pf.pin = tv[1]
		}
		switch tv[0] {
		case "in":
			pf.input = true
		case "out":
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name()))
		}

		ft := f.Type
		switch k := ft.Kind(); {
		case k == reflect.Array && ft.Elem().Kind() == reflect.Int:
			pf.bus = ft.Len()
		case k == reflect.Int:
		default:
			panic(errors.Errorf("unsupported type %q for field %q in %q", k, f.Name, typ.Name()))
		}
		fs = append(fs, pf)
	}
	return fs
}

func mountPart(typ reflect.Type, fields []pinField) MountFn {
	return func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		for _, f := range fields {
			fv := e.Field(f.index)
			if f.bus == 0 {
				fv.SetInt(int64(s.Pin(f.pin)))
				continue
			}
			for i, n := range s.Bus(f.pin, f.bus) {
				fv.Index(i).SetInt(int64(n))
			}
		}

		comp := v.Interface().(Updater)
		return []Component{comp.Update}
	}
}
