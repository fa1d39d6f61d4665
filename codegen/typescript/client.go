package typescript

import (
	"fmt"
	"strings"

	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

type stub struct {
	f      *schema.Function
	name   string
	params []string // "name: type"
	names  []string
	values []string // wire-typed value of each parameter
	ret    string
}

func (e *emitter) stub(f *schema.Function) (*stub, error) {
	s := &stub{f: f, name: e.m.FuncName(f, e.plan.Qualify), ret: "void"}
	for _, p := range f.Params {
		pn := e.m.ParamName(p.Name)
		declared := p.Type
		value := pn
		if c, ok := typemap.ParamCast(e.schema, p); ok {
			declared = c.From
			value = e.cast(c, pn)
		}
		t, err := e.typ(declared)
		if err != nil {
			return nil, err
		}
		s.params = append(s.params, pn+": "+t)
		s.names = append(s.names, pn)
		s.values = append(s.values, value)
	}
	if f.Result != nil && f.Delivery == schema.Awaited {
		result := f.Result
		if c, ok := typemap.ResultCast(e.schema, f); ok {
			result = c.To
		}
		t, err := e.typ(result)
		if err != nil {
			return nil, err
		}
		s.ret = t
	}
	return s, nil
}

func (e *emitter) client() error {
	stubs := make([]*stub, 0, len(e.schema.Functions()))
	for _, f := range e.schema.Functions() {
		s, err := e.stub(f)
		if err != nil {
			return err
		}
		stubs = append(stubs, s)
	}

	e.w.doc(fmt.Sprintf("Client calls the %s functions through a Transport.", e.schema.Namespace))
	e.w.block("export interface Client")
	for _, s := range stubs {
		e.w.doc(stubDoc(s.f))
		e.w.line("%s(%s): Promise<%s>;", s.name, strings.Join(s.params, ", "), s.ret)
	}
	e.w.end("")
	e.w.blank()

	e.w.block("export function createClient(transport: Transport): Client")
	e.w.line("return {")
	e.w.in()
	for _, s := range stubs {
		if err := e.body(s); err != nil {
			return err
		}
	}
	e.w.out()
	e.w.line("};")
	e.w.end("")
	return nil
}

func stubDoc(f *schema.Function) string {
	calls := fmt.Sprintf("Calls %q (%s, %s).", f.Command(), f.Binding, f.Delivery)
	if f.Docs == "" {
		return calls
	}
	return strings.TrimSpace(f.Docs) + "\n\n" + calls
}

func (e *emitter) body(s *stub) error {
	f := s.f
	e.w.block("async %s(%s)", s.name, strings.Join(s.names, ", "))

	if f.Binding == schema.Structured {
		if len(f.Params) == 0 {
			e.w.line("const args: Record<string, Uint8Array> = {};")
		} else {
			e.w.line("const args: Record<string, Uint8Array> = {")
			e.w.in()
			for i, p := range f.Params {
				ser, err := e.ser(p.Type)
				if err != nil {
					return err
				}
				e.w.line("%s: Serializer.encode(%s, %s),", quote(p.Name), ser, s.values[i])
			}
			e.w.out()
			e.w.line("};")
		}
		e.w.line("const response = await transport.invoke(%s, args);", quote(f.Command()))
	} else {
		e.w.line("const out = new Serializer();")
		for i, p := range f.Params {
			ser, err := e.ser(p.Type)
			if err != nil {
				return err
			}
			e.w.line("%s(out, %s);", ser, s.values[i])
		}
		if f.Delivery == schema.FireAndForget {
			e.w.line("await transport.send(%s, out.toBytes());", quote(f.Command()))
			e.w.end(",")
			return nil
		}
		e.w.line("const response = await transport.call(%s, out.toBytes());", quote(f.Command()))
	}

	if f.Result == nil {
		e.w.line("new Deserializer(response).finish();")
		e.w.end(",")
		return nil
	}
	de, err := e.de(f.Result)
	if err != nil {
		return err
	}
	decoded := fmt.Sprintf("Deserializer.decode(%s, response)", de)
	if c, ok := typemap.ResultCast(e.schema, f); ok {
		decoded = e.cast(c, decoded)
	}
	e.w.line("return %s;", decoded)
	e.w.end(",")
	return nil
}
