package schema

import "strings"

// Binding selects how a call stub reaches the transport.
type Binding int

const (
	// Structured hands a name->value mapping to an invocation primitive
	// under the command "namespace|function".
	Structured Binding = iota
	// Direct hands raw wire bytes to an endpoint under the path
	// "namespace/function".
	Direct
)

func (b Binding) String() string {
	if b == Direct {
		return "direct"
	}
	return "structured"
}

// Delivery is the declared response contract of a call stub.
type Delivery int

const (
	// Awaited stubs wait for the response and decode it.
	Awaited Delivery = iota
	// FireAndForget stubs return once the transport accepted the request.
	FireAndForget
)

func (d Delivery) String() string {
	if d == FireAndForget {
		return "fire-and-forget"
	}
	return "awaited"
}

// Param is a function parameter. When As is set the stub accepts values of
// that integer type and casts them to Type, which must be an Integer.
type Param struct {
	Type Type
	As   *Integer
	Name string
	Docs string
}

// Function is a function signature.
type Function struct {
	Result    Type
	ResultAs  *Integer
	Namespace string
	Name      string
	Docs      string
	Params    []Param
	Binding   Binding
	Delivery  Delivery
}

// Command returns the stable command identifier for the function's binding.
func (f *Function) Command() string {
	if f.Binding == Direct {
		return f.Namespace + "/" + f.Name
	}
	return f.Namespace + "|" + f.Name
}

// Qualified returns "namespace.function" for diagnostics.
func (f *Function) Qualified() string {
	return f.Namespace + "." + f.Name
}

// SplitCommand splits a command identifier into namespace and function name.
func SplitCommand(cmd string) (namespace, function string, binding Binding, ok bool) {
	if ns, fn, found := strings.Cut(cmd, "|"); found {
		return ns, fn, Structured, true
	}
	if ns, fn, found := strings.Cut(cmd, "/"); found {
		return ns, fn, Direct, true
	}
	return "", "", Structured, false
}
