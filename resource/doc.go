// Package resource keeps the host side of resource handles.
//
// A handle travels on the wire as a u32 resource id. The host owns the
// value behind it in a Table:
//
//	files := resource.NewTable()
//	id, err := files.Insert("file", f)
//
//	// later, in the implementation of a function taking handle<file>
//	v, err := files.Resolve(param.Type.(schema.Handle), id)
//
// Ids start at 1 and are not reused until the counter wraps. Removing an
// entry calls Drop on values implementing Dropper; entries with
// outstanding borrows stay until every Borrow is matched by a Return.
//
// Typed gives a view of a table restricted to one resource kind:
//
//	view := resource.As[*os.File](files, "file")
//	f, ok := view.Get(id)
package resource
