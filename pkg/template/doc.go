// Package template renders the variable templates used in rule arguments.
//
// A template is plain text with embedded `{expression}` segments. Each
// expression is a CEL expression evaluated against the resource context,
// so `{extension.lower}`, `{name + "-" + string(counter)}` and
// `{lastmodified.strftime("%Y")}` all work. Deferred context values are only
// invoked when an expression references them, and at most once per render.
//
// Besides the CEL standard library and the ext.Strings extension, the
// following helpers are available:
//
//	pathBase(s)  pathDir(s)  pathExt(s)  pathStem(s)
//	upper(s)  lower(s)
//	humanBytes(n)
//	strftime(t, layout), t.strftime(layout)
package template
