package resource

// Deferred is a zero-argument producer of a context value. Renderers invoke
// it only when the value is referenced.
type Deferred func() any

// Context is the ordered key/value namespace of one resource. It is owned
// by the pipelines of a single resource and is never shared.
type Context struct {
	keys   []string
	values map[string]any
}

// New creates an empty context
func New() *Context {
	return &Context{values: make(map[string]any)}
}

// FromMap creates a context holding a copy of m. Keys come in the given
// order, then any remaining keys of m sorted.
func FromMap(m map[string]any, order ...string) *Context {
	c := New()
	for _, k := range order {
		if v, ok := m[k]; ok {
			c.Set(k, v)
		}
	}
	for _, k := range sortedKeys(m) {
		if _, ok := c.values[k]; !ok {
			c.Set(k, m[k])
		}
	}
	return c
}

// Set stores value under key, replacing any previous value. Nested
// mappings are copied so the caller's map is never aliased.
func (c *Context) Set(key string, value any) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = cloneValue(value)
}

// Get returns the raw value stored under key. Deferred values are returned
// unresolved.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Resolve returns the value under key, invoking it first if it is Deferred
func (c *Context) Resolve(key string) (any, bool) {
	v, ok := c.values[key]
	if !ok {
		return nil, false
	}
	if d, isDeferred := v.(Deferred); isDeferred {
		return d(), true
	}
	return v, true
}

// Has reports whether key is set
func (c *Context) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Keys returns the keys in insertion order
func (c *Context) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of top level keys
func (c *Context) Len() int {
	return len(c.keys)
}

// Merge deep merges updates into the context. New keys are appended in
// sorted order.
func (c *Context) Merge(updates map[string]any) {
	for _, k := range sortedKeys(updates) {
		uv := updates[k]
		if cur, ok := c.values[k]; ok {
			curMap, curIsMap := cur.(map[string]any)
			updMap, updIsMap := uv.(map[string]any)
			if curIsMap && updIsMap {
				DeepMerge(curMap, updMap)
				continue
			}
		}
		c.Set(k, uv)
	}
}

// Bindings returns a shallow copy of the top level values, deferred values
// left unresolved. Used as the variable namespace of a template render.
func (c *Context) Bindings() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}
