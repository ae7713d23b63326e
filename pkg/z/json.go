package z

import "sync"

// RefJSON names the shared recursive JSON definition.
const RefJSON = "json"

var jsonSchema = sync.OnceValue(func() *Schema {
	s := newSchema(KindUnion)
	s.ref = RefJSON
	s.options = []*Schema{
		String(),
		Number(),
		Boolean(),
		Null(),
		Array(s),
		Record(s),
	}
	return s
})

// JSON returns the shared schema for arbitrary JSON values: strings,
// numbers, booleans, null, arrays of JSON and string-keyed records of JSON.
// Every call returns the same definition.
func JSON() *Schema {
	return jsonSchema()
}
