package schema

import "encoding/json"

// Schema is message content schema interface
type Schema interface {
	// String returns the text sent to the model for this content
	String() string
}

// Stringify returns the model-facing text of a schema.
// String values are returned verbatim, everything else is JSON encoded.
func Stringify(s Schema) string {
	if s == nil {
		return ""
	}
	if v, ok := s.(String); ok {
		return string(v)
	}
	bs, err := json.Marshal(s)
	if err != nil {
		return s.String()
	}
	return string(bs)
}

// ToBytes returns the model-facing bytes of a schema
func ToBytes(s Schema) []byte {
	return []byte(Stringify(s))
}
