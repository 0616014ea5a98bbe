package schema

// String is a plain text schema
type String string

// NewString returns a new String schema
func NewString(s string) String {
	return String(s)
}

func (s String) String() string {
	return string(s)
}

// Unmarshal sets the string from raw bytes
func (s *String) Unmarshal(bs []byte) error {
	*s = String(bs)
	return nil
}
