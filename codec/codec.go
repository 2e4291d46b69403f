// Package codec selects the JSON implementation used for JSON sample inputs
// and for the CLI's result lines.
package codec

// Codec decodes JSON sample files and encodes result lines. Implementations
// must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns the built-in codec configured under name ("json" or
// "go-json"). The empty name selects Default.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "":
		return GoJSON{}, true
	default:
		return nil, false
	}
}
