package common

// SourceOptions carries the per-input settings a driver needs.
type SourceOptions struct {
	Path     string // Name of the input, used in error messages
	Encoding string // Character set of the input; empty means UTF-8
	Sheet    string // Worksheet to read (spreadsheet sources only)
}

// DisplayName returns the name used to refer to the input in messages.
func (o *SourceOptions) DisplayName() string {
	if o == nil || o.Path == "" {
		return "<input>"
	}
	return o.Path
}
