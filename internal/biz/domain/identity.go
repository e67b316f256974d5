package domain

// UserRecord and InstallationRecord are opaque attribute maps passed through
// between the JS side and the provider verbatim. No internal structure is
// modeled at this layer.
type (
	UserRecord         map[string]interface{}
	InstallationRecord map[string]interface{}
)
