package types

// ErrorEnvelope is the only shape error responses ever take. The message is
// the public-safe string; internals are logged server-side.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// MessageEnvelope carries informational acknowledgements (logout, deletes).
type MessageEnvelope struct {
	Message string `json:"message"`
}
