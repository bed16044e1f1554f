package auth

// Principal is the authenticated identity resolved from a request credential.
// It is derived per request from a verified token and never persisted.
type Principal struct {
	ID        string
	Name      string
	Email     string
	ClassCode string
	Avatar    string
}
