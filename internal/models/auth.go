package models

// SurgeAuthRequest is the body of POST /api/auth/surge/:websiteId.
// Credentials are validated, sanitized, passed to the CLI, and discarded;
// they are never persisted.
type SurgeAuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VercelAuthRequest is the body of POST /api/auth/vercel.
type VercelAuthRequest struct {
	Token string `json:"token"`
}

// VercelUser is the identity subset returned to the editor after a
// successful token verification.
type VercelUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
