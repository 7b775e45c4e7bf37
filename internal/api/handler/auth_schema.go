package handler

// credentialsRequest is the shared body for login and register.
type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// sessionResponse is the envelope for login, register, logout, and
// delete-account. Failure responses carry success=false and a message only.
type sessionResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Username string `json:"username,omitempty"`
	Token    string `json:"token,omitempty"`
}

func sessionFailure(message string) sessionResponse {
	return sessionResponse{Success: false, Message: message}
}

// userResponse describes the authenticated user for GET /auth/me.
type userResponse struct {
	Username string   `json:"username"`
	Enabled  bool     `json:"enabled"`
	Roles    []string `json:"roles"`
}

// createUserRequest is the admin-only request for creating an account with
// an explicit role.
type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Role     string `json:"role"     validate:"required,uppercase"`
}
