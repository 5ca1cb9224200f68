// Package request defines the API request bodies
package request

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	FullName        string `json:"full_name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the request body for changing the password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UpdateProfileRequest is the request body for editing the profile.
// Absent fields are left unchanged.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// SubmitEssayRequest is the request body for submitting an essay
type SubmitEssayRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
