package model

type SignupRequest struct {
	EmailAddress string `json:"emailAddress" validate:"required,email,max=255"`
	Password     string `json:"password" validate:"required,min=6,bcryptlen"`
	FirstName    string `json:"firstName" validate:"omitempty,max=100"`
	MiddleName   string `json:"middleName" validate:"omitempty,max=100"`
	LastName     string `json:"lastName" validate:"omitempty,max=100"`
	Mobile       string `json:"mobile" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	EmailAddress string `json:"emailAddress" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,bcryptlen"`
}

// UserResponse is the public view of a user; it never carries the hash.
type UserResponse struct {
	UserID       string `json:"userId"`
	EmailAddress string `json:"emailAddress"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Uptime    float64          `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Database  ComponentHealth  `json:"database"`
	Cache     *ComponentHealth `json:"cache,omitempty"`
}

type ComponentHealth struct {
	Status string `json:"status"`
}
