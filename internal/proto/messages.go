package proto

type RegisterRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserId string `json:"userId"`
	Email  string `json:"email"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type VerifyEmailResponse struct {
	UserId   string `json:"userId"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceId string `json:"deviceId"`
}

type LoginResponse struct {
	UserId        string `json:"userId"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	AccessToken   string `json:"accessToken"`
	RefreshToken  string `json:"refreshToken"`
}

type RenewAccessTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RenewAccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	UserId        string `json:"userId"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
