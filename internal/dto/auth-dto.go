package dto

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// OAuthLoginURLDTO — ссылка на провайдера, state хранится в Redis.
type OAuthLoginURLDTO struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

type MeDTO struct {
	User        UserDTO `json:"user"`
	DisplayRole string  `json:"display_role,omitempty"`
}
