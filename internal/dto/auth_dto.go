package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistroRequest struct {
	Email         string  `json:"email"          validate:"required,email"`
	Password      string  `json:"password"       validate:"required,min=8"`
	NombreNegocio string  `json:"nombre_negocio" validate:"required,min=2,max=150"`
	RNC           *string `json:"rnc"            validate:"omitempty,max=20"`
	Telefono      *string `json:"telefono"`
	Direccion     *string `json:"direccion"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ActualizarPerfilRequest struct {
	NombreNegocio *string `json:"nombre_negocio" validate:"omitempty,min=2,max=150"`
	RNC           *string `json:"rnc"            validate:"omitempty,max=20"`
	Telefono      *string `json:"telefono"`
	Direccion     *string `json:"direccion"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	NombreNegocio string  `json:"nombre_negocio"`
	RNC           *string `json:"rnc"`
	Telefono      *string `json:"telefono"`
	Direccion     *string `json:"direccion"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}
