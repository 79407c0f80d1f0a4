package domain

// Auth providers accepted by the platform.
const (
	AuthProviderPhone  = "phone"
	AuthProviderGoogle = "google"
	AuthProviderApple  = "apple"
)

// SignInCredential is the body of a password sign-in.
type SignInCredential struct {
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber  string `json:"phoneNumber" validate:"required,phone"`
	Password     string `json:"password" validate:"required"`
	CallingCode  string `json:"callingCode" validate:"required"`
	CountryCode  string `json:"countryCode" validate:"required,len=2"`
	AuthProvider string `json:"authProvider" validate:"required,oneof=phone google apple"`
}

// SignUpCredential is the body of an account registration.
type SignUpCredential struct {
	FullName     string  `json:"fullName" validate:"required,min=3,max=100"`
	Email        string  `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber  string  `json:"phoneNumber" validate:"required,phone"`
	CallingCode  string  `json:"callingCode,omitempty"`
	CountryCode  string  `json:"countryCode,omitempty" validate:"omitempty,len=2"`
	Password     string  `json:"password" validate:"required,min=8"`
	AuthProvider string  `json:"authProvider,omitempty" validate:"omitempty,oneof=phone google apple"`
	GoogleID     *string `json:"googleId,omitempty"`
	AppleID      *string `json:"appleId,omitempty"`
}

// ForgotPasswordRequest asks the platform to send a reset code.
type ForgotPasswordRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
}

// Token is the credential pair issued by the platform. Only the access
// token outlives the request that received it.
type Token struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SignInResponse is the platform's answer to a sign-in: the token pair plus
// whatever user fields it chose to include.
type SignInResponse struct {
	Token
	User
}

// SignUpResponse is the platform's answer to a registration.
type SignUpResponse struct {
	Token
	UserID   string `json:"userId"`
	Message  string `json:"message"`
	Existing bool   `json:"existing"`
}
