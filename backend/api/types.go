package api

import (
	"bytes"
	"encoding/json"
)

// User is the account record as the authentication service reports it.
// It is replaced wholesale on login, 2FA enable/disable and 2FA
// verification responses; the portal never edits individual fields.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	OTPEnabled Flag   `json:"otp_enabled"`
}

// Flag is a bool that also accepts the loose encodings the upstream
// uses for it ("true"/"false" strings, 0/1 as numbers or strings).
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", `""`, `"false"`, "false", "0", `"0"`:
		*f = false
		return nil
	case `"true"`, "true", "1", `"1"`:
		*f = true
		return nil
	}
	// Anything else: fall back to strict bool decoding
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*f = Flag(b)
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GenerateRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type TokenRequest struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type DisableRequest struct {
	UserID string `json:"user_id"`
}

type GenericResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Status string `json:"status"`
	User   User   `json:"user"`
}

type GenerateResponse struct {
	OTPAuthURL string `json:"otpauth_url"`
	Base32     string `json:"base32"`
}

type VerifyResponse struct {
	OTPVerified Flag `json:"otp_verified"`
	User        User `json:"user"`
}

type ValidateResponse struct {
	OTPValid bool `json:"otp_valid"`
}

type DisableResponse struct {
	OTPDisabled Flag `json:"otp_disabled"`
	User        User `json:"user"`
}
