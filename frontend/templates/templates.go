// Package templates renders the portal's pages. Plain html/template;
// auth pages (login, register, OTP validation) are standalone
// documents, normal pages (home, profile) share the layout wrapper.
package templates

import (
	"html/template"
	"io"

	"twofa-portal/backend/api"
	"twofa-portal/backend/session"
)

// PageData is the part every page shares: current user (nil when
// anonymous, drives the nav), pending flashes and the CSRF token for
// embedded forms.
type PageData struct {
	Title   string
	User    *api.User
	Flashes []session.Flash
	CSRF    string
}

// FormData carries re-rendered form state: entered values (password
// fields are never echoed back) and per-field validation or upstream
// errors.
type FormData struct {
	PageData
	Values map[string]string
	Errors map[string]string
}

// TwoFactorData is the enrollment dialog: the provisioning URI
// rendered as a scannable data-URI image, the base32 secret as the
// manual-entry fallback, and any token error from a failed verify.
type TwoFactorData struct {
	QRCodeDataURL string
	OTPAuthURL    string
	Base32        string
	TokenError    string
}

// ProfileData renders the profile page; Dialog is non-nil while an
// enrollment attempt is underway.
type ProfileData struct {
	PageData
	Dialog *TwoFactorData
}

var (
	homeTmpl     = mustLayout(homeContent)
	profileTmpl  = mustLayout(profileContent)
	loginTmpl    = mustPage(loginHTML)
	registerTmpl = mustPage(registerHTML)
	validateTmpl = mustPage(validateHTML)
)

func mustPage(page string) *template.Template {
	return template.Must(template.New("page").Parse(flashesHTML + page))
}

func mustLayout(content string) *template.Template {
	return template.Must(template.New("layout").Parse(flashesHTML + layoutHTML + content))
}

func Home(w io.Writer, d PageData) error {
	return homeTmpl.ExecuteTemplate(w, "layout", d)
}

func Login(w io.Writer, d FormData) error {
	return loginTmpl.ExecuteTemplate(w, "page", d)
}

func Register(w io.Writer, d FormData) error {
	return registerTmpl.ExecuteTemplate(w, "page", d)
}

func ValidateOTP(w io.Writer, d FormData) error {
	return validateTmpl.ExecuteTemplate(w, "page", d)
}

func Profile(w io.Writer, d ProfileData) error {
	return profileTmpl.ExecuteTemplate(w, "layout", d)
}
