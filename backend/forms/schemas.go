package forms

// Per-page schemas. Password bounds are 8-32 inclusive everywhere.

func Login() Schema {
	return Schema{Fields: []Field{
		{Name: "email", Rules: []Rule{
			Required("Email address is required"),
			Email("Email address is invalid"),
		}},
		{Name: "password", Rules: []Rule{
			Required("Password is required"),
			MinLen(8, "Password must be more than 8 characters"),
			MaxLen(32, "Password must be less than 32 characters"),
		}},
	}}
}

func Register() Schema {
	return Schema{Fields: []Field{
		{Name: "name", Rules: []Rule{
			Required("Full name is required"),
			MaxLen(100, "Full name must be at most 100 characters"),
		}},
		{Name: "email", Rules: []Rule{
			Required("Email address is required"),
			Email("Email address is invalid"),
		}},
		{Name: "password", Rules: []Rule{
			Required("Password is required"),
			MinLen(8, "Password must be more than 8 characters"),
			MaxLen(32, "Password must be less than 32 characters"),
		}},
		{Name: "passwordConfirm", Rules: []Rule{
			Required("Please confirm your password"),
			EqualTo("password", "Passwords do not match"),
		}},
	}}
}

// Token covers both the login validation page and the enrollment
// dialog; the code itself is checked upstream.
func Token() Schema {
	return Schema{Fields: []Field{
		{Name: "token", Rules: []Rule{
			Required("Authentication code is required"),
		}},
	}}
}
