package password

// MinLength is the minimum accepted password length.
const MinLength = 8

// Validate checks a password against every policy rule and returns all
// violations. The checks do not short-circuit so a user sees the complete
// list at once. An empty result means the password is acceptable.
func Validate(password string) []string {
	var violations []string

	if len(password) < MinLength {
		violations = append(violations, "Password must be at least 8 characters long")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}

	if !upper {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if !lower {
		violations = append(violations, "Password must contain at least one lowercase letter")
	}
	if !digit {
		violations = append(violations, "Password must contain at least one number")
	}
	if !special {
		violations = append(violations, "Password must contain at least one special character")
	}

	return violations
}
