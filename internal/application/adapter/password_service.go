package adapter

// PasswordService hashes and checks user passwords.
type PasswordService interface {
	// HashPassword returns the bcrypt hash of password.
	HashPassword(password string) (string, error)

	// VerifyPassword returns an error when password does not match hashedPassword.
	VerifyPassword(hashedPassword, password string) error

	// ValidatePasswordStrength rejects passwords that are too weak to store.
	ValidatePasswordStrength(password string) error
}
