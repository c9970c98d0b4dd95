package password

import "unicode/utf8"

// Validate reports whether password fits the length policy.
//
// Lengths are counted in characters. Under bcrypt the password must also fit
// the 72 bytes bcrypt reads, since longer input would be truncated silently.
func (c Config) Validate(password string) error {
	switch n := utf8.RuneCountInString(password); {
	case n < c.Policy.MinLength:
		return ErrPasswordTooShort
	case n > c.Policy.MaxLength:
		return ErrPasswordTooLong
	}
	if c.Algorithm == AlgorithmBcrypt && len(password) > bcryptMaxInputBytes {
		return ErrPasswordTooLong
	}
	return nil
}
