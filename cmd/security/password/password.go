package password

// Hash checks password against the policy and hashes it with c.Algorithm.
func (c Config) Hash(password string) (string, error) {
	if err := c.Validate(password); err != nil {
		return "", err
	}
	switch c.Algorithm {
	case AlgorithmArgon2id, "":
		return c.hashArgon2id(password)
	case AlgorithmBcrypt:
		return c.hashBcrypt(password)
	default:
		return "", ErrUnknownAlgorithm
	}
}

// Verify reports whether password matches encodedHash.
//
// The algorithm comes from the hash prefix, not from c.Algorithm, so accounts
// hashed before an algorithm switch can still log in. A mismatch is (false, nil);
// an unreadable or over-expensive hash is (false, ErrInvalidHash).
func (c Config) Verify(encodedHash, password string) (bool, error) {
	if isBcryptHash(encodedHash) {
		return c.verifyBcrypt(encodedHash, password)
	}
	return c.verifyArgon2id(encodedHash, password)
}
