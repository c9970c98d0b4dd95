package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var phcEncoding = base64.RawStdEncoding

// argon2idHash is a decoded PHC string:
// $argon2id$v=19$m=<KiB>,t=<iterations>,p=<lanes>$<salt>$<key>
type argon2idHash struct {
	memoryKiB   uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func (h argon2idHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memoryKiB, h.iterations, h.parallelism,
		phcEncoding.EncodeToString(h.salt), phcEncoding.EncodeToString(h.key))
}

// derive computes the key for password with h's parameters and salt.
func (h argon2idHash) derive(password string, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password), h.salt, h.iterations, h.memoryKiB, h.parallelism, keyLen)
}

// affordable reports whether verifying h stays within twice the configured cost
// and its salt and key sizes are sane. Stored hashes may use older, cheaper settings.
func (h argon2idHash) affordable(p Argon2idParams) bool {
	return h.memoryKiB <= 2*p.MemoryKiB &&
		h.iterations <= 2*p.Iterations &&
		uint32(h.parallelism) <= 2*uint32(p.Parallelism) &&
		len(h.salt) >= 8 && len(h.salt) <= 64 &&
		len(h.key) >= 16 && len(h.key) <= 128
}

func parseArgon2idHash(s string) (argon2idHash, error) {
	f := strings.Split(s, "$")
	if len(f) != 6 || f[0] != "" || f[1] != "argon2id" || f[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return argon2idHash{}, ErrInvalidHash
	}

	var mem, iter, par uint32
	if n, err := fmt.Sscanf(f[3], "m=%d,t=%d,p=%d", &mem, &iter, &par); err != nil || n != 3 {
		return argon2idHash{}, ErrInvalidHash
	}
	if mem == 0 || iter == 0 || par == 0 || par > 255 {
		return argon2idHash{}, ErrInvalidHash
	}

	salt, err := phcEncoding.DecodeString(f[4])
	if err != nil {
		return argon2idHash{}, ErrInvalidHash
	}
	key, err := phcEncoding.DecodeString(f[5])
	if err != nil {
		return argon2idHash{}, ErrInvalidHash
	}

	return argon2idHash{
		memoryKiB:   mem,
		iterations:  iter,
		parallelism: uint8(par), // #nosec G115 -- checked against 255 above.
		salt:        salt,
		key:         key,
	}, nil
}

func (c Config) hashArgon2id(password string) (string, error) {
	h := argon2idHash{
		memoryKiB:   c.Params.MemoryKiB,
		iterations:  c.Params.Iterations,
		parallelism: c.Params.Parallelism,
		salt:        make([]byte, c.Params.SaltLength),
	}
	if _, err := rand.Read(h.salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}
	h.key = h.derive(password, c.Params.KeyLength)
	return h.String(), nil
}

func (c Config) verifyArgon2id(encodedHash, password string) (bool, error) {
	h, err := parseArgon2idHash(encodedHash)
	if err != nil {
		return false, err
	}
	if !h.affordable(c.Params) {
		return false, ErrInvalidHash
	}

	got := h.derive(password, uint32(len(h.key))) // #nosec G115 -- affordable() caps the key at 128 bytes.
	return subtle.ConstantTimeCompare(got, h.key) == 1, nil
}
