package security

import "golang.org/x/crypto/bcrypt"

// HashKey produces a bcrypt hash suitable for the AUTHORING_KEY_HASH config
// entry. Exposed so an operator tool can generate the hash offline.
func HashKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckKeyHash reports whether the presented authoring key matches the
// configured bcrypt hash.
func CheckKeyHash(key, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
