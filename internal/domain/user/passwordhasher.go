package user

// PasswordHasher hashes and checks credentials. Verify returns an error for
// any mismatch.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}
