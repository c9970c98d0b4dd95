package identity

import "time"

// Account is a registered notebook user.
// Accounts are created on registration and never mutated afterwards.
type Account struct {
	ID        string
	Name      string
	Email     string
	EmailNorm string
	CreatedAt time.Time
}

// AccountAuth pairs an account with its stored password hash.
// It only travels between the store and the login path.
type AccountAuth struct {
	Account
	PasswordHash string
}

// Profile is the public projection of an Account.
type Profile struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// Profile returns the public fields of a.
func (a Account) Profile() Profile {
	return Profile{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}
