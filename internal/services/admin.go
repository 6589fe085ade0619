package services

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// AdminService checks the single configured admin credential pair
type AdminService struct {
	username     string
	passwordHash []byte
}

// NewAdminService creates an admin service. A bcrypt passwordHash wins over
// a plaintext password; a plaintext password is hashed once here.
func NewAdminService(username, password, passwordHash string) (*AdminService, error) {
	if username == "" {
		return nil, fmt.Errorf("admin username is required")
	}

	hash := []byte(passwordHash)
	if passwordHash == "" {
		if password == "" {
			return nil, fmt.Errorf("admin password is required")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}

	return &AdminService{
		username:     username,
		passwordHash: hash,
	}, nil
}

// Authenticate returns ErrInvalidCredentials unless both username and
// password match. The response does not reveal which one was wrong.
func (s *AdminService) Authenticate(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
