package users

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the product has always used for
// account passwords. Raising it invalidates no existing hash but slows
// signup and login proportionally.
const bcryptCost = 8

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
