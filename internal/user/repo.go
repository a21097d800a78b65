package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
)

func ExistsByEmail(email string) bool {
	var count int64
	database.DB.Model(&User{}).Where("email = ?", email).Count(&count)
	return count > 0
}

func ExistsByUsername(username string) bool {
	var count int64
	database.DB.Model(&User{}).Where("username = ?", username).Count(&count)
	return count > 0
}

// IsAdmin checks the admin flag for a user ID. An unknown user is not
// an admin rather than an error.
func IsAdmin(userID string) (bool, error) {
	var isAdmin bool
	if err := database.DB.Model(&User{}).Select("is_admin").Where("id = ?", userID).Scan(&isAdmin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return isAdmin, nil
}
