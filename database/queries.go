package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail = errors.New("that email is already registered")
	ErrDuplicateTitle = errors.New("a post with that title already exists")
)

// CreateUser inserts a new user, mapping the unique-email constraint to
// ErrDuplicateEmail.
func CreateUser(user *User) error {
	result := GetDB().Create(user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicateEmail
		}
		return result.Error
	}
	return nil
}

// RegisterUser inserts a new account, marking it admin when it is the first
// one ever registered. Count and insert share a transaction so two
// concurrent first registrations cannot both (or neither) become admin.
func RegisterUser(user *User) error {
	err := GetDB().Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Count(&count).Error; err != nil {
			return err
		}
		user.IsAdmin = count == 0
		return tx.Create(user).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// CountUsers returns the total number of registered users.
func CountUsers() (int64, error) {
	var count int64
	result := GetDB().Model(&User{}).Count(&count)
	return count, result.Error
}

func GetUserWithEmail(email string) (*User, error) {
	var user User
	result := GetDB().Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

// CreatePost inserts a new post, mapping the unique-title constraint to
// ErrDuplicateTitle.
func CreatePost(post *Post) error {
	result := GetDB().Create(post)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicateTitle
		}
		return result.Error
	}
	return nil
}

func GetPostWithTitle(title string) (*Post, error) {
	var post Post
	result := GetDB().Where("title = ?", title).First(&post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &post, nil
}

func GetPostWithSlug(slug string) (*Post, error) {
	var post Post
	result := GetDB().Where("slug = ?", slug).First(&post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &post, nil
}

// ListPostsNewestFirst returns up to limit posts ordered by publish date descending.
func ListPostsNewestFirst(limit int) ([]Post, error) {
	var posts []Post
	result := GetDB().Preload("Author").Order("published_at DESC").Limit(limit).Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

// DeletePostCascade removes a post together with its comments. Both deletes
// happen in one transaction so a failure leaves the post intact.
func DeletePostCascade(post *Post) error {
	return GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}

// sqlite reports constraint failures only through the error text
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
