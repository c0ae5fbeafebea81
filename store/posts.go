package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"blogapi/domain"
)

var ErrNotFound = errors.New("store: not found")

// ListPosts returns every post ordered by id. The slice is empty, not nil,
// when there are none.
func ListPosts(ctx context.Context, conn *gorm.DB) ([]domain.Post, error) {
	posts := []domain.Post{}
	if err := conn.WithContext(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// CreatePost inserts a single row and returns it with the generated id.
func CreatePost(ctx context.Context, conn *gorm.DB, in domain.PostCreate) (domain.Post, error) {
	post := in.Post()
	if err := conn.WithContext(ctx).Create(&post).Error; err != nil {
		return domain.Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func GetPost(ctx context.Context, conn *gorm.DB, id uint) (domain.Post, error) {
	var post domain.Post
	err := conn.WithContext(ctx).Where("id = ?", id).Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Post{}, ErrNotFound
	}
	if err != nil {
		return domain.Post{}, fmt.Errorf("get post %d: %w", id, err)
	}
	return post, nil
}
