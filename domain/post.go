package domain

// Post is a stored blog post. ID is assigned by the store on insert.
type Post struct {
	ID      uint   `gorm:"primaryKey"`
	Title   string `gorm:"not null"`
	Content string `gorm:"not null"`
}

func (Post) TableName() string {
	return "blogs"
}
