package domain

// PostCreate is the body accepted when creating a post. Fields are pointers
// so that a missing or null key can be told apart from an empty string.
type PostCreate struct {
	Title   *string `json:"title" validate:"required"`
	Content *string `json:"content" validate:"required"`
}

// Post builds the entity to insert. It does not validate.
func (p PostCreate) Post() Post {
	post := Post{}
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	return post
}

type PostView struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func NewPostView(p Post) PostView {
	return PostView{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
	}
}

func NewPostViews(posts []Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, NewPostView(p))
	}
	return views
}
