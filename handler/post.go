package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"blogapi/domain"
	"blogapi/store"
)

const welcomeMessage = "Welcome to the Blog API!"

var sanitizerStrict = bluemonday.StrictPolicy()

func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (h *Handler) ListBlogs(c echo.Context) error {
	db, err := conn(c)
	if err != nil {
		return err
	}
	posts, err := store.ListPosts(c.Request().Context(), db)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.NewPostViews(posts))
}

func (h *Handler) CreateBlog(c echo.Context) error {
	in := new(domain.PostCreate)
	if err := bindBody(c, in); err != nil {
		return err
	}
	db, err := conn(c)
	if err != nil {
		return err
	}
	post, err := store.CreatePost(c.Request().Context(), db, *in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.NewPostView(post))
}

func (h *Handler) GetBlog(c echo.Context) error {
	post, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.NewPostView(post))
}

type PostDTO struct {
	ID      uint
	Title   template.HTML
	Content template.HTML
}

// GetBlogHTML renders the post content as Markdown.
func (h *Handler) GetBlogHTML(c echo.Context) error {
	post, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "post.html", PostDTO{
		ID:      post.ID,
		Title:   template.HTML(sanitizerStrict.Sanitize(post.Title)),
		Content: safeMd(post.Content),
	})
}

func (h *Handler) lookup(c echo.Context) (domain.Post, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		return domain.Post{}, &ValidationError{Detail: []FieldError{{
			Loc:  []string{"path", "id"},
			Msg:  "value is not a valid integer",
			Type: "type_error.integer",
		}}}
	}
	db, err := conn(c)
	if err != nil {
		return domain.Post{}, err
	}
	post, err := store.GetPost(c.Request().Context(), db, uint(id))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Post{}, echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}
	return post, err
}

func mdToHTML(md string) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	opts := html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank}
	return markdown.Render(doc, html.NewRenderer(opts))
}

func safeMd(content string) template.HTML {
	return template.HTML(bluemonday.UGCPolicy().SanitizeBytes(mdToHTML(content)))
}
