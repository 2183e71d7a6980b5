package backend

import (
	"context"
	"net/http"
	"strconv"
)

// ListBlogs fetches every published post.
func (c *Client) ListBlogs(ctx context.Context) ([]Blog, error) {
	var blogs []Blog
	err := c.do(ctx, call{op: "list blogs", method: http.MethodGet, path: "/api/blogs/"}, &blogs)
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

func (c *Client) GetBlog(ctx context.Context, id int) (*Blog, error) {
	var blog Blog
	err := c.do(ctx, call{
		op:     "get blog",
		method: http.MethodGet,
		path:   blogPath(id),
	}, &blog)
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (c *Client) ListComments(ctx context.Context, blogID int) ([]BlogComment, error) {
	var comments []BlogComment
	err := c.do(ctx, call{
		op:     "list comments",
		method: http.MethodGet,
		path:   blogPath(blogID) + "comments/",
	}, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment posts content under the session's account and returns the
// stored comment.
func (c *Client) CreateComment(ctx context.Context, token string, blogID int, content string) (*BlogComment, error) {
	var comment BlogComment
	err := c.do(ctx, call{
		op:     "create comment",
		method: http.MethodPost,
		path:   blogPath(blogID) + "comments/create/",
		auth:   true,
		token:  token,
		body:   map[string]string{"content": content},
	}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func blogPath(id int) string {
	return "/api/blogs/" + strconv.Itoa(id) + "/"
}
