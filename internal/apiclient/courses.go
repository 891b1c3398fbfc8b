package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"course-portal/internal/model"
)

func (c *Client) Courses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := c.getJSON(ctx, "cursos.php", nil, &courses); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (c *Client) Course(ctx context.Context, id int) (*model.Course, error) {
	var course model.Course
	if err := c.getJSON(ctx, "cursos.php", idQuery(id), &course); err != nil {
		return nil, fmt.Errorf("get course %d: %w", id, err)
	}
	return &course, nil
}

func (c *Client) CoursesAdmin(ctx context.Context, params model.TableParams, onlyActive bool) (*model.Paginated[model.Course], error) {
	page, err := GetPaginated[model.Course](ctx, c, "cursos-paginados-admin.php", params, activeFilter(onlyActive))
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return page, nil
}

func (c *Client) CreateCourse(ctx context.Context, req model.CourseCreate) (*model.MessageResponse, error) {
	var resp model.MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "cursos.php", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &resp, nil
}

func (c *Client) UpdateCourse(ctx context.Context, req model.CourseUpdate) (*model.MessageResponse, error) {
	var resp model.MessageResponse
	if err := c.sendJSON(ctx, http.MethodPut, "cursos.php", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("update course %d: %w", req.ID, err)
	}
	return &resp, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id int) error {
	if err := c.sendJSON(ctx, http.MethodDelete, "cursos.php", nil, idBody{ID: id}, nil); err != nil {
		return fmt.Errorf("delete course %d: %w", id, err)
	}
	return nil
}

// UploadImage posts the image as the multipart field "imagen" and returns
// the stored URL.
func (c *Client) UploadImage(ctx context.Context, filename string, data io.Reader) (*model.UploadResponse, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("imagen", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("create upload part: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("copy upload: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("close upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("upload.php", nil), &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var resp model.UploadResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return &resp, nil
}
