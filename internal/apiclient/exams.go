package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"course-portal/internal/model"
)

// MyExams lists the exam history of the signed-in user.
func (c *Client) MyExams(ctx context.Context) ([]model.Exam, error) {
	var exams []model.Exam
	if err := c.getJSON(ctx, "examenes.php", nil, &exams); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

func (c *Client) SubmitExam(ctx context.Context, req model.ExamSubmission) (*model.MessageResponse, error) {
	var resp model.MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "examenes.php", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("submit exam for course %d: %w", req.CourseID, err)
	}
	return &resp, nil
}

func (c *Client) ExamsAdmin(ctx context.Context, params model.TableParams) (*model.Paginated[model.Exam], error) {
	page, err := GetPaginated[model.Exam](ctx, c, "examenes-paginados-admin.php", params, nil)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return page, nil
}
