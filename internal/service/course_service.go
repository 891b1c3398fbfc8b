package service

import (
	"html/template"
	"strings"

	"course-portal/internal/markdown"
	"course-portal/internal/model"
	"course-portal/internal/util"
)

// CourseContent is the members-only view of a course.
type CourseContent struct {
	Course model.Course
	Body   template.HTML
	Videos []string
}

func BuildContent(course model.Course) CourseContent {
	return CourseContent{
		Course: course,
		Body:   markdown.Render(course.Content),
		Videos: util.YouTubeEmbeds(course.VideoURL1, course.VideoURL2),
	}
}

// SummaryLines splits a course summary into its non-blank lines.
func SummaryLines(summary string) []string {
	var out []string
	for _, line := range strings.Split(summary, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
