package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestRejectsAdminRole(t *testing.T) {
	v := NewValidator()
	require.NotNil(t, v)

	err := v.Validate(&RegisterRequest{
		Name:     "Mary",
		Email:    "mary@example.com",
		Password: "secret123",
		Role:     "admin",
	})
	assert.Error(t, err)

	err = v.Validate(&RegisterRequest{
		Name:     "Mary",
		Email:    "mary@example.com",
		Password: "secret123",
		Role:     "publisher",
	})
	assert.NoError(t, err)
}

func TestCourseRequestMinimumSkill(t *testing.T) {
	v := NewValidator()

	course := CourseRequest{
		Title:        "Full Stack Web Dev",
		Description:  "Everything from HTML to Node",
		Weeks:        12,
		Tuition:      10000,
		MinimumSkill: "wizard",
	}
	assert.Error(t, v.Validate(&course))

	course.MinimumSkill = "intermediate"
	assert.NoError(t, v.Validate(&course))
}

func TestReviewRequestRatingBounds(t *testing.T) {
	v := NewValidator()

	review := ReviewRequest{Title: "Good", Text: "Solid course", Rating: 11}
	assert.Error(t, v.Validate(&review))

	review.Rating = 10
	assert.NoError(t, v.Validate(&review))

	review.Rating = 0
	assert.Error(t, v.Validate(&review))
}

func TestValidationErrorsUseJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&UserRequest{Name: "X", Email: "not-an-email", Password: "secret1", Role: "user"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}
