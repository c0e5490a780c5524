package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coarpuno/recojo/internal/app/models"
)

// stubParentService serves a fixed linked student
type stubParentService struct {
	student *models.Student
}

func (s *stubParentService) GetParent(context.Context, int64) (*models.Parent, error) {
	return nil, nil
}

func (s *stubParentService) GetLinkedStudent(context.Context, int64) (*models.Student, error) {
	return s.student, nil
}

func (s *stubParentService) LinkStudent(context.Context, int64, string) (*models.Student, error) {
	return s.student, nil
}

func linkedStudentResponse(t *testing.T, status models.PickupAuthStatus) map[string]interface{} {
	t.Helper()
	gin.SetMode(gin.TestMode)

	controller := NewParentController(&stubParentService{
		student: &models.Student{ID: 1, Name: "Ana Quispe", PickupAuthorization: status},
	}, zerolog.Nop())

	router := gin.New()
	router.GET("/parents/me/student", func(c *gin.Context) {
		c.Set("accountID", int64(42))
		controller.GetLinkedStudent(c)
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/parents/me/student", nil)
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Data
}

func TestGetLinkedStudentCarriesCanRequest(t *testing.T) {
	// The request button enables exactly in the states a parent may leave
	cases := []struct {
		status     models.PickupAuthStatus
		canRequest bool
	}{
		{models.PickupNone, true},
		{models.PickupRejected, true},
		{models.PickupPending, false},
		{models.PickupApproved, false},
	}

	for _, tc := range cases {
		data := linkedStudentResponse(t, tc.status)
		assert.Equal(t, tc.canRequest, data["canRequest"], "status %s", tc.status)
	}
}
