package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
)

type matchRunnerMock struct {
	result  *models.MatchResult
	err     error
	periodo string
}

func (m *matchRunnerMock) Run(ctx context.Context, periodo string) (*models.MatchResult, error) {
	m.periodo = periodo
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func runMatchRequest(t *testing.T, mock *matchRunnerMock) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := NewMatchHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/periodos/2025-1/match", nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{{Key: "periodo", Value: "2025-1"}}
	handler.Run(c)
	return w
}

func TestMatchHandlerRun(t *testing.T) {
	mock := &matchRunnerMock{result: &models.MatchResult{
		Message:         "match ejecutado correctamente",
		TotalProcesados: 3,
		Matches:         2,
		SinMatch:        1,
	}}

	w := runMatchRequest(t, mock)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-1", mock.periodo)

	var envelope struct {
		Data models.MatchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 3, envelope.Data.TotalProcesados)
	assert.Equal(t, 2, envelope.Data.Matches)
	assert.Equal(t, 1, envelope.Data.SinMatch)
}

func TestMatchHandlerRunConflict(t *testing.T) {
	mock := &matchRunnerMock{err: appErrors.Clone(appErrors.ErrRunInProgress, "")}
	w := runMatchRequest(t, mock)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMatchHandlerRunNoRoster(t *testing.T) {
	mock := &matchRunnerMock{err: appErrors.Clone(appErrors.ErrNoRoster, "no roster loaded for periodo 2025-1")}
	w := runMatchRequest(t, mock)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
