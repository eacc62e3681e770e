package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSuccess_WhenCalled_ThenReturnsSuccessResponse(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	testData := map[string]string{"key": "value"}

	// Act
	Success(c, http.StatusOK, testData, "success message")

	// Assert
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response SuccessResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	if err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response.Message != "success message" {
		t.Errorf("expected message 'success message', got '%s'", response.Message)
	}
}

func TestError_WhenCalledWithRequestID_ThenIncludesTraceID(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "test-trace-id")

	// Act
	Error(c, http.StatusBadRequest, "test error", nil)

	// Assert
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var response ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response.Error != "test error" {
		t.Errorf("expected error 'test error', got '%s'", response.Error)
	}
	if response.TraceID != "test-trace-id" {
		t.Errorf("expected trace ID 'test-trace-id', got '%s'", response.TraceID)
	}
}

func TestError_WhenNoRequestID_ThenGeneratesTraceID(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Act
	Error(c, http.StatusInternalServerError, "test error", "details")

	// Assert
	var response ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response.TraceID == "" {
		t.Error("expected trace ID to be generated")
	}
	if response.Details != "details" {
		t.Errorf("expected details 'details', got '%v'", response.Details)
	}
}

func TestOK_WhenCalled_ThenReturns200(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Act
	OK(c, map[string]string{"result": "ok"})

	// Assert
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestAccepted_WhenCalled_ThenReturns202(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Act
	Accepted(c, map[string]bool{"recorded": true}, "")

	// Assert
	if w.Code != http.StatusAccepted {
		t.Errorf("expected status 202, got %d", w.Code)
	}
}

func TestBadRequest_WhenCalled_ThenReturns400(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Act
	BadRequest(c, "bad request", "details")

	// Assert
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestNotFound_WhenCalled_ThenReturns404(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Act
	NotFound(c, "not found")

	// Assert
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestInternalServerError_WhenCalled_ThenReturns500(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Act
	InternalServerError(c, "internal error")

	// Assert
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestGetRequestID_WhenSet_ThenReturnsStoredID(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "stored-id")

	// Act
	requestID := GetRequestID(c)

	// Assert
	if requestID != "stored-id" {
		t.Errorf("expected 'stored-id', got '%s'", requestID)
	}
}

func TestGetRequestID_WhenMissing_ThenGeneratesID(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Act
	requestID := GetRequestID(c)

	// Assert
	if requestID == "" {
		t.Error("expected request ID to be generated")
	}
}

func TestGetRequestID_WhenWrongType_ThenGeneratesID(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", 12345)

	// Act
	requestID := GetRequestID(c)

	// Assert
	if requestID == "" {
		t.Error("expected request ID to be generated")
	}
}
