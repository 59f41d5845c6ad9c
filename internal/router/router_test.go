package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vlabgallery/internal/auth"
	"vlabgallery/internal/config"
	apperrors "vlabgallery/internal/errors"
	"vlabgallery/internal/handler"
	"vlabgallery/internal/model"
	"vlabgallery/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string, role auth.Role) (*model.User, error) {
	args := m.Called(ctx, name, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, auth.Role, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(auth.Role), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockGalleryService is a mock implementation of service.GalleryService.
type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) Upload(ctx context.Context, principal auth.Principal, in service.UploadInput) (*model.GalleryItem, error) {
	args := m.Called(ctx, principal, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GalleryItem), args.Error(1)
}

func (m *MockGalleryService) List(ctx context.Context) ([]model.GalleryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GalleryItem), args.Error(1)
}

func (m *MockGalleryService) Update(ctx context.Context, id uint, in service.UpdateInput) (*model.GalleryItem, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GalleryItem), args.Error(1)
}

func (m *MockGalleryService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type allowAllTokenStore struct{}

func (allowAllTokenStore) DenyToken(context.Context, string, time.Duration) error { return nil }
func (allowAllTokenStore) IsTokenDenied(context.Context, string) (bool, error)    { return false, nil }

func newTestServer(t *testing.T, gallerySvc service.GalleryService, authSvc service.AuthService) (*echo.Echo, *auth.JWTService) {
	t.Helper()
	e := echo.New()
	jwtService := auth.NewJWTService("test-secret")
	authMW := auth.NewMiddleware(jwtService, allowAllTokenStore{})
	Register(e, &config.Config{}, authMW, handler.NewAuthHandler(authSvc), handler.NewGalleryHandler(gallerySvc))
	return e, jwtService
}

func bearer(t *testing.T, jwtService *auth.JWTService, userID uint, role auth.Role) string {
	t.Helper()
	token, err := jwtService.GenerateToken(userID, role.String()+"@example.com", role)
	assert.NoError(t, err)
	return "Bearer " + token
}

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.MsgResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Msg
}

func multipartUpload(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		assert.NoError(t, writer.WriteField(k, v))
	}
	if withImage {
		part, err := writer.CreateFormFile("image", "sunset.jpg")
		assert.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestAdminRoutes_RejectWithoutToken(t *testing.T) {
	gallerySvc := new(MockGalleryService)
	e, _ := newTestServer(t, gallerySvc, new(MockAuthService))

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/gallery/upload"},
		{http.MethodPut, "/api/gallery/1"},
		{http.MethodDelete, "/api/gallery/1"},
	}

	for _, r := range requests {
		req := httptest.NewRequest(r.method, r.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)
		assert.NotEmpty(t, decodeMsg(t, rec))
	}

	// no mutation reached the service
	gallerySvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	gallerySvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	gallerySvc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAdminRoutes_RejectUserRole(t *testing.T) {
	gallerySvc := new(MockGalleryService)
	e, jwtService := newTestServer(t, gallerySvc, new(MockAuthService))
	token := bearer(t, jwtService, 2, auth.RoleUser)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/gallery/upload"},
		{http.MethodPut, "/api/gallery/1"},
		{http.MethodDelete, "/api/gallery/1"},
	}

	for _, r := range requests {
		req := httptest.NewRequest(r.method, r.path, nil)
		req.Header.Set(echo.HeaderAuthorization, token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", r.method, r.path)
	}

	gallerySvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	gallerySvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	gallerySvc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUpload_Success(t *testing.T) {
	gallerySvc := new(MockGalleryService)
	uploadedBy := uint(1)
	gallerySvc.On("Upload", mock.Anything, mock.MatchedBy(func(p auth.Principal) bool {
		return p.UserID == 1 && p.Role == auth.RoleAdmin
	}), mock.AnythingOfType("service.UploadInput")).Return(&model.GalleryItem{
		ID:         10,
		Title:      "Sunset",
		ImageURL:   "https://assets.example.com/virtual_lab_gallery/abc.jpg",
		UploadedBy: &uploadedBy,
	}, nil)

	e, jwtService := newTestServer(t, gallerySvc, new(MockAuthService))

	body, contentType := multipartUpload(t, map[string]string{"title": "Sunset"}, true)
	req := httptest.NewRequest(http.MethodPost, "/api/gallery/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, jwtService, 1, auth.RoleAdmin))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handler.ItemEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Image uploaded successfully", resp.Msg)
	assert.NotEmpty(t, resp.Item.ImageURL)
	assert.NotNil(t, resp.Item.UploadedBy)
	assert.Equal(t, uint(1), *resp.Item.UploadedBy)
	gallerySvc.AssertExpectations(t)
}

func TestUpload_MissingImagePart(t *testing.T) {
	gallerySvc := new(MockGalleryService)
	e, jwtService := newTestServer(t, gallerySvc, new(MockAuthService))

	body, contentType := multipartUpload(t, map[string]string{"title": "Sunset"}, false)
	req := httptest.NewRequest(http.MethodPost, "/api/gallery/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, jwtService, 1, auth.RoleAdmin))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No image uploaded", decodeMsg(t, rec))
	gallerySvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_UnknownID(t *testing.T) {
	gallerySvc := new(MockGalleryService)
	gallerySvc.On("Update", mock.Anything, uint(999), mock.Anything).Return(nil, apperrors.ErrItemNotFound)
	e, jwtService := newTestServer(t, gallerySvc, new(MockAuthService))

	req := httptest.NewRequest(http.MethodPut, "/api/gallery/999", strings.NewReader(`{"title":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, jwtService, 1, auth.RoleAdmin))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item not found", decodeMsg(t, rec))
}

func TestUpdate_MalformedID(t *testing.T) {
	gallerySvc := new(MockGalleryService)
	e, jwtService := newTestServer(t, gallerySvc, new(MockAuthService))

	req := httptest.NewRequest(http.MethodPut, "/api/gallery/not-a-number", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, jwtService, 1, auth.RoleAdmin))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	gallerySvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_SecondCallReturns404(t *testing.T) {
	gallerySvc := new(MockGalleryService)
	gallerySvc.On("Delete", mock.Anything, uint(5)).Return(nil).Once()
	gallerySvc.On("Delete", mock.Anything, uint(5)).Return(apperrors.ErrItemNotFound).Once()

	e, jwtService := newTestServer(t, gallerySvc, new(MockAuthService))
	token := bearer(t, jwtService, 1, auth.RoleAdmin)

	req := httptest.NewRequest(http.MethodDelete, "/api/gallery/5", nil)
	req.Header.Set(echo.HeaderAuthorization, token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deleted successfully", decodeMsg(t, rec))

	req = httptest.NewRequest(http.MethodDelete, "/api/gallery/5", nil)
	req.Header.Set(echo.HeaderAuthorization, token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_PublicAndJoined(t *testing.T) {
	gallerySvc := new(MockGalleryService)
	uploadedBy := uint(1)
	gallerySvc.On("List", mock.Anything).Return([]model.GalleryItem{
		{
			ID:         1,
			Title:      "Sunset",
			ImageURL:   "https://assets.example.com/a.jpg",
			UploadedBy: &uploadedBy,
			Uploader:   &model.User{ID: 1, Name: "Admin", Email: "admin@example.com"},
		},
	}, nil)

	e, _ := newTestServer(t, gallerySvc, new(MockAuthService))

	req := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var items []handler.ItemResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 1)
	assert.Equal(t, "admin@example.com", items[0].Uploader.Email)
}

func TestErrorShapes(t *testing.T) {
	gallerySvc := new(MockGalleryService)
	gallerySvc.On("List", mock.Anything).Return(nil, assert.AnError)
	e, _ := newTestServer(t, gallerySvc, new(MockAuthService))

	req := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body apperrors.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error, "5xx responses use the error field")
}

func TestLogin_ReturnsTokenAndRole(t *testing.T) {
	authSvc := new(MockAuthService)
	authSvc.On("Login", mock.Anything, "admin@example.com", "password123").
		Return("signed-token", auth.RoleAdmin, nil)

	e, _ := newTestServer(t, new(MockGalleryService), authSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"password123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handler.LoginResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, "admin", resp.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	authSvc := new(MockAuthService)
	authSvc.On("Login", mock.Anything, "admin@example.com", "wrong").
		Return("", auth.Role(""), service.ErrInvalidCredentials)

	e, _ := newTestServer(t, new(MockGalleryService), authSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeMsg(t, rec))
}
