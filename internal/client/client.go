package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vlabgallery/internal/auth"
)

// Item is the wire shape of a gallery item as returned by the server.
type Item struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	ImageURL    string        `json:"imageUrl"`
	UploadedBy  *uint         `json:"uploadedBy,omitempty"`
	Uploader    *UploaderInfo `json:"uploader,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// UploaderInfo is the joined-in uploader identity.
type UploaderInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type itemEnvelope struct {
	Msg  string `json:"msg"`
	Item Item   `json:"item"`
}

// Client talks to the gallery service. Every request carries the session's
// token when one is held; without a token the request goes out unauthenticated
// and the server's guard answers.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates a client against baseURL using the given session.
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
	}
}

// Login authenticates and stores the issued token and role in the session.
func (c *Client) Login(ctx context.Context, email, password string) (auth.Role, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp, "Login failed. Please check your credentials.")
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	role, err := auth.ParseRole(out.Role)
	if err != nil {
		return "", fmt.Errorf("server returned unknown role: %w", err)
	}

	if err := c.session.Login(out.Token, role); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	return role, nil
}

// Logout revokes the token server-side, then clears the session. The local
// session is cleared even when the server call fails; the token then simply
// ages out.
func (c *Client) Logout(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return err
	}

	if resp, err := c.http.Do(req); err == nil {
		resp.Body.Close()
	}
	return c.session.Logout()
}

// List fetches all gallery items.
func (c *Client) List(ctx context.Context) ([]Item, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/gallery", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "Failed to load gallery")
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode gallery response: %w", err)
	}
	return items, nil
}

// Upload sends a multipart upload of the image at imagePath.
func (c *Client) Upload(ctx context.Context, title, description, category, imagePath string) (*Item, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("title", title)
	_ = writer.WriteField("description", description)
	_ = writer.WriteField("category", category)

	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/gallery/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "Upload failed")
	}

	var out itemEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &out.Item, nil
}

// UpdateItem applies a partial edit; nil fields are left unchanged.
func (c *Client) UpdateItem(ctx context.Context, id uint, title, description, category *string) (*Item, error) {
	payload := map[string]*string{}
	if title != nil {
		payload["title"] = title
	}
	if description != nil {
		payload["description"] = description
	}
	if category != nil {
		payload["category"] = category
	}
	body, _ := json.Marshal(payload)

	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/api/gallery/%d", id), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "Update failed")
	}

	var out itemEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode update response: %w", err)
	}
	return &out.Item, nil
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, id uint) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/gallery/%d", id), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp, "Delete failed")
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// decodeError surfaces the server's message verbatim, falling back to a
// generic message when the body is absent or unparseable.
func decodeError(resp *http.Response, fallback string) error {
	var body struct {
		Msg   string `json:"msg"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Msg != "" {
			return fmt.Errorf("%s", body.Msg)
		}
		if body.Error != "" {
			return fmt.Errorf("%s", body.Error)
		}
	}
	return fmt.Errorf("%s", fallback)
}
