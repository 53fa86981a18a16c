package detector

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
	"strconv"
	"sync"
	"time"
)

// Box is one detected region returned by the engine.
type Box struct {
	ClassID    int     `json:"class_id"`
	Confidence float64 `json:"confidence"`
}

type detectResponse struct {
	Boxes []Box `json:"boxes"`
}

type classesResponse struct {
	Classes []string `json:"classes"`
}

// Client talks to the external detection engine over HTTP. The engine
// exposes POST /detect (multipart image + confidence threshold) and
// GET /classes (the model's class list, indexed by class id).
type Client struct {
	host   string
	client *http.Client

	mu      sync.Mutex
	classes []string
}

// NewClient creates a detection engine client.
func NewClient(host string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		host:   host,
		client: &http.Client{Timeout: timeout},
	}
}

// Detect runs one detection pass over the image at path with the given
// confidence threshold.
func (c *Client) Detect(ctx context.Context, imagePath string, confidence float64) ([]Box, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := writer.WriteField("confidence", strconv.FormatFloat(confidence, 'f', -1, 64)); err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/detect", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection engine returned status %d", resp.StatusCode)
	}

	var parsed detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode detection response: %w", err)
	}

	return parsed.Boxes, nil
}

// Classes returns the engine's class list. The list is fixed for the
// lifetime of the loaded model, so it is fetched once and cached.
func (c *Client) Classes(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.classes != nil {
		return c.classes, nil
	}

	classes, err := c.fetchClasses(ctx)
	if err != nil {
		return nil, err
	}

	c.classes = classes
	return classes, nil
}

// Ping verifies engine connectivity without touching the class cache.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.fetchClasses(ctx)
	return err
}

func (c *Client) fetchClasses(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/classes", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classes request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection engine returned status %d", resp.StatusCode)
	}

	var parsed classesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode classes response: %w", err)
	}

	return parsed.Classes, nil
}
