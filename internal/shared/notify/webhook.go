// Package notify 向外部webhook推送业务事件
// 配置了webhook地址时，新请求和审批结果会异步推送，
// 推送失败只记日志不影响主流程
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// 事件类型常量
const (
	EventRequestCreated    = "document_request.created"
	EventRequestApproved   = "document_request.approved"
	EventRequestRejected   = "document_request.rejected"
	EventSubmissionCreated = "data_submission.created"
	EventSubmissionReviewed = "data_submission.reviewed"
)

// Event 推送事件
type Event struct {
	Type        string `json:"type"`
	EmployeeNIK string `json:"employee_nik"`
	RefID       string `json:"ref_id"`
	Title       string `json:"title"`
	Status      string `json:"status,omitempty"`
	Detail      string `json:"detail,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

// Client webhook推送客户端
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient 创建推送客户端
func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send 推送单个事件
func (c *Client) Send(ctx context.Context, event Event) error {
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().Format(time.RFC3339)
	}

	bodyBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
