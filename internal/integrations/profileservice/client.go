package profileservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
)

// Client клиент для работы с ProfileService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ProfileService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetTeacher получает профиль преподавателя вместе со ставкой
func (c *Client) GetTeacher(ctx context.Context, teacherID int64) (*domain.Teacher, error) {
	url := fmt.Sprintf("%s/internal/teachers/%d", c.baseURL, teacherID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("GetTeacher: ProfileService request failed for teacher=%d: %v", teacherID, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrTeacherNotFound
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid teacher ID format", ErrInvalidResponse)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var teacher Teacher
	if err := json.NewDecoder(resp.Body).Decode(&teacher); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if teacher.ID == 0 {
		teacher.ID = teacherID
	}

	return teacher.toDomain(), nil
}

// Static справочник без внешнего сервиса: любой преподаватель существует
// и имеет ставку по умолчанию. Используется, когда profile_service.url не задан.
type Static struct{}

func (Static) GetTeacher(_ context.Context, teacherID int64) (*domain.Teacher, error) {
	if teacherID <= 0 {
		return nil, ErrTeacherNotFound
	}
	return &domain.Teacher{ID: teacherID}, nil
}
