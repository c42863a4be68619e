package mock

import (
	"context"
	"sync"
	"time"

	"github.com/pxlabs/kye-screener/internal/domain"
	"github.com/pxlabs/kye-screener/internal/records"
)

// Client - настраиваемый провайдер для тестов. PerSubject имеет приоритет
// над Records, Errors - над обоими.
type Client struct {
	Records    []domain.CaseRecord
	PerSubject map[string][]domain.CaseRecord
	Errors     map[string]error
	Error      error
	Delay      time.Duration

	CallCount   int
	LastSubject string
	AllSubjects []string

	mu sync.Mutex
}

func New() *Client {
	return &Client{}
}

func (c *Client) WithRecords(recs []domain.CaseRecord) *Client {
	c.Records = recs
	return c
}

func (c *Client) WithSubject(subjectID string, recs []domain.CaseRecord) *Client {
	if c.PerSubject == nil {
		c.PerSubject = make(map[string][]domain.CaseRecord)
	}
	c.PerSubject[subjectID] = recs
	return c
}

func (c *Client) WithSubjectError(subjectID string, err error) *Client {
	if c.Errors == nil {
		c.Errors = make(map[string]error)
	}
	c.Errors[subjectID] = err
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) FetchBySubject(ctx context.Context, subjectID string) ([]domain.CaseRecord, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastSubject = subjectID
	c.AllSubjects = append(c.AllSubjects, subjectID)
	delay := c.Delay
	err := c.Error
	if perErr, ok := c.Errors[subjectID]; ok {
		err = perErr
	}
	recs := c.Records
	if perRecs, ok := c.PerSubject[subjectID]; ok {
		recs = perRecs
	}
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}

	if recs == nil {
		return []domain.CaseRecord{}, nil
	}
	return recs, nil
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastSubject = ""
	c.AllSubjects = nil
}

var _ records.Client = (*Client)(nil)
