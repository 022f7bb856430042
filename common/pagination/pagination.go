package pagination

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page holds parsed page-number pagination parameters
type Page struct {
	Number int
	Size   int
}

// FromQuery parses page/page_size query parameters with sane bounds
func FromQuery(c *gin.Context) Page {
	number, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || number < 1 {
		number = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the row offset for the page
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Envelope is the page-number response body used by catalog list endpoints
type Envelope struct {
	Count       int64       `json:"count"`
	TotalPages  int64       `json:"total_pages"`
	CurrentPage int         `json:"current_page"`
	PageSize    int         `json:"page_size"`
	Next        *string     `json:"next"`
	Previous    *string     `json:"previous"`
	Results     interface{} `json:"results"`
}

// NewEnvelope builds the paginated response for a page of results
func NewEnvelope(c *gin.Context, p Page, count int64, results interface{}) Envelope {
	totalPages := (count + int64(p.Size) - 1) / int64(p.Size)
	if totalPages == 0 {
		totalPages = 1
	}

	env := Envelope{
		Count:       count,
		TotalPages:  totalPages,
		CurrentPage: p.Number,
		PageSize:    p.Size,
		Results:     results,
	}
	if int64(p.Number) < totalPages {
		env.Next = pageLink(c, p.Number+1, p.Size)
	}
	if p.Number > 1 {
		env.Previous = pageLink(c, p.Number-1, p.Size)
	}
	return env
}

func pageLink(c *gin.Context, page, size int) *string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(size))
	link := fmt.Sprintf("%s?%s", c.Request.URL.Path, q.Encode())
	return &link
}

// Cursor holds parsed cursor pagination parameters for time-ordered lists.
// Before is zero when no cursor was supplied. BeforeID breaks ties between
// rows sharing the same creation time.
type Cursor struct {
	Before   time.Time
	BeforeID uuid.UUID
	Size     int
}

// CursorFromQuery parses cursor/page_size query parameters. An unparseable
// cursor is treated as absent rather than rejected.
func CursorFromQuery(c *gin.Context) Cursor {
	size, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	cur := Cursor{Size: size}
	if raw := c.Query("cursor"); raw != "" {
		if t, id, ok := DecodeCursor(raw); ok {
			cur.Before = t
			cur.BeforeID = id
		}
	}
	return cur
}

// CursorEnvelope is the response body for cursor-paginated order history,
// ordered by descending creation time
type CursorEnvelope struct {
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewCursorEnvelope builds the cursor response. oldest and oldestID identify
// the last result on this page; hasMore reports whether older rows exist.
func NewCursorEnvelope(c *gin.Context, cur Cursor, oldest time.Time, oldestID uuid.UUID, hasMore bool, results interface{}) CursorEnvelope {
	env := CursorEnvelope{Results: results}
	if hasMore {
		q := url.Values{}
		q.Set("cursor", EncodeCursor(oldest, oldestID))
		q.Set("page_size", strconv.Itoa(cur.Size))
		link := fmt.Sprintf("%s?%s", c.Request.URL.Path, q.Encode())
		env.Next = &link
	}
	if !cur.Before.IsZero() {
		link := c.Request.URL.Path
		env.Previous = &link
	}
	return env
}

// EncodeCursor encodes a timestamp and row id as an opaque cursor token
func EncodeCursor(t time.Time, id uuid.UUID) string {
	payload := t.UTC().Format(time.RFC3339Nano) + "|" + id.String()
	return base64.URLEncoding.EncodeToString([]byte(payload))
}

// DecodeCursor decodes a cursor token back into its timestamp and row id
func DecodeCursor(raw string) (time.Time, uuid.UUID, bool) {
	b, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return time.Time{}, uuid.Nil, false
	}
	ts, idPart, found := strings.Cut(string(b), "|")
	if !found {
		return time.Time{}, uuid.Nil, false
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, uuid.Nil, false
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return time.Time{}, uuid.Nil, false
	}
	return t, id, true
}
