package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is used when the caller does not ask for a page size.
	DefaultLimit = 25
	// MaxLimit is the hard ceiling on any page size.
	MaxLimit = 100
)

// Params carries the page size and opaque cursor through a list call.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the (created_at, id) position a list resumes from. The id
// breaks ties between rows created in the same microsecond.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a requested page size into [1, MaxLimit].
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer asks for one extra row so repositories can tell
// whether another page exists without a second query.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor renders the cursor as an opaque URL-safe token.
func EncodeCursor(cursor Cursor) string {
	raw := strconv.FormatInt(cursor.CreatedAt.UTC().UnixMicro(), 10) + "." + cursor.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor reverses EncodeCursor. An empty or blank token means
// "start from the beginning" and yields a nil cursor.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	ts, idPart, ok := strings.Cut(string(raw), ".")
	if !ok {
		return nil, fmt.Errorf("malformed cursor")
	}

	micros, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor id: %w", err)
	}
	return &Cursor{CreatedAt: time.UnixMicro(micros).UTC(), ID: id}, nil
}
