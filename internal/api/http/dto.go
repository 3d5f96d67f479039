package http

import (
	"fmt"
	"strings"
	"time"

	"shareit-backend/internal/domain"
)

// TimeLayout is the wire format of every timestamp. Values carry no zone and are read as UTC.
const TimeLayout = "2006-01-02T15:04:05"

// ParseTime accepts TimeLayout or RFC 3339. An empty string yields the zero time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(TimeLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, expected %s", s, TimeLayout)
	}
	return t.UTC(), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type userRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type itemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"requestId"`
}

type itemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   *int64 `json:"requestId"`
}

func toItemResponse(it domain.Item) itemResponse {
	return itemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		RequestID:   it.RequestID,
	}
}

type shortBookingResponse struct {
	ID       int64  `json:"id"`
	Start    string `json:"start"`
	End      string `json:"end"`
	BookerID int64  `json:"bookerId"`
}

func toShortBooking(b *domain.Booking) *shortBookingResponse {
	if b == nil {
		return nil
	}
	return &shortBookingResponse{ID: b.ID, Start: formatTime(b.StartTime), End: formatTime(b.EndTime), BookerID: b.BookerID}
}

type itemDetailsResponse struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Available   bool                  `json:"available"`
	OwnerID     int64                 `json:"ownerId"`
	RequestID   *int64                `json:"requestId"`
	Comments    []commentResponse     `json:"comments"`
	LastBooking *shortBookingResponse `json:"lastBooking"`
	NextBooking *shortBookingResponse `json:"nextBooking"`
}

func toItemDetailsResponse(d domain.ItemDetails) itemDetailsResponse {
	comments := make([]commentResponse, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, toCommentResponse(c))
	}
	return itemDetailsResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Available:   d.Available,
		OwnerID:     d.OwnerID,
		RequestID:   d.RequestID,
		Comments:    comments,
		LastBooking: toShortBooking(d.LastBooking),
		NextBooking: toShortBooking(d.NextBooking),
	}
}

type commentRequest struct {
	Text string `json:"text"`
}

type commentResponse struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	AuthorName string `json:"authorName"`
	Created    string `json:"created"`
}

func toCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: formatTime(c.Created)}
}

type bookingRequest struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	ItemID int64  `json:"itemId"`
}

type bookingResponse struct {
	ID       int64        `json:"id"`
	Start    string       `json:"start"`
	End      string       `json:"end"`
	ItemID   int64        `json:"itemId"`
	BookerID int64        `json:"bookerId"`
	Status   string       `json:"status"`
	Item     itemResponse `json:"item"`
	Booker   userResponse `json:"booker"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:       b.ID,
		Start:    formatTime(b.StartTime),
		End:      formatTime(b.EndTime),
		ItemID:   b.ItemID,
		BookerID: b.BookerID,
		Status:   string(b.Status),
		Item:     toItemResponse(b.Item),
		Booker:   toUserResponse(b.Booker),
	}
}

func toBookingResponses(list []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResponse(b))
	}
	return out
}

type itemRequestRequest struct {
	Description string `json:"description"`
}

type requestItemResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"ownerId"`
}

type itemRequestResponse struct {
	ID          int64                 `json:"id"`
	Description string                `json:"description"`
	RequestorID int64                 `json:"requestorId"`
	Created     string                `json:"created"`
	Items       []requestItemResponse `json:"items"`
}

func toItemRequestResponse(d domain.ItemRequestDetails) itemRequestResponse {
	items := make([]requestItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, requestItemResponse{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID})
	}
	return itemRequestResponse{
		ID:          d.ID,
		Description: d.Description,
		RequestorID: d.RequestorID,
		Created:     formatTime(d.Created),
		Items:       items,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}
