package domain

import "time"

type ItemRequest struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	RequestorID int64     `json:"requestor_id" db:"requestor_id"`
	Created     time.Time `json:"created" db:"created"`
}

// ItemRequestDetails is a request with the items that were listed in answer to it.
type ItemRequestDetails struct {
	ItemRequest
	Items []Item `json:"items"`
}
