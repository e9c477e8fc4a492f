package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Comment is the payload checked by the /check endpoint, matching the
// shape the comments service sends for pre-publication screening.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	ParentID  uuid.UUID `json:"parent_id,omitempty"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Published time.Time `json:"published"`
}
