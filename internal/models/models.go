package models

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserSummary is the display projection used by follower/following lists.
type UserSummary struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type Post struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	AuthorID string    `json:"author_id"`
	Created  time.Time `json:"created"`

	// IsOwner is computed per read relative to the visiting actor; never stored.
	IsOwner bool `json:"is_owner,omitempty"`
}

// Follow is the directed edge "author follows followee".
type Follow struct {
	AuthorID   string `json:"author_id"`
	FolloweeID string `json:"followee_id"`
}

// ValidationErrors is an ordered list of human-readable failure reasons.
// A mutating operation commits only when the accumulated list is empty.
type ValidationErrors []string

func (e ValidationErrors) Error() string {
	return strings.Join(e, " ")
}

// Avatar derives a gravatar URL from an email address.
func Avatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://gravatar.com/avatar/%x?s=128", sum)
}
