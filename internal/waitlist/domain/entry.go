package domain

import "time"

// Source is the optional referral-source answer on the waitlist form.
type Source string

const (
	SourceNone      Source = ""
	SourceInstagram Source = "instagram"
	SourceFriend    Source = "friend"
	SourceSearch    Source = "search"
	SourceOther     Source = "other"
)

func (s Source) Valid() bool {
	switch s {
	case SourceNone, SourceInstagram, SourceFriend, SourceSearch, SourceOther:
		return true
	}
	return false
}

// Entry is one waitlist submission as sent to the external collector.
type Entry struct {
	Name      string
	Email     string
	Phone     string
	Source    Source
	Product   string
	Timestamp time.Time
}
