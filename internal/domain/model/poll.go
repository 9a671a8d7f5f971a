package model

import (
	"regexp"
	"time"

	"propfirm-web/internal/domain"
)

// VoteChoice is a yes/no poll vote.
type VoteChoice string

const (
	VoteYes VoteChoice = "yes"
	VoteNo  VoteChoice = "no"
)

// Poll is a community poll document. YesVotes/NoVotes are denormalized for
// display and must stay in lockstep with the Votes map on every mutation;
// CastVote is the only place that touches either.
type Poll struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	CreatorName string                `json:"creator_name"`
	YesVotes    int                   `json:"yes_votes"`
	NoVotes     int                   `json:"no_votes"`
	Votes       map[string]VoteChoice `json:"votes"` // user id -> current vote
	CreatedAt   time.Time             `json:"created_at"`
}

func NewPoll(id, title, description, creatorName string) (*Poll, error) {
	if id == "" || title == "" || creatorName == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Poll{
		ID:          id,
		Title:       title,
		Description: description,
		CreatorName: creatorName,
		Votes:       make(map[string]VoteChoice),
		CreatedAt:   time.Now(),
	}, nil
}

// CastVote applies a vote in one operation regardless of prior state:
// no vote -> voted; same choice again -> retracted; other choice -> switched.
func (p *Poll) CastVote(userID string, choice VoteChoice) error {
	if userID == "" || (choice != VoteYes && choice != VoteNo) {
		return domain.ErrInvalidArgument
	}
	if p.Votes == nil {
		p.Votes = make(map[string]VoteChoice)
	}
	prev, voted := p.Votes[userID]
	switch {
	case !voted:
		p.addTally(choice, 1)
		p.Votes[userID] = choice
	case prev == choice:
		p.addTally(choice, -1)
		delete(p.Votes, userID)
	default:
		p.addTally(prev, -1)
		p.addTally(choice, 1)
		p.Votes[userID] = choice
	}
	return nil
}

func (p *Poll) addTally(choice VoteChoice, delta int) {
	if choice == VoteYes {
		p.YesVotes += delta
	} else {
		p.NoVotes += delta
	}
}

// TotalVotes is the displayed denominator for the percentage bars.
func (p *Poll) TotalVotes() int { return p.YesVotes + p.NoVotes }

// Comment is an immutable child of a poll.
type Comment struct {
	ID         string    `json:"id"`
	PollID     string    `json:"poll_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewComment(id, pollID, authorName, text string) (*Comment, error) {
	if id == "" || pollID == "" || authorName == "" || text == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Comment{
		ID:         id,
		PollID:     pollID,
		AuthorName: authorName,
		Text:       text,
		CreatedAt:  time.Now(),
	}, nil
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// ValidUsername enforces the display name format required before a user may
// create, vote, or comment.
func ValidUsername(name string) bool { return usernamePattern.MatchString(name) }
