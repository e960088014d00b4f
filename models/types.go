package models

import "time"

// Horizon and scale limits
const (
	WeekCount = 52
	MinRank   = 1
	MaxRank   = 5
	MinStep   = 1
	MaxStep   = 4
)

// Window limits and defaults
const (
	MinWindowDays         = 6
	MaxWindowDays         = 9
	DefaultWindowStartDay = int(time.Saturday)
	DefaultWindowDays     = 7
)

// Rank returns a pointer to n, for building selections inline.
func Rank(n int) *int {
	return &n
}

// Domain types

type WindowConfig struct {
	StartDay int `json:"start_day"` // time.Weekday, Sunday = 0
	Days     int `json:"days"`
}

type Trip struct {
	ID        string       `json:"id"`
	ShareCode string       `json:"share_code"`
	Name      string       `json:"name"`
	Year      int          `json:"year"`
	Window    WindowConfig `json:"window"`
	Timezone  string       `json:"timezone,omitempty"`
	Locked    bool         `json:"locked"`
	CreatedAt time.Time    `json:"created_at"`
}

type Participant struct {
	ID             string     `json:"id" db:"id"`
	TripID         string     `json:"trip_id" db:"trip_id"`
	Name           string     `json:"name" db:"name"`
	SubmittedAt    *time.Time `json:"submitted_at" db:"submitted_at"`
	LastActiveStep int        `json:"last_active_step" db:"last_active_step"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Selection is one participant's mark for one week.
type Selection struct {
	WeekNumber int    `json:"week_number"`
	Status     Status `json:"status"`
	Rank       *int   `json:"rank"`
}

// SelectionRow is a stored selection tagged with its owner.
type SelectionRow struct {
	ParticipantID string `json:"participant_id" db:"participant_id"`
	WeekNumber    int    `json:"week_number" db:"week_number"`
	Status        Status `json:"status" db:"status"`
	Rank          *int   `json:"rank" db:"week_rank"`
}

type WeekDescriptor struct {
	WeekNumber       int       `json:"week_number"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	WindowLengthDays int       `json:"window_length_days"`
	Label            string    `json:"label"`
	RangeText        string    `json:"range_text"`
}

type PersonMark struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Rank   *int   `json:"rank"`
}

// WeekAggregate is derived on demand and never stored.
type WeekAggregate struct {
	WeekNumber     int          `json:"week_number"`
	AvailableCount int          `json:"available_count"`
	MaybeCount     int          `json:"maybe_count"`
	Score          int          `json:"score"`
	AvgRank        *float64     `json:"avg_rank"`
	People         []PersonMark `json:"people"`
}

type GroupData struct {
	Participants []Participant  `json:"participants"`
	Selections   []SelectionRow `json:"selections"`
}

// Request types

type CreateTripRequest struct {
	Name      string       `json:"name"`
	ShareCode string       `json:"share_code,omitempty"`
	Year      int          `json:"year"`
	Window    WindowConfig `json:"window"`
	Timezone  string       `json:"timezone,omitempty"`
}

type JoinRequest struct {
	ShareCode      string `json:"share_code"`
	Name           string `json:"name"`
	Year           int    `json:"year"`
	WindowStartDay int    `json:"window_start_day"`
	WindowDays     int    `json:"window_days"`
}

type UpsertSelectionsRequest struct {
	Selections []Selection `json:"selections"`
}

type UpdateProgressRequest struct {
	Step int `json:"step"`
}

// Response types

type CreateTripResponse struct {
	Trip     Trip   `json:"trip"`
	AdminKey string `json:"admin_key"`
}

type JoinResponse struct {
	Trip        Trip        `json:"trip"`
	Participant Participant `json:"participant"`
	Selections  []Selection `json:"selections"`
	Created     bool        `json:"created"`
}

type LeaderboardResponse struct {
	TripID           string          `json:"trip_id"`
	ParticipantCount int             `json:"participant_count"`
	SubmittedCount   int             `json:"submitted_count"`
	TopPick          *WeekAggregate  `json:"top_pick"`
	Weeks            []WeekAggregate `json:"weeks"`
	Message          string          `json:"message,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type SelectionsResponse struct {
	ParticipantID string      `json:"participant_id"`
	Selections    []Selection `json:"selections"`
}

type SubmitResponse struct {
	ParticipantID string    `json:"participant_id"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type LockResponse struct {
	TripID string `json:"trip_id"`
	Locked bool   `json:"locked"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
