package models

import "time"

// Candidate status constants
const (
	CandidatePending  = "pending"
	CandidateApproved = "approved"
	CandidateRejected = "rejected"
)

// Session role constants
const (
	RoleAdmin     = "admin"
	RoleVoter     = "voter"
	RoleCandidate = "candidate"
)

// Request types

type UpdateElectionRequest struct {
	Name         string `json:"name" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
}

type SetPhaseRequest struct {
	Phase Phase `json:"phase" validate:"required"`
}

type AddPostRequest struct {
	Name  string `json:"name"`
	Seats int    `json:"seats"`
}

type ReviewCandidateRequest struct {
	Reason string `json:"reason"`
}

type NominationRequest struct {
	PostID     string `json:"post_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Year       string `json:"year" validate:"required"`
	Manifesto  string `json:"manifesto" validate:"required"`
}

// IdentifyRequest starts a login flow, or restarts the one named by FlowID
// after a step back.
type IdentifyRequest struct {
	FlowID     string `json:"flow_id,omitempty"`
	Identifier string `json:"identifier"`
}

type VerifyRequest struct {
	FlowID string `json:"flow_id" validate:"required"`
	Code   string `json:"code"`
}

type FlowRequest struct {
	FlowID string `json:"flow_id" validate:"required"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SelectCandidateRequest struct {
	PostID      string `json:"post_id" validate:"required"`
	CandidateID string `json:"candidate_id" validate:"required"`
}

// Response types

type FlowResponse struct {
	FlowID   string `json:"flow_id"`
	Step     string `json:"step"`
	ResendIn int    `json:"resend_in_seconds"`
}

type SessionResponse struct {
	SessionToken string `json:"session_token"`
	Role         string `json:"role"`
	Voter        *Voter `json:"voter,omitempty"`
	Next         string `json:"next"`
}

type AddPostResponse struct {
	Post Post `json:"post"`
}

type ImportVotersResponse struct {
	Imported []Voter `json:"imported"`
	Total    int     `json:"total"`
}

type NominationResponse struct {
	Candidate Candidate `json:"candidate"`
	Message   string    `json:"message"`
}

type PublishCandidatesResponse struct {
	PublishedAt time.Time `json:"published_at"`
	Message     string    `json:"message"`
}

type DashboardResponse struct {
	Election           ElectionSetup `json:"election"`
	TotalVoters        int           `json:"total_voters"`
	ApprovedCandidates int           `json:"approved_candidates"`
	PendingCandidates  int           `json:"pending_candidates"`
}

type LiveDashboardResponse struct {
	Election    ElectionSetup  `json:"election"`
	TotalVoters int            `json:"total_voters"`
	VotesCast   int            `json:"votes_cast"`
	TurnoutPct  int            `json:"turnout_percentage"`
	Turnout     map[string]int `json:"turnout_by_department"`
	UpdatedAt   time.Time      `json:"updated_at"`
	UpdatedAgo  string         `json:"updated_ago"`
}

type ReportResponse struct {
	Election       ElectionSetup `json:"election"`
	Results        Results       `json:"results"`
	TotalVotes     int           `json:"total_votes"`
	TotalVotesText string        `json:"total_votes_text"`
}

type BallotPost struct {
	Post       Post        `json:"post"`
	Candidates []Candidate `json:"candidates"`
	Selected   string      `json:"selected_candidate_id,omitempty"`
}

type BallotResponse struct {
	Voter Voter        `json:"voter"`
	Posts []BallotPost `json:"posts"`
}

type ReviewRow struct {
	Post      Post       `json:"post"`
	Candidate *Candidate `json:"candidate,omitempty"`
	Label     string     `json:"label"`
}

type ReviewResponse struct {
	Voter Voter       `json:"voter"`
	Rows  []ReviewRow `json:"rows"`
}

type ConfirmResponse struct {
	VoterID string `json:"voter_id"`
	Message string `json:"message"`
	Next    string `json:"next"`
}

type PublicCandidate struct {
	Candidate
	PostName string `json:"post_name"`
}

type PostWinner struct {
	Post   Post       `json:"post"`
	Winner *Candidate `json:"winner,omitempty"`
}

type PublicResultsResponse struct {
	Election            ElectionSetup  `json:"election"`
	Winners             []PostWinner   `json:"winners"`
	VotesByCandidate    map[string]int `json:"votes_by_candidate"`
	TurnoutByDepartment map[string]int `json:"turnout_by_department"`
	TotalVotes          int            `json:"total_votes"`
}

type ThemeResponse struct {
	Theme string `json:"theme"`
}

type PhaseResponse struct {
	Election ElectionSetup `json:"election"`
	From     Phase         `json:"from"`
}

type FinalizeVotersResponse struct {
	Finalized bool `json:"finalized"`
}

type ReviewLogResponse struct {
	Candidate Candidate         `json:"candidate"`
	Reviews   []CandidateReview `json:"reviews"`
}

// Domain types

// ElectionSetup is the election configuration. The three flags are derived
// from Phase and only exist for clients written against the old shape.
type ElectionSetup struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	AcademicYear           string `json:"academic_year"`
	Phase                  Phase  `json:"phase"`
	NominationPeriodActive bool   `json:"nomination_period_active"`
	ElectionActive         bool   `json:"election_active"`
	ResultsPublished       bool   `json:"results_published"`
}

// WithFlags fills the derived phase flags.
func (e ElectionSetup) WithFlags() ElectionSetup {
	e.NominationPeriodActive = e.Phase == PhaseNomination
	e.ElectionActive = e.Phase == PhaseVoting
	e.ResultsPublished = e.Phase == PhaseResultsPublished
	return e
}

type Post struct {
	ID    string `json:"id" toml:"id"`
	Name  string `json:"name" toml:"name"`
	Seats int    `json:"seats" toml:"seats"`
}

type Voter struct {
	ID         string `json:"id" toml:"id"`
	Name       string `json:"name" toml:"name"`
	Department string `json:"department" toml:"department"`
	Year       string `json:"year" toml:"year"`
	HasVoted   bool   `json:"has_voted" toml:"has_voted"`
}

type Candidate struct {
	ID         string `json:"id" toml:"id"`
	Name       string `json:"name" toml:"name"`
	PostID     string `json:"post_id" toml:"post_id"`
	Department string `json:"department" toml:"department"`
	Year       string `json:"year" toml:"year"`
	Status     string `json:"status" toml:"status"`
	Manifesto  string `json:"manifesto" toml:"manifesto"`
}

// CandidateReview is one approve/reject decision on a nomination.
type CandidateReview struct {
	CandidateID string    `json:"candidate_id"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason,omitempty"`
	Reviewer    string    `json:"reviewer"`
	ReviewedAt  time.Time `json:"reviewed_at"`
}

// Results holds the aggregated (mock) outcome, keyed by identifiers.
type Results struct {
	TurnoutByDepartment map[string]int    `json:"turnout_by_department" toml:"turnout_by_department"`
	WinnersByPost       map[string]string `json:"winners_by_post" toml:"winners_by_post"`
	VotesByCandidate    map[string]int    `json:"votes_by_candidate" toml:"votes_by_candidate"`
}

type Session struct {
	Token       string    `json:"-"`
	Role        string    `json:"role"`
	SubjectID   string    `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
