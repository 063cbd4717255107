package agent

import (
	"fmt"

	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
)

type LeadState string

const (
	StateNew        LeadState = "NEW"
	StateEngaged    LeadState = "ENGAGED"
	StateQualifying LeadState = "QUALIFYING"
	StateCaptured   LeadState = "CAPTURED"
	StatePaused     LeadState = "PAUSED"
)

// Fixed transition table. PAUSED is reachable from any non-terminal
// state and resumes only back to ENGAGED.
var transitions = map[LeadState][]LeadState{
	StateNew:        {StateEngaged, StatePaused},
	StateEngaged:    {StateQualifying, StatePaused},
	StateQualifying: {StateCaptured, StatePaused},
	StateCaptured:   {StatePaused},
	StatePaused:     {StateEngaged},
}

type Qualification struct {
	Name           string `json:"name,omitempty"`
	Contact        string `json:"contact,omitempty"`
	Timeline       string `json:"timeline,omitempty"`
	Area           string `json:"area,omitempty"`
	Budget         string `json:"budget,omitempty"`
	SellingContext string `json:"selling_context,omitempty"`
}

// ConversationState tracks lead-qualification progress for one
// orchestrator run. Each run starts fresh at NEW; see DESIGN.md for the
// persistence decision.
type ConversationState struct {
	state         LeadState
	qualification Qualification
}

func NewConversationState() *ConversationState {
	return &ConversationState{state: StateNew}
}

func (s *ConversationState) State() LeadState {
	return s.state
}

func (s *ConversationState) Qualification() Qualification {
	return s.qualification
}

func (s *ConversationState) Transition(next LeadState) error {
	for _, allowed := range transitions[s.state] {
		if allowed == next {
			s.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, s.state, next)
}

func (s *ConversationState) UpdateQualification(update Qualification) {
	if update.Name != "" {
		s.qualification.Name = update.Name
	}
	if update.Contact != "" {
		s.qualification.Contact = update.Contact
	}
	if update.Timeline != "" {
		s.qualification.Timeline = update.Timeline
	}
	if update.Area != "" {
		s.qualification.Area = update.Area
	}
	if update.Budget != "" {
		s.qualification.Budget = update.Budget
	}
	if update.SellingContext != "" {
		s.qualification.SellingContext = update.SellingContext
	}
}

// CanCapture gates CAPTURED on name, contact and timeline all being
// known, so partial information never closes a lead.
func (s *ConversationState) CanCapture() bool {
	q := s.qualification
	return q.Name != "" && q.Contact != "" && q.Timeline != ""
}
