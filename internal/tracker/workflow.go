package tracker

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"questlog/internal/game"
)

var (
	// ErrNoWorkflow is returned when a decision arrives with no
	// confirmation in flight. This is caller misuse, not bad data.
	ErrNoWorkflow = errors.New("no confirmation workflow active")
	// ErrWorkflowActive is returned when a note is submitted while a
	// previous confirmation is still awaiting decisions.
	ErrWorkflowActive = errors.New("confirmation workflow already active")
	// ErrEmptyNote is returned for blank note text.
	ErrEmptyNote = errors.New("note text must not be empty")
)

type State int

const (
	Idle State = iota
	AwaitingDecisions
)

// PendingUpdate is a transient candidate awaiting a user decision. It is
// never persisted; it dies with the workflow.
type PendingUpdate struct {
	Milestone  game.Milestone `json:"milestone"`
	NoteText   string         `json:"note_text"`
	MatchScore int            `json:"match_score"`
	Confidence int            `json:"confidence"`
}

// Result reports the collections after a workflow step. NoteCommitted is
// true exactly when the note has been appended; Milestones always reflects
// the current working set, including agreements applied before a cancel.
// Updated lists only the milestones this workflow mutated — persistence
// must write those and nothing else, so rows deleted while the
// confirmation was open stay deleted.
type Result struct {
	State         State            `json:"state"`
	NoteCommitted bool             `json:"note_committed"`
	Note          game.Note        `json:"note"`
	Pending       []PendingUpdate  `json:"pending"`
	Milestones    []game.Milestone `json:"milestones"`
	Updated       []game.Milestone `json:"updated,omitempty"`
	Notes         []game.Note      `json:"notes"`
	Progress      float64          `json:"progress"`
	Info          string           `json:"info,omitempty"`
}

// Workflow sequences the accept/reject decisions for a newly submitted
// note before anything is committed. It operates on working copies of one
// game's collections; the caller persists the result of terminal steps.
type Workflow struct {
	matcher    *Matcher
	state      State
	note       game.Note
	pending    []PendingUpdate
	milestones []game.Milestone
	notes      []game.Note
	updatedIDs []string
	now        func() time.Time
}

func NewWorkflow(matcher *Matcher, milestones []game.Milestone, notes []game.Note) *Workflow {
	if matcher == nil {
		matcher = NewMatcher()
	}
	w := &Workflow{
		matcher:    matcher,
		state:      Idle,
		milestones: make([]game.Milestone, len(milestones)),
		notes:      make([]game.Note, len(notes)),
		now:        time.Now,
	}
	copy(w.milestones, milestones)
	copy(w.notes, notes)
	return w
}

func (w *Workflow) State() State { return w.state }

func (w *Workflow) Pending() []PendingUpdate {
	out := make([]PendingUpdate, len(w.pending))
	copy(out, w.pending)
	return out
}

// SubmitNote runs the matcher against incomplete milestones and either
// commits the note straight away (no candidates, or only the placeholder
// sentinel) or opens the decision phase.
func (w *Workflow) SubmitNote(text string, hoursPlayed, minutesPlayed float64) (Result, error) {
	if w.state != Idle {
		return Result{}, ErrWorkflowActive
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrEmptyNote
	}
	if hoursPlayed < 0 {
		hoursPlayed = 0
	}
	if minutesPlayed < 0 {
		minutesPlayed = 0
	}
	w.updatedIDs = nil

	w.note = game.Note{
		ID:            uuid.New().String(),
		Text:          text,
		Date:          w.now(),
		HoursPlayed:   hoursPlayed,
		MinutesPlayed: minutesPlayed,
	}

	incomplete := make([]game.Milestone, 0, len(w.milestones))
	for _, m := range w.milestones {
		if !m.Completed {
			incomplete = append(incomplete, m)
		}
	}

	candidates := w.matcher.Match(text, incomplete)
	if len(candidates) == 0 {
		return w.commit(""), nil
	}
	if len(candidates) == 1 && candidates[0].Milestone.IsPlaceholder() {
		return w.commit("no milestones to match yet; note saved"), nil
	}

	w.pending = make([]PendingUpdate, 0, len(candidates))
	for _, c := range candidates {
		w.pending = append(w.pending, PendingUpdate{
			Milestone:  c.Milestone,
			NoteText:   text,
			MatchScore: c.MatchScore,
			Confidence: c.Confidence,
		})
	}
	w.state = AwaitingDecisions
	return Result{
		State:      w.state,
		Note:       w.note,
		Pending:    w.Pending(),
		Milestones: w.milestonesCopy(),
		Notes:      w.notesCopy(),
		Progress:   Progress(w.milestones),
	}, nil
}

// Decide applies a single agree/disagree for one pending candidate. A
// decision for a milestone that has vanished from the pending list is a
// no-op. The note commits once the pending list empties.
func (w *Workflow) Decide(milestoneID string, agree bool) (Result, error) {
	if w.state != AwaitingDecisions {
		return Result{}, ErrNoWorkflow
	}
	idx := -1
	for i, p := range w.pending {
		if p.Milestone.ID == milestoneID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		if agree {
			w.applyAgree(w.pending[idx])
		}
		w.pending = append(w.pending[:idx], w.pending[idx+1:]...)
	}
	if len(w.pending) == 0 {
		return w.commit(""), nil
	}
	return Result{
		State:      w.state,
		Note:       w.note,
		Pending:    w.Pending(),
		Milestones: w.milestonesCopy(),
		Notes:      w.notesCopy(),
		Progress:   Progress(w.milestones),
	}, nil
}

// DecideAll applies agree or disagree to every remaining candidate and
// commits the note.
func (w *Workflow) DecideAll(agree bool) (Result, error) {
	if w.state != AwaitingDecisions {
		return Result{}, ErrNoWorkflow
	}
	if agree {
		for _, p := range w.pending {
			w.applyAgree(p)
		}
	}
	w.pending = nil
	return w.commit(""), nil
}

// Skip abandons the remaining candidates without completing them but still
// commits the note. Agreements already applied stand.
func (w *Workflow) Skip() (Result, error) {
	if w.state != AwaitingDecisions {
		return Result{}, ErrNoWorkflow
	}
	w.pending = nil
	return w.commit("note saved without further milestone updates"), nil
}

// Cancel abandons the workflow without committing the note. Milestones
// already completed through Agree are intentionally NOT rolled back; Skip
// and Cancel differ only in whether the note itself is kept.
func (w *Workflow) Cancel() (Result, error) {
	if w.state != AwaitingDecisions {
		return Result{}, ErrNoWorkflow
	}
	w.pending = nil
	w.state = Idle
	w.note = game.Note{}
	return Result{
		State:      Idle,
		Milestones: w.milestonesCopy(),
		Updated:    w.updatedCopy(),
		Notes:      w.notesCopy(),
		Progress:   Progress(w.milestones),
		Info:       "note discarded",
	}, nil
}

// applyAgree marks the working-copy milestone complete. If it was deleted
// concurrently the agreement is silently dropped.
func (w *Workflow) applyAgree(p PendingUpdate) {
	for i := range w.milestones {
		if w.milestones[i].ID != p.Milestone.ID {
			continue
		}
		now := w.now()
		w.milestones[i].Completed = true
		w.milestones[i].CompletedDate = &now
		w.milestones[i].TriggeredByNoteID = w.note.ID
		w.milestones[i].TriggeredByNote = p.NoteText
		w.recordUpdated(w.milestones[i].ID)
		return
	}
}

func (w *Workflow) recordUpdated(id string) {
	for _, u := range w.updatedIDs {
		if u == id {
			return
		}
	}
	w.updatedIDs = append(w.updatedIDs, id)
}

func (w *Workflow) commit(info string) Result {
	w.notes = append(w.notes, w.note)
	committed := w.note
	w.state = Idle
	w.pending = nil
	w.note = game.Note{}
	return Result{
		State:         Idle,
		NoteCommitted: true,
		Note:          committed,
		Milestones:    w.milestonesCopy(),
		Updated:       w.updatedCopy(),
		Notes:         w.notesCopy(),
		Progress:      Progress(w.milestones),
		Info:          info,
	}
}

// updatedCopy resolves the recorded ids against the working set, in the
// order the agreements were applied.
func (w *Workflow) updatedCopy() []game.Milestone {
	out := make([]game.Milestone, 0, len(w.updatedIDs))
	for _, id := range w.updatedIDs {
		for i := range w.milestones {
			if w.milestones[i].ID == id {
				out = append(out, w.milestones[i])
				break
			}
		}
	}
	return out
}

func (w *Workflow) milestonesCopy() []game.Milestone {
	out := make([]game.Milestone, len(w.milestones))
	copy(out, w.milestones)
	return out
}

func (w *Workflow) notesCopy() []game.Note {
	out := make([]game.Note, len(w.notes))
	copy(out, w.notes)
	return out
}
