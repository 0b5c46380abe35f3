package session

// RenameState is the state of an in-place rename edit.
type RenameState int

const (
	RenameIdle RenameState = iota
	RenameEditing
)

func (s RenameState) String() string {
	if s == RenameEditing {
		return "editing"
	}
	return "idle"
}

// Rename coordinates one in-place rename edit: Idle -> Editing -> Idle.
// Committing goes through Session so the listing is refreshed afterwards.
type Rename struct {
	state  RenameState
	target string
	text   string
}

// Begin starts editing target, seeding the text with its current name.
func (r *Rename) Begin(target, currentName string) error {
	if r.state == RenameEditing {
		return ErrRenameInProgress
	}
	r.state = RenameEditing
	r.target = target
	r.text = currentName
	return nil
}

// SetText replaces the edited text.
func (r *Rename) SetText(text string) error {
	if r.state != RenameEditing {
		return ErrNotEditing
	}
	r.text = text
	return nil
}

// Cancel abandons the edit without touching the filesystem.
func (r *Rename) Cancel() {
	r.finish()
}

func (r *Rename) State() RenameState { return r.state }
func (r *Rename) Active() bool       { return r.state == RenameEditing }
func (r *Rename) Target() string     { return r.target }
func (r *Rename) Text() string       { return r.text }

func (r *Rename) finish() {
	r.state = RenameIdle
	r.target = ""
	r.text = ""
}
