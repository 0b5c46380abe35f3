package session

import (
	"github.com/LFroesch/fex/internal/fileops"
)

// OpKind identifies a mutating operation.
type OpKind int

const (
	OpCreateFile OpKind = iota
	OpCreateDir
	OpDelete
	OpPaste
	OpRename
)

func (k OpKind) String() string {
	switch k {
	case OpCreateFile:
		return "create file"
	case OpCreateDir:
		return "create folder"
	case OpDelete:
		return "delete"
	case OpPaste:
		return "paste"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Op is a mutation whose inputs were captured from the session. Run only
// touches the filesystem, so it may execute off the session's goroutine;
// its Outcome must be handed back to Session.Apply.
type Op struct {
	Kind   OpKind
	Target string // Directory for creates, entry for delete/rename, source for paste
	run    func() Outcome
}

// Run performs the filesystem call.
func (o Op) Run() Outcome {
	out := o.run()
	out.Kind = o.Kind
	out.Target = o.Target
	return out
}

// Outcome is the result of running an Op.
type Outcome struct {
	Kind   OpKind
	Target string
	Path   string               // Created, pasted or renamed-to path
	Rename fileops.RenameResult // Set for OpRename
	Err    error
}
