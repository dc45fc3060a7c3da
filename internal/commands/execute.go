package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(TargetArgs) (Result, error)
	Delete func(TargetArgs) (Result, error)
	Reopen func(TargetArgs) (Result, error)
	View   func(ViewArgs) (Result, error)
	Goal   func(GoalArgs) (Result, error)
	Check  func(CheckArgs) (Result, error)
	Notify func(NotifyArgs) (Result, error)
	Rename func(RenameArgs) (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeDone, TypeDelete, TypeReopen:
		h := map[Type]func(TargetArgs) (Result, error){
			TypeDone:   handlers.Done,
			TypeDelete: handlers.Delete,
			TypeReopen: handlers.Reopen,
		}[cmd.Type]
		if h == nil {
			return Result{}, missing(string(cmd.Type))
		}
		return h(*cmd.Target)
	case TypeView:
		if handlers.View == nil {
			return Result{}, missing("view")
		}
		return handlers.View(*cmd.View)
	case TypeGoal:
		if handlers.Goal == nil {
			return Result{}, missing("goal")
		}
		return handlers.Goal(*cmd.Goal)
	case TypeCheck:
		if handlers.Check == nil {
			return Result{}, missing("check")
		}
		return handlers.Check(*cmd.Check)
	case TypeNotify:
		if handlers.Notify == nil {
			return Result{}, missing("notify")
		}
		return handlers.Notify(*cmd.Notify)
	case TypeRename:
		if handlers.Rename == nil {
			return Result{}, missing("rename")
		}
		return handlers.Rename(*cmd.Rename)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

// NotFound is returned by handlers when a target does not resolve.
func NotFound(what, name string) error {
	return &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no %s matches %q", what, name)}
}
