package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add       func(AddArgs) (Result, error)
	Done      func(Target) (Result, error)
	Sub       func(SubArgs) (Result, error)
	Progress  func(ProgressArgs) (Result, error)
	Delete    func(Target) (Result, error)
	Breakdown func(Target) (Result, error)
	Plan      func() (Result, error)
	Focus     func(FocusAction) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	missing := func(name string) (Result, error) {
		return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
	}
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return missing("done")
		}
		return handlers.Done(cmd.Target)
	case TypeSub:
		if handlers.Sub == nil {
			return missing("sub")
		}
		return handlers.Sub(*cmd.Sub)
	case TypeProgress:
		if handlers.Progress == nil {
			return missing("progress")
		}
		return handlers.Progress(*cmd.Progress)
	case TypeDelete:
		if handlers.Delete == nil {
			return missing("delete")
		}
		return handlers.Delete(cmd.Target)
	case TypeBreakdown:
		if handlers.Breakdown == nil {
			return missing("breakdown")
		}
		return handlers.Breakdown(cmd.Target)
	case TypePlan:
		if handlers.Plan == nil {
			return missing("plan")
		}
		return handlers.Plan()
	case TypeFocus:
		if handlers.Focus == nil {
			return missing("focus")
		}
		return handlers.Focus(cmd.Focus)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
