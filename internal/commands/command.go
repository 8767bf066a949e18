package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/taskflow/internal/model"
)

type Type string

const (
	TypeAdd       Type = "add"
	TypeDone      Type = "done"
	TypeSub       Type = "sub"
	TypeProgress  Type = "progress"
	TypeDelete    Type = "delete"
	TypeBreakdown Type = "breakdown"
	TypePlan      Type = "plan"
	TypeFocus     Type = "focus"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Target addresses a task by 1-based list position. Zero means the current selection.
type Target struct {
	Index int
}

func (t Target) Selected() bool {
	return t.Index == 0
}

type AddArgs struct {
	Title    string
	Priority model.Priority
	Category string
	DueDate  *time.Time
}

type SubArgs struct {
	Target Target
	Text   string
}

type ProgressArgs struct {
	Target Target
	Value  int
}

type FocusAction string

const (
	FocusStart FocusAction = "start"
	FocusPause FocusAction = "pause"
	FocusReset FocusAction = "reset"
	FocusNext  FocusAction = "next"
)

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Target   Target
	Sub      *SubArgs
	Progress *ProgressArgs
	Focus    FocusAction
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeDelete, TypeBreakdown:
		target, err := parseOptionalTarget(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: Type(head), Raw: input, Target: target}, nil
	case TypeSub:
		return parseSub(input, args)
	case TypeProgress:
		return parseProgress(input, args)
	case TypePlan:
		return Command{Type: TypePlan, Raw: input}, nil
	case TypeFocus:
		return parseFocus(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads the title plus optional !priority, #category and due:YYYY-MM-DD tokens.
func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(arg, "!") && len(arg) > 1:
			p, err := model.ParsePriority(lower[1:])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown priority %q", arg[1:])}
			}
			out.Priority = p
		case strings.HasPrefix(arg, "#") && len(arg) > 1:
			out.Category = lower[1:]
		case strings.HasPrefix(lower, "due:"):
			d, err := time.Parse("2006-01-02", arg[len("due:"):])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "due date must be YYYY-MM-DD"}
			}
			out.DueDate = &d
		default:
			words = append(words, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	if out.Category == "" {
		out.Category = "personal"
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseSub(raw string, args []string) (Command, error) {
	target, rest := splitTarget(args)
	text := strings.TrimSpace(strings.Join(rest, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sub requires subtask text"}
	}
	return Command{Type: TypeSub, Raw: raw, Sub: &SubArgs{Target: target, Text: text}}, nil
}

func parseProgress(raw string, args []string) (Command, error) {
	target, rest := splitTarget(args)
	if len(rest) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "progress requires a value 0-100"}
	}
	v, err := strconv.Atoi(strings.TrimSuffix(rest[0], "%"))
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid progress %q", rest[0])}
	}
	return Command{Type: TypeProgress, Raw: raw, Progress: &ProgressArgs{Target: target, Value: v}}, nil
}

func parseFocus(raw string, args []string) (Command, error) {
	action := FocusStart
	if len(args) > 0 {
		action = FocusAction(strings.ToLower(args[0]))
	}
	switch action {
	case FocusStart, FocusPause, FocusReset, FocusNext:
		return Command{Type: TypeFocus, Raw: raw, Focus: action}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown focus action %q", args[0])}
	}
}

func parseOptionalTarget(head string, args []string) (Target, error) {
	if len(args) == 0 {
		return Target{}, nil
	}
	target, rest := splitTarget(args)
	if len(rest) > 0 || target.Selected() {
		return Target{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes an optional task number", head)}
	}
	return target, nil
}

// splitTarget consumes a leading positive task number when present.
func splitTarget(args []string) (Target, []string) {
	if len(args) == 0 {
		return Target{}, args
	}
	n, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || n <= 0 {
		return Target{}, args
	}
	return Target{Index: n}, args[1:]
}
