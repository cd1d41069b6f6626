// Package apperr defines the error values shared by the ls, cp and mv
// commands. Every failure carries a Kind so callers can branch with
// errors.Is against the exported sentinels.
package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Kind classifies a failure.
type Kind int

const (
	// KindOperand covers missing or invalid operands.
	KindOperand Kind = iota + 1
	// KindNotFoundOrAccess covers open and stat failures.
	KindNotFoundOrAccess
	// KindIsADirectory is returned when a copy source is a directory.
	KindIsADirectory
	// KindIO covers read and write failures in the middle of a transfer.
	KindIO
	// KindSameFile is returned when a source and its target coincide.
	KindSameFile
	// KindUnsupportedOption is returned for flags that are not implemented.
	KindUnsupportedOption
)

// Sentinels usable with errors.Is.
var (
	ErrOperand           = errors.New("operand error")
	ErrNotFoundOrAccess  = errors.New("not found or not accessible")
	ErrIsADirectory      = errors.New("is a directory")
	ErrIO                = errors.New("i/o error")
	ErrSameFile          = errors.New("same file")
	ErrUnsupportedOption = errors.New("unsupported option")
)

var sentinels = map[Kind]error{
	KindOperand:           ErrOperand,
	KindNotFoundOrAccess:  ErrNotFoundOrAccess,
	KindIsADirectory:      ErrIsADirectory,
	KindIO:                ErrIO,
	KindSameFile:          ErrSameFile,
	KindUnsupportedOption: ErrUnsupportedOption,
}

func (k Kind) String() string {
	if s, ok := sentinels[k]; ok {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure. Msg names the operation and the paths
// involved; Err, when set, is the underlying system error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// New returns an Error with a formatted message and no underlying cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error that keeps err as its cause. A nil err yields nil.
func Wrap(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + Reason(e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// Reason strips the operation and path decoration that the os package adds,
// leaving the bare system message ("no such file or directory").
func Reason(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err.Error()
	}
	var se *os.SyscallError
	if errors.As(err, &se) {
		return se.Err.Error()
	}
	return err.Error()
}
