package lib

import (
	"errors"
	"fmt"
)

// Kind. kategori error: configuration, io, atau logic (pelanggaran kontrak caller).
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindIO
	KindLogic
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration"
	case KindIO:
		return "io"
	case KindLogic:
		return "logic"
	default:
		return "unknown"
	}
}

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrArityMismatch  = errors.New("row arity does not match column count")
	ErrNoMoreRows     = errors.New("no more rows")
	ErrUnwritable     = errors.New("destination is not writable")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInvalidPageID  = errors.New("invalid page id")
)

// Error . error dengan kind dan nama operasi yang gagal.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": <nil>"
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func ConfigError(op string, err error) error {
	return NewError(KindConfig, op, err)
}

func IOError(op string, err error) error {
	return NewError(KindIO, op, err)
}

func LogicError(op string, err error) error {
	return NewError(KindLogic, op, err)
}

// KindOf. return kind dari error pertama bertipe *Error di chain err.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsConfig(err error) bool { return KindOf(err) == KindConfig }

func IsIO(err error) bool { return KindOf(err) == KindIO }

func IsLogic(err error) bool { return KindOf(err) == KindLogic }
