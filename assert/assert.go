package assert

import (
	"fmt"
	"strings"
)

// Sentinel is appended to the message of every user error.
// It consists of three zero width spaces.
const Sentinel = "\u200B\u200B\u200B"

const placeholder = "%s"

// Element is implemented by DOM elements, which are rendered as tag#id
// in assertion messages. Values with an empty tag name are plain values.
type Element interface {
	TagName() string
	ID() string
}

// Error is a user error.
type Error struct {
	Message           string  // message, including the sentinel
	FromAssert        bool    // created by a failed assertion
	AssociatedElement Element // last element among the assertion's arguments
	MessageArray      []any   // constant message parts interleaved with raw arguments
}

func (e *Error) Error() string {
	return e.Message
}

// UserError returns an error which will be treated as caused by a document.
func UserError(message string) *Error {
	return &Error{Message: message + Sentinel}
}

// IsAssertErrorMessage returns true if message has been created by UserError.
func IsAssertErrorMessage(message string) bool {
	return strings.Contains(message, Sentinel)
}

// Assert panics with an *Error if ok is false. Every %s in message is
// replaced by the next argument. An empty message defaults to
// "Assertion failed".
func Assert(ok bool, message string, args ...any) {
	if err := Check(ok, message, args...); err != nil {
		panic(err)
	}
}

// Check is like Assert, but returns the error instead of panicking.
// It returns nil if ok is true.
func Check(ok bool, message string, args ...any) error {
	if ok {
		return nil
	}
	if message == "" {
		message = "Assertion failed"
	}
	parts := strings.Split(message, placeholder)
	first := parts[0]
	parts = parts[1:]
	var b strings.Builder
	b.WriteString(first)
	var messageArray []any
	messageArray = pushIfNonEmpty(messageArray, first)
	var element Element
	for _, arg := range args {
		if el, ok := asElement(arg); ok {
			element = el
		}
		next := ""
		if len(parts) > 0 {
			next, parts = parts[0], parts[1:]
		}
		messageArray = append(messageArray, arg)
		messageArray = pushIfNonEmpty(messageArray, strings.TrimSpace(next))
		b.WriteString(toString(arg))
		b.WriteString(next)
	}
	err := UserError(b.String())
	err.FromAssert = true
	err.AssociatedElement = element
	err.MessageArray = messageArray
	tracer().Debugf("assertion failed: %s", err.Message)
	return err
}

// AssertEnumValue returns v if it is one of the values of enum. Otherwise it
// returns an error naming the enum (or "enum", if enumName is empty).
func AssertEnumValue[T comparable](enum map[string]T, v T, enumName string) (T, error) {
	for _, val := range enum {
		if val == v {
			return val, nil
		}
	}
	if enumName == "" {
		enumName = "enum"
	}
	var zero T
	return zero, fmt.Errorf("Unknown %s value: \"%v\"", enumName, v)
}

// asElement accepts only values with a tag name. Nil nodes and text nodes
// are plain values.
func asElement(v any) (Element, bool) {
	el, ok := v.(Element)
	if !ok || el.TagName() == "" {
		return nil, false
	}
	return el, true
}

func toString(v any) string {
	if el, ok := asElement(v); ok {
		s := strings.ToLower(el.TagName())
		if id := el.ID(); id != "" {
			s += "#" + id
		}
		return s
	}
	return fmt.Sprint(v)
}

func pushIfNonEmpty(array []any, s string) []any {
	if s != "" {
		array = append(array, s)
	}
	return array
}
