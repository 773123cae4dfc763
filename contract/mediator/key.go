package mediator

import (
	"fmt"
	"reflect"
)

// Shape is the unparameterized form of a contract.
type Shape uint8

const (
	ShapeUnknown Shape = iota
	ShapeService
	ShapeRequestHandler
	ShapeNotificationHandler
)

func (s Shape) String() string {
	switch s {
	case ShapeService:
		return "Service"
	case ShapeRequestHandler:
		return "RequestHandler"
	case ShapeNotificationHandler:
		return "NotificationHandler"
	default:
		return "Unknown"
	}
}

// Key identifies a parameterized contract, e.g. RequestHandler[Echo, string].
// Keys are comparable and used directly as map keys.
type Key struct {
	Shape    Shape
	Message  reflect.Type
	Response reflect.Type
}

// RequestKey is the key for handlers of request type msg producing resp.
func RequestKey(msg, resp reflect.Type) Key {
	return Key{Shape: ShapeRequestHandler, Message: msg, Response: resp}
}

// NotificationKey is the key for handlers of notification type msg.
func NotificationKey(msg reflect.Type) Key {
	return Key{Shape: ShapeNotificationHandler, Message: msg}
}

// ServiceKey is the key for a plain container service of type t.
func ServiceKey(t reflect.Type) Key {
	return Key{Shape: ShapeService, Message: t}
}

func (k Key) String() string {
	switch {
	case k.Message == nil:
		return k.Shape.String()
	case k.Response == nil:
		return fmt.Sprintf("%s[%s]", k.Shape, k.Message)
	default:
		return fmt.Sprintf("%s[%s, %s]", k.Shape, k.Message, k.Response)
	}
}
