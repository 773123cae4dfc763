package dispatcher

import (
	"log/slog"
	"reflect"
)

func slogRequest(t reflect.Type) slog.Attr { return slog.String("request", t.String()) }

func slogNotification(t reflect.Type) slog.Attr { return slog.String("notification", t.String()) }

func slogHandler(h any) slog.Attr { return slog.String("handler", implName(h)) }

func slogDispatchID(id string) slog.Attr { return slog.String("dispatch_id", id) }
