package contract

import (
	"context"
	"reflect"

	"daneth-messenger/domain/event"
)

// EventSink is the write side of one live client connection.
// Consume must never block on a slow client: implementations buffer and
// drop on saturation rather than stall the calling handler.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// IRegistry tracks which identities currently hold a live sink.
type IRegistry interface {
	Register(identityID string, sink EventSink)
	Unregister(identityID string, sink EventSink)
	Lookup(identityID string) (EventSink, bool)
	Others(excludeID string) []EventSink
	Len() int
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// used for logging and supervision instead of manual naming.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
