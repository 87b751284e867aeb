package service

import (
	"context"
	"errors"
	"sync"

	"stayhere_backend/pkg/docstore"
	"stayhere_backend/pkg/events"
)

var errUnreachable = errors.New("backend unreachable")

// unreachableStore fails every call, like a document store that is down.
type unreachableStore struct{}

func (unreachableStore) List(context.Context, string, docstore.Query) ([]docstore.Document, error) {
	return nil, errUnreachable
}

func (unreachableStore) Get(context.Context, string, string) (docstore.Document, error) {
	return docstore.Document{}, errUnreachable
}

func (unreachableStore) Insert(context.Context, string, map[string]interface{}) (string, error) {
	return "", errUnreachable
}

func (unreachableStore) Set(context.Context, string, string, map[string]interface{}) error {
	return errUnreachable
}

func (unreachableStore) Update(context.Context, string, string, map[string]interface{}) error {
	return errUnreachable
}

func (unreachableStore) Delete(context.Context, string, string) error {
	return errUnreachable
}

func (unreachableStore) Close() error { return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingStatusChanged
	err    error
}

func (p *recordingPublisher) PublishBookingStatusChanged(_ context.Context, ev events.BookingStatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) published() []events.BookingStatusChanged {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.BookingStatusChanged(nil), p.events...)
}
