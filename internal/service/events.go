package service

import (
	"context"
	"fmt"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/internal/biz/usecase"
)

// Emitter forwards one event across the runtime boundary.
type Emitter func(event string, payload interface{}) error

// EventService connects the dispatcher to the runtime boundary: every
// dispatched event is forwarded to the JS host, and received messages are
// additionally saved into the active message store.
type EventService struct {
	storage *usecase.StorageUsecase
	emit    Emitter
}

// NewEventService creates the service and subscribes it to the dispatcher.
func NewEventService(dispatcher *usecase.Dispatcher, storage *usecase.StorageUsecase, emit Emitter) *EventService {
	s := &EventService{storage: storage, emit: emit}
	dispatcher.Subscribe(s.forward)
	return s
}

func (s *EventService) forward(event string, payload interface{}) {
	if event == domain.EventMessageReceived {
		if record, ok := payload.(*domain.MessageRecord); ok {
			s.storage.StoreMessages(context.Background(), []*domain.MessageRecord{record})
		}
	}

	if err := s.emit(event, payload); err != nil {
		fmt.Printf("[Events] Failed to forward %s: %v\n", event, err)
	}
}
