package queue

import (
	"context"

	"bus-booking-backend/internal/model"
)

type Delivery struct {
	Data *model.PaymentEvent
	Ack  func()
	Nack func(requeue bool)
}

type PaymentQueue interface {
	// 發送金流回呼事件到隊列
	PublishPaymentEvent(ctx context.Context, event *model.PaymentEvent) error
	// 訂閱金流事件隊列
	SubscribePaymentEvents(ctx context.Context) (<-chan Delivery, error)
}

type PaymentQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列，供測試與單機部署
	ch chan *model.PaymentEvent
}

func NewPaymentQueue(bufferSize int) PaymentQueue {
	return &PaymentQueueImpl{
		ch: make(chan *model.PaymentEvent, bufferSize),
	}
}

func (q *PaymentQueueImpl) PublishPaymentEvent(ctx context.Context, event *model.PaymentEvent) error {
	q.ch <- event
	return nil
}

func (q *PaymentQueueImpl) SubscribePaymentEvents(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: event,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- event // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
