package worker

import (
	"context"

	"bus-booking-backend/internal/queue"
	"bus-booking-backend/internal/service"
	"bus-booking-backend/pkg/logger"

	"go.uber.org/zap"
)

type PaymentWorker interface {
	// 訂閱金流事件隊列
	Start(ctx context.Context) error
}

type PaymentWorkerImpl struct {
	service service.BookingService
	queue   queue.PaymentQueue
}

func NewPaymentWorker(service service.BookingService, queue queue.PaymentQueue) PaymentWorker {
	return &PaymentWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *PaymentWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribePaymentEvents(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			err := w.service.ApplyPaymentResult(ctx, msg.Data)

			if err != nil {
				// 資料庫暫時連不上之類的錯誤就重試；毒訊息由隊列端的重試上限淘汰
				logger.WithComponent("payment_worker").Warn("apply payment result failed",
					zap.String("booking_ref", msg.Data.BookingRef), zap.Error(err))
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
