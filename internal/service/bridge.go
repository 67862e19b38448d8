package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyencaoquydieu/TelegramClient/internal/config"
	"github.com/nguyencaoquydieu/TelegramClient/internal/constants"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/telegram"
	"go.uber.org/zap"
)

const reportPublishTimeout = 5 * time.Second

// ReportPublisher receives the delivery report of every completed
// operation. Publish failures must not affect the bridge result.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report DeliveryReport) error
}

// BridgeService runs one send-and-wait operation per call: validate, gate,
// resolve, clear, send, poll for the reply, collect.
type BridgeService interface {
	SendAndWait(ctx context.Context, cmd SendCommand) (SendResult, error)
}

type bridge struct {
	registry   SessionRegistry
	correlator *Correlator
	gate       *Gate
	reports    ReportPublisher
	logger     *zap.Logger
	cfg        config.Telegram
}

func NewBridgeService(registry SessionRegistry, correlator *Correlator, gate *Gate,
	reports ReportPublisher, logger *zap.Logger, cfg *config.Config) BridgeService {
	return &bridge{
		registry:   registry,
		correlator: correlator,
		gate:       gate,
		reports:    reports,
		logger:     logger,
		cfg:        cfg.Telegram,
	}
}

type operationOutcome struct {
	result SendResult
	err    error
}

func (b *bridge) SendAndWait(ctx context.Context, cmd SendCommand) (SendResult, error) {
	if cmd.Destination == "" || cmd.Message == "" || cmd.Phone == "" {
		return SendResult{}, NewServiceError(constants.ErrCodeMissingParameters,
			errors.New("destination, message and phone are required"))
	}

	session, err := b.registry.Lookup(cmd.Phone)
	if err != nil {
		return SendResult{}, NewServiceError(constants.ErrCodePhoneNotFound, err)
	}

	if !b.gate.TryAcquire(cmd.Phone) {
		b.logger.Warn("Account busy, rejecting request",
			zap.String("phone", cmd.Phone),
			zap.String("destination", cmd.Destination))
		return SendResult{}, NewServiceError(constants.ErrCodeAccountBusy,
			fmt.Errorf("a send is already in flight for %s", cmd.Phone))
	}

	// The operation runs detached so an abandoning caller cannot strand the
	// gate: release and report publishing belong to the operation itself.
	results := make(chan operationOutcome, 1)
	go b.run(session, cmd, results)

	timer := time.NewTimer(b.cfg.RequestTimeout)
	defer timer.Stop()

	select {
	case out := <-results:
		return out.result, out.err
	case <-timer.C:
		b.logger.Error("Abandoning request after outer timeout, operation continues",
			zap.String("phone", cmd.Phone),
			zap.Duration("requestTimeout", b.cfg.RequestTimeout))
		return SendResult{}, NewServiceError(constants.ErrCodeRequestTimeout,
			errors.New("the telegram operation took too long"))
	case <-ctx.Done():
		b.logger.Warn("Caller gone before operation finished",
			zap.String("phone", cmd.Phone),
			zap.Error(ctx.Err()))
		return SendResult{}, NewServiceError(constants.ErrCodeRequestTimeout, ctx.Err())
	}
}

func (b *bridge) run(session telegram.Session, cmd SendCommand, results chan<- operationOutcome) {
	defer b.gate.Release(cmd.Phone)

	result, err := b.sendAndCollect(session, cmd)
	b.publishReport(cmd, result, err)

	results <- operationOutcome{result: result, err: err}
}

func (b *bridge) sendAndCollect(session telegram.Session, cmd SendCommand) (SendResult, error) {
	// Deliberately not the caller's context: an abandoned operation runs to
	// completion on its own ceiling and its result is discarded.
	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.RequestTimeout)
	defer cancel()

	recipient, err := session.Resolve(ctx, cmd.Destination)
	if err != nil {
		if errors.Is(err, telegram.ErrDestinationNotFound) {
			b.logger.Warn("Could not resolve destination",
				zap.String("destination", cmd.Destination),
				zap.String("phone", cmd.Phone))
			return SendResult{
				Success:   false,
				Error:     constants.ErrMsgDestinationNotFound,
				Message:   fmt.Sprintf("Could not resolve Telegram entity for %s", cmd.Destination),
				Phone:     cmd.Phone,
				Timestamp: time.Now(),
			}, nil
		}

		return SendResult{}, NewServiceError(constants.ErrCodeInternalError, err)
	}

	b.logger.Info("Resolved destination",
		zap.String("destination", cmd.Destination),
		zap.Int64("recipient", recipient.UserID))

	b.correlator.Clear(cmd.Phone)

	if err := session.Send(ctx, recipient, cmd.Message); err != nil {
		return SendResult{}, NewServiceError(constants.ErrCodeSendFailed, err)
	}

	sentAt := time.Now()
	b.logger.Info("Message sent",
		zap.String("destination", cmd.Destination),
		zap.String("phone", cmd.Phone))

	reply, ok := b.waitForReply(ctx, cmd.Phone, recipient)

	result := SendResult{
		Success:   true,
		Message:   fmt.Sprintf("Message sent to %s", cmd.Destination),
		Phone:     cmd.Phone,
		Timestamp: time.Now(),
	}

	if ok {
		text := reply.Text
		result.Response = &text
		result.ResponseTime = reply.ReceivedAt.Sub(sentAt).Seconds()
		b.logger.Info("Received response",
			zap.String("phone", cmd.Phone),
			zap.Float64("responseTime", result.ResponseTime))
	} else {
		result.ResponseTime = time.Since(sentAt).Seconds()
		b.logger.Warn("No response received within timeout",
			zap.String("phone", cmd.Phone),
			zap.Duration("responseTimeout", b.cfg.ResponseTimeout))
	}

	return result, nil
}

// waitForReply polls the correlator until a matching reply appears or the
// response window closes. The window closing triggers one final poll: a
// reply that landed after the last tick still counts.
func (b *bridge) waitForReply(ctx context.Context, phone string, recipient telegram.Recipient) (Reply, bool) {
	deadline := time.NewTimer(b.cfg.ResponseTimeout)
	defer deadline.Stop()

	ticker := time.NewTicker(b.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if reply, ok := b.pollMatching(phone, recipient); ok {
			return reply, true
		}

		select {
		case <-ticker.C:
		case <-deadline.C:
			return b.pollMatching(phone, recipient)
		case <-ctx.Done():
			return Reply{}, false
		}
	}
}

func (b *bridge) pollMatching(phone string, recipient telegram.Recipient) (Reply, bool) {
	reply, ok := b.correlator.Poll(phone)
	if !ok {
		return Reply{}, false
	}

	if b.cfg.FilterSender && reply.SenderID != recipient.UserID {
		return Reply{}, false
	}

	return reply, true
}

func (b *bridge) publishReport(cmd SendCommand, result SendResult, opErr error) {
	report := DeliveryReport{
		Phone:        cmd.Phone,
		Destination:  cmd.Destination,
		Text:         cmd.Message,
		Success:      opErr == nil && result.Success,
		Response:     result.Response,
		ResponseTime: result.ResponseTime,
		Timestamp:    time.Now(),
	}

	if opErr != nil {
		code := constants.ErrCodeInternalError
		var serviceErr Error
		if errors.As(opErr, &serviceErr) {
			code = serviceErr.Code
		}
		report.ErrorCode = &code
	} else if !result.Success {
		code := constants.ErrCodeDestinationNotFound
		report.ErrorCode = &code
	}

	ctx, cancel := context.WithTimeout(context.Background(), reportPublishTimeout)
	defer cancel()

	if err := b.reports.PublishReport(ctx, report); err != nil {
		b.logger.Error("Failed to publish delivery report",
			zap.String("phone", cmd.Phone),
			zap.Error(err))
	}
}
