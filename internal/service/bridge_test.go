package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nguyencaoquydieu/TelegramClient/internal/config"
	"github.com/nguyencaoquydieu/TelegramClient/internal/constants"
	"github.com/nguyencaoquydieu/TelegramClient/internal/mocks"
	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testPhone       = "+84123456789"
	testDestination = "+84987654321"
)

var testRecipient = telegram.Recipient{UserID: 42, AccessHash: 7}

type bridgeFixture struct {
	registry   *mocks.SessionRegistry
	session    *mocks.Session
	correlator *service.Correlator
	gate       *service.Gate
	reports    *mocks.ReportPublisher
	service    service.BridgeService
}

func newBridgeFixture(t *testing.T, mutate func(*config.Telegram)) *bridgeFixture {
	t.Helper()

	cfg := &config.Config{
		Telegram: config.Telegram{
			ResponseTimeout: 80 * time.Millisecond,
			PollInterval:    10 * time.Millisecond,
			RequestTimeout:  400 * time.Millisecond,
			GateScope:       config.GateScopeAccount,
			FilterSender:    true,
		},
	}
	if mutate != nil {
		mutate(&cfg.Telegram)
	}

	f := &bridgeFixture{
		registry:   &mocks.SessionRegistry{},
		session:    &mocks.Session{},
		correlator: service.NewCorrelator(),
		gate:       service.NewGate(cfg.Telegram.GateScope == config.GateScopeGlobal),
		reports:    &mocks.ReportPublisher{},
	}

	f.service = service.NewBridgeService(f.registry, f.correlator, f.gate,
		f.reports, zap.NewNop(), cfg)
	return f
}

func (f *bridgeFixture) expectLookup() {
	f.registry.On("Lookup", testPhone).Return(f.session, nil)
}

func (f *bridgeFixture) expectReport() {
	f.reports.On("PublishReport", mock.Anything, mock.AnythingOfType("service.DeliveryReport")).
		Return(nil)
}

// requireGateFree waits for the detached operation to release its scope.
// Release happens after the result is delivered, so callers cannot assume
// the gate is already free when SendAndWait returns.
func requireGateFree(t *testing.T, gate *service.Gate, scope string) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if gate.TryAcquire(scope) {
			gate.Release(scope)
			return
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("gate for %s was never released", scope)
}

func command() service.SendCommand {
	return service.SendCommand{Destination: testDestination, Message: "ping", Phone: testPhone}
}

func TestBridgeService_SendAndWait_ReplyReceived(t *testing.T) {
	f := newBridgeFixture(t, nil)
	f.expectLookup()
	f.expectReport()

	f.session.On("Resolve", mock.Anything, testDestination).Return(testRecipient, nil)
	f.session.On("Send", mock.Anything, testRecipient, "ping").
		Run(func(mock.Arguments) {
			// the reply lands while the bridge is polling
			go func() {
				time.Sleep(20 * time.Millisecond)
				f.correlator.Record(testPhone, testRecipient.UserID, "pong")
			}()
		}).Return(nil)

	result, err := f.service.SendAndWait(context.Background(), command())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, testPhone, result.Phone)
	assert.Equal(t, "Message sent to "+testDestination, result.Message)
	require.NotNil(t, result.Response)
	assert.Equal(t, "pong", *result.Response)
	assert.Greater(t, result.ResponseTime, 0.0)
	assert.Less(t, result.ResponseTime, 1.0)

	requireGateFree(t, f.gate, testPhone)
	f.reports.AssertCalled(t, "PublishReport", mock.Anything,
		mock.MatchedBy(func(r service.DeliveryReport) bool {
			return r.Success && r.Response != nil && *r.Response == "pong" && r.ErrorCode == nil
		}))
}

func TestBridgeService_SendAndWait_NoReplyIsStillSuccess(t *testing.T) {
	f := newBridgeFixture(t, nil)
	f.expectLookup()
	f.expectReport()

	f.session.On("Resolve", mock.Anything, testDestination).Return(testRecipient, nil)
	f.session.On("Send", mock.Anything, testRecipient, "ping").Return(nil)

	result, err := f.service.SendAndWait(context.Background(), command())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Nil(t, result.Response)
	assert.Greater(t, result.ResponseTime, 0.0)

	requireGateFree(t, f.gate, testPhone)
}

func TestBridgeService_SendAndWait_StaleReplyIsDiscarded(t *testing.T) {
	f := newBridgeFixture(t, nil)
	f.expectLookup()
	f.expectReport()

	// left over from an earlier conversation with the same recipient
	f.correlator.Record(testPhone, testRecipient.UserID, "stale")

	f.session.On("Resolve", mock.Anything, testDestination).Return(testRecipient, nil)
	f.session.On("Send", mock.Anything, testRecipient, "ping").Return(nil)

	result, err := f.service.SendAndWait(context.Background(), command())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Nil(t, result.Response)
}

func TestBridgeService_SendAndWait_SenderFiltering(t *testing.T) {
	scenario := func(filter bool) (service.SendResult, error) {
		f := newBridgeFixture(t, func(cfg *config.Telegram) {
			cfg.FilterSender = filter
		})
		f.expectLookup()
		f.expectReport()

		f.session.On("Resolve", mock.Anything, testDestination).Return(testRecipient, nil)
		f.session.On("Send", mock.Anything, testRecipient, "ping").
			Run(func(mock.Arguments) {
				go func() {
					time.Sleep(20 * time.Millisecond)
					f.correlator.Record(testPhone, 999, "from someone else")
				}()
			}).Return(nil)

		return f.service.SendAndWait(context.Background(), command())
	}

	t.Run("filtered ignores other senders", func(t *testing.T) {
		result, err := scenario(true)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Nil(t, result.Response)
	})

	t.Run("unfiltered accepts any inbound message", func(t *testing.T) {
		result, err := scenario(false)
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, result.Response)
		assert.Equal(t, "from someone else", *result.Response)
	})
}

func TestBridgeService_SendAndWait_DestinationNotFound(t *testing.T) {
	f := newBridgeFixture(t, nil)
	f.expectLookup()
	f.expectReport()

	f.session.On("Resolve", mock.Anything, testDestination).
		Return(telegram.Recipient{}, telegram.ErrDestinationNotFound)

	result, err := f.service.SendAndWait(context.Background(), command())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, constants.ErrMsgDestinationNotFound, result.Error)
	assert.Contains(t, result.Message, testDestination)

	requireGateFree(t, f.gate, testPhone)
	f.session.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	f.reports.AssertCalled(t, "PublishReport", mock.Anything,
		mock.MatchedBy(func(r service.DeliveryReport) bool {
			return !r.Success && r.ErrorCode != nil &&
				*r.ErrorCode == constants.ErrCodeDestinationNotFound
		}))
}

func TestBridgeService_SendAndWait_ResolveFailure(t *testing.T) {
	f := newBridgeFixture(t, nil)
	f.expectLookup()
	f.expectReport()

	f.session.On("Resolve", mock.Anything, testDestination).
		Return(telegram.Recipient{}, errors.New("flood wait"))

	_, err := f.service.SendAndWait(context.Background(), command())
	require.Error(t, err)

	var serviceErr service.Error
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, constants.ErrCodeInternalError, serviceErr.Code)

	requireGateFree(t, f.gate, testPhone)
}

func TestBridgeService_SendAndWait_SendFailure(t *testing.T) {
	f := newBridgeFixture(t, nil)
	f.expectLookup()
	f.expectReport()

	f.session.On("Resolve", mock.Anything, testDestination).Return(testRecipient, nil)
	f.session.On("Send", mock.Anything, testRecipient, "ping").
		Return(errors.New("peer flood"))

	_, err := f.service.SendAndWait(context.Background(), command())
	require.Error(t, err)

	var serviceErr service.Error
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, constants.ErrCodeSendFailed, serviceErr.Code)

	requireGateFree(t, f.gate, testPhone)
	f.reports.AssertCalled(t, "PublishReport", mock.Anything,
		mock.MatchedBy(func(r service.DeliveryReport) bool {
			return !r.Success && r.ErrorCode != nil && *r.ErrorCode == constants.ErrCodeSendFailed
		}))
}

func TestBridgeService_SendAndWait_MissingParameters(t *testing.T) {
	f := newBridgeFixture(t, nil)

	for name, cmd := range map[string]service.SendCommand{
		"no destination": {Message: "ping", Phone: testPhone},
		"no message":     {Destination: testDestination, Phone: testPhone},
		"no phone":       {Destination: testDestination, Message: "ping"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.SendAndWait(context.Background(), cmd)

			var serviceErr service.Error
			require.ErrorAs(t, err, &serviceErr)
			assert.Equal(t, constants.ErrCodeMissingParameters, serviceErr.Code)
		})
	}

	f.registry.AssertNotCalled(t, "Lookup", mock.Anything)
}

func TestBridgeService_SendAndWait_UnknownPhone(t *testing.T) {
	f := newBridgeFixture(t, nil)
	f.registry.On("Lookup", testPhone).Return(nil, service.ErrSessionNotFound)

	_, err := f.service.SendAndWait(context.Background(), command())

	var serviceErr service.Error
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, constants.ErrCodePhoneNotFound, serviceErr.Code)
}

func TestBridgeService_SendAndWait_AccountBusy(t *testing.T) {
	f := newBridgeFixture(t, nil)
	f.expectLookup()
	f.expectReport()

	inFlight := make(chan struct{})
	release := make(chan struct{})

	f.session.On("Resolve", mock.Anything, testDestination).Return(testRecipient, nil)
	f.session.On("Send", mock.Anything, testRecipient, "ping").
		Run(func(mock.Arguments) {
			close(inFlight)
			<-release
		}).Return(nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.service.SendAndWait(context.Background(), command())
		firstDone <- err
	}()

	<-inFlight

	// the second request for the same account must be rejected, not queued
	_, err := f.service.SendAndWait(context.Background(), command())

	var serviceErr service.Error
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, constants.ErrCodeAccountBusy, serviceErr.Code)

	close(release)
	require.NoError(t, <-firstDone)

	requireGateFree(t, f.gate, testPhone)
	f.session.AssertNumberOfCalls(t, "Send", 1)
}

func TestBridgeService_SendAndWait_DifferentPhonesOverlap(t *testing.T) {
	f := newBridgeFixture(t, nil)
	f.expectLookup()
	f.expectReport()

	otherPhone := "+84555555555"
	otherSession := &mocks.Session{}
	f.registry.On("Lookup", otherPhone).Return(otherSession, nil)

	inFlight := make(chan struct{})
	release := make(chan struct{})

	f.session.On("Resolve", mock.Anything, testDestination).Return(testRecipient, nil)
	f.session.On("Send", mock.Anything, testRecipient, "ping").
		Run(func(mock.Arguments) {
			close(inFlight)
			<-release
		}).Return(nil)

	otherSession.On("Resolve", mock.Anything, testDestination).Return(testRecipient, nil)
	otherSession.On("Send", mock.Anything, testRecipient, "ping").Return(nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.service.SendAndWait(context.Background(), command())
		firstDone <- err
	}()

	<-inFlight

	cmd := command()
	cmd.Phone = otherPhone
	result, err := f.service.SendAndWait(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, result.Success)

	close(release)
	require.NoError(t, <-firstDone)
}

func TestBridgeService_SendAndWait_AbandonsSlowOperation(t *testing.T) {
	f := newBridgeFixture(t, nil)
	f.expectLookup()

	reported := make(chan struct{})
	f.reports.On("PublishReport", mock.Anything, mock.AnythingOfType("service.DeliveryReport")).
		Run(func(mock.Arguments) {
			close(reported)
		}).Return(nil)

	f.session.On("Resolve", mock.Anything, testDestination).
		Run(func(mock.Arguments) {
			time.Sleep(500 * time.Millisecond)
		}).Return(testRecipient, nil)
	f.session.On("Send", mock.Anything, testRecipient, "ping").Return(nil)

	start := time.Now()
	_, err := f.service.SendAndWait(context.Background(), command())
	elapsed := time.Since(start)

	var serviceErr service.Error
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, constants.ErrCodeRequestTimeout, serviceErr.Code)
	assert.Less(t, elapsed, 500*time.Millisecond)

	// the abandoned operation still finishes, releases the gate and reports
	requireGateFree(t, f.gate, testPhone)
	select {
	case <-reported:
	case <-time.After(2 * time.Second):
		t.Fatal("abandoned operation never published its report")
	}
}

func TestBridgeService_SendAndWait_CallerGone(t *testing.T) {
	f := newBridgeFixture(t, nil)
	f.expectLookup()
	f.expectReport()

	ctx, cancel := context.WithCancel(context.Background())

	f.session.On("Resolve", mock.Anything, testDestination).Return(testRecipient, nil)
	f.session.On("Send", mock.Anything, testRecipient, "ping").
		Run(func(mock.Arguments) {
			cancel()
		}).Return(nil)

	_, err := f.service.SendAndWait(ctx, command())

	var serviceErr service.Error
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, constants.ErrCodeRequestTimeout, serviceErr.Code)

	requireGateFree(t, f.gate, testPhone)
}
