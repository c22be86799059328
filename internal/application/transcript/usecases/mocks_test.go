package usecases

import (
	"context"
	"sync"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

type mockTranscriptRepository struct {
	CreateFunc func(ctx context.Context, t *transcript.Transcript) error
	FetchFunc  func(ctx context.Context, transcriptID string) (*transcript.Transcript, error)

	mu          sync.Mutex
	createCalls int
	fetchCalls  int
}

func (m *mockTranscriptRepository) Create(ctx context.Context, t *transcript.Transcript) error {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return nil
}

func (m *mockTranscriptRepository) Fetch(ctx context.Context, transcriptID string) (*transcript.Transcript, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, transcriptID)
	}
	return nil, transcript.ErrTranscriptNotFound
}

func (m *mockTranscriptRepository) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

func (m *mockTranscriptRepository) FetchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

type mockSecretVerifier struct {
	secret string
}

func (m *mockSecretVerifier) Verify(presented string) bool {
	return m.secret != "" && presented == m.secret
}

type mockRenderer struct {
	RenderFunc func(t *transcript.Transcript) (string, error)
}

func (m *mockRenderer) Render(t *transcript.Transcript) (string, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(t)
	}
	return "<html>" + t.ID() + "</html>", nil
}

type mockURLBuilder struct{}

func (mockURLBuilder) TranscriptURL(transcriptID string) string {
	return "https://transcripts.test/" + transcriptID
}

type mockLogger struct {
	WarnwFunc  func(msg string, keysAndValues ...any)
	ErrorwFunc func(msg string, keysAndValues ...any)
}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any)  {}
func (m *mockLogger) Warn(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}

func (m *mockLogger) With(args ...any) logger.Interface {
	return m
}

func (m *mockLogger) Named(name string) logger.Interface {
	return m
}

func (m *mockLogger) Debugw(msg string, keysAndValues ...any) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...any)  {}

func (m *mockLogger) Warnw(msg string, keysAndValues ...any) {
	if m.WarnwFunc != nil {
		m.WarnwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Errorw(msg string, keysAndValues ...any) {
	if m.ErrorwFunc != nil {
		m.ErrorwFunc(msg, keysAndValues...)
	}
}
