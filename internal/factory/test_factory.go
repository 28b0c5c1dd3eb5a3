package factory

import (
	"time"

	"github.com/mcoot/pegjump/internal/dependencies/mocks"
	"github.com/mcoot/pegjump/internal/services/advisory"
	"github.com/mcoot/pegjump/internal/storage/memory"
	"github.com/mcoot/pegjump/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App backed by memory storage with a mock clock and
// mock random source. Queue session ids on MockRandom before creating sessions.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, advisory.DefaultDuration, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
