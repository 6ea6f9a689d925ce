package providers

import "time"

// local mocks; testutil imports this package.
type nopLogger struct{}

func (m *nopLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *nopLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *nopLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *nopLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *nopLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *nopLogger) Close()                                        {}

type mockMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	hits            int
	misses          int
}

func (m *mockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *mockMetrics) ObserveRequestDuration(_ string, _ time.Duration)   { m.durationCalls++ }
func (m *mockMetrics) IncCacheHits()                                      { m.hits++ }
func (m *mockMetrics) IncCacheMisses()                                    { m.misses++ }
func (m *mockMetrics) IncMigrations(_ string, _ string)                   {}
func (m *mockMetrics) AddRecordsMigrated(_ string, _ uint64)              {}
func (m *mockMetrics) AddDecodeFailures(_ string, _ uint64)               {}
func (m *mockMetrics) ObserveMigrationDuration(_ string, _ time.Duration) {}
func (m *mockMetrics) SetOnchainVersion(_ uint16)                         {}
