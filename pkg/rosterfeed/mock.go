package rosterfeed

import "context"

// MockClient is a mock roster feed client for testing
type MockClient struct {
	members  []Member
	baseURL  string
	token    string
	fetchErr error
	calls    int
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithMembers sets the members to return
func WithMembers(members []Member) MockOption {
	return func(m *MockClient) {
		m.members = members
	}
}

// WithFetchError sets an error to return from FetchRoster
func WithFetchError(err error) MockOption {
	return func(m *MockClient) {
		m.fetchErr = err
	}
}

// NewMockClient creates a mock client with the given options
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FetchRoster returns the configured members or error
func (m *MockClient) FetchRoster(ctx context.Context) ([]Member, error) {
	m.calls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.members, nil
}

// SetMembers replaces the members returned by FetchRoster
func (m *MockClient) SetMembers(members []Member) {
	m.members = members
}

// BaseURL returns the configured URL
func (m *MockClient) BaseURL() string {
	return m.baseURL
}

// SetBaseURL records the URL
func (m *MockClient) SetBaseURL(url string) {
	m.baseURL = url
}

// SetToken records the token
func (m *MockClient) SetToken(token string) {
	m.token = token
}

// Token returns the last token set
func (m *MockClient) Token() string {
	return m.token
}

// Calls returns how many times FetchRoster was called
func (m *MockClient) Calls() int {
	return m.calls
}

var _ Client = (*MockClient)(nil)
