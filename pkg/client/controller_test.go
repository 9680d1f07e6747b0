package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
)

// fakeClient answers searches from a per-term script and can hold a response
// until released, to simulate slow requests.
type fakeClient struct {
	mu        sync.Mutex
	responses map[string][]entities.Hospital
	errs      map[string]error
	hold      map[string]chan struct{}
	calls     []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		responses: map[string][]entities.Hospital{},
		errs:      map[string]error{},
		hold:      map[string]chan struct{}{},
	}
}

func (f *fakeClient) holdTerm(term string) chan struct{} {
	release := make(chan struct{})
	f.mu.Lock()
	f.hold[term] = release
	f.mu.Unlock()
	return release
}

func (f *fakeClient) SearchHospitals(_ context.Context, req entities.SearchRequest) ([]entities.Hospital, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.SearchTerm)
	release := f.hold[req.SearchTerm]
	resp := f.responses[req.SearchTerm]
	err := f.errs[req.SearchTerm]
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	return resp, err
}

func (f *fakeClient) GetHospital(context.Context, string) (*entities.Hospital, error) {
	return nil, nil
}

func (f *fakeClient) CreateHospital(context.Context, entities.CreateHospitalRequest) (string, error) {
	return "", nil
}

func (f *fakeClient) callTerms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func collectResults() (func(Result), chan Result) {
	results := make(chan Result, 16)
	return func(r Result) { results <- r }, results
}

func waitForResult(t *testing.T, results chan Result) Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a search result")
		return Result{}
	}
}

func TestSearchControllerSubmitDeliversResult(t *testing.T) {
	fake := newFakeClient()
	fake.responses["lagos"] = []entities.Hospital{{ID: "h1", Name: "General Hospital Lagos"}}

	onResult, results := collectResults()
	controller := NewSearchController(fake, onResult)
	defer controller.Close()

	controller.Submit("lagos", entities.SearchTypeLocation)

	result := waitForResult(t, results)
	require.NoError(t, result.Err)
	require.Len(t, result.Hospitals, 1)
	assert.Equal(t, "General Hospital Lagos", result.Hospitals[0].Name)
	assert.False(t, result.NoResults)
	assert.False(t, result.HasExternal)
}

func TestSearchControllerStaleResponseDiscarded(t *testing.T) {
	fake := newFakeClient()
	fake.responses["slow"] = []entities.Hospital{{ID: "stale"}}
	fake.responses["fast"] = []entities.Hospital{{ID: "fresh"}}
	release := fake.holdTerm("slow")

	onResult, results := collectResults()
	controller := NewSearchController(fake, onResult)
	defer controller.Close()

	controller.Submit("slow", entities.SearchTypeName)
	controller.Submit("fast", entities.SearchTypeName)

	result := waitForResult(t, results)
	require.NoError(t, result.Err)
	require.Len(t, result.Hospitals, 1)
	assert.Equal(t, "fresh", result.Hospitals[0].ID)

	// Let the older request finish; its response must never surface.
	close(release)
	select {
	case r := <-results:
		t.Fatalf("stale response was delivered: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSearchControllerDebounceCoalescesQueries(t *testing.T) {
	fake := newFakeClient()
	fake.responses["lag"] = []entities.Hospital{{ID: "h1"}}
	fake.responses["lagos"] = []entities.Hospital{{ID: "h2"}}

	onResult, results := collectResults()
	controller := NewSearchController(fake, onResult, WithDebounce(50*time.Millisecond))
	defer controller.Close()

	controller.SetQuery("lag", entities.SearchTypeLocation)
	controller.SetQuery("lagos", entities.SearchTypeLocation)

	result := waitForResult(t, results)
	require.NoError(t, result.Err)
	require.Len(t, result.Hospitals, 1)
	assert.Equal(t, "h2", result.Hospitals[0].ID)

	assert.Equal(t, []string{"lagos"}, fake.callTerms())
}

func TestSearchControllerSubmitBypassesDebounce(t *testing.T) {
	fake := newFakeClient()
	fake.responses["abuja"] = []entities.Hospital{{ID: "h1"}}

	onResult, results := collectResults()
	controller := NewSearchController(fake, onResult, WithDebounce(time.Hour))
	defer controller.Close()

	controller.SetQuery("never-sent", entities.SearchTypeLocation)
	controller.Submit("abuja", entities.SearchTypeLocation)

	result := waitForResult(t, results)
	require.NoError(t, result.Err)
	require.Len(t, result.Hospitals, 1)
	assert.Equal(t, []string{"abuja"}, fake.callTerms())
}

func TestSearchControllerNoResultsFlag(t *testing.T) {
	fake := newFakeClient()
	fake.responses["nowhere"] = []entities.Hospital{}

	onResult, results := collectResults()
	controller := NewSearchController(fake, onResult)
	defer controller.Close()

	controller.Submit("nowhere", entities.SearchTypeLocation)

	result := waitForResult(t, results)
	require.NoError(t, result.Err)
	assert.True(t, result.NoResults)
	assert.False(t, result.CanRegister)
}

func TestSearchControllerCanRegisterNeedsExternalAndAuthorization(t *testing.T) {
	external := []entities.Hospital{{ID: "d1", IsExternal: true}}

	cases := []struct {
		name       string
		hospitals  []entities.Hospital
		authorized bool
		want       bool
	}{
		{"external and authorized", external, true, true},
		{"external without authorization", external, false, false},
		{"authorized without external", []entities.Hospital{{ID: "h1"}}, true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeClient()
			fake.responses["term"] = tc.hospitals

			onResult, results := collectResults()
			controller := NewSearchController(fake, onResult,
				WithAuthorization(func() bool { return tc.authorized }))
			defer controller.Close()

			controller.Submit("term", entities.SearchTypeName)

			result := waitForResult(t, results)
			require.NoError(t, result.Err)
			assert.Equal(t, tc.hospitals[0].IsExternal, result.HasExternal)
			assert.Equal(t, tc.want, result.CanRegister)
		})
	}
}

func TestSearchControllerNewerResultAlwaysRendersLast(t *testing.T) {
	fake := newFakeClient()
	fake.responses["first"] = []entities.Hospital{{ID: "old"}}
	fake.responses["second"] = []entities.Hospital{{ID: "new"}}

	entered := make(chan struct{})
	gate := make(chan struct{})
	var mu sync.Mutex
	var order []string
	onResult := func(r Result) {
		if r.Hospitals[0].ID == "old" {
			close(entered)
			<-gate
		}
		mu.Lock()
		order = append(order, r.Hospitals[0].ID)
		mu.Unlock()
	}

	controller := NewSearchController(fake, onResult)
	defer controller.Close()

	controller.Submit("first", entities.SearchTypeName)
	<-entered

	// A newer search settles while the older delivery is still in progress.
	// It must wait its turn rather than render before the older one.
	controller.Submit("second", entities.SearchTypeName)
	close(gate)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"old", "new"}, order)
}

func TestSearchControllerCloseDropsInFlight(t *testing.T) {
	fake := newFakeClient()
	fake.responses["slow"] = []entities.Hospital{{ID: "h1"}}
	release := fake.holdTerm("slow")

	onResult, results := collectResults()
	controller := NewSearchController(fake, onResult)

	controller.Submit("slow", entities.SearchTypeName)
	controller.Close()
	close(release)

	select {
	case r := <-results:
		t.Fatalf("result delivered after Close: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}

	// Further queries are ignored once closed.
	controller.SetQuery("slow", entities.SearchTypeName)
	controller.Submit("slow", entities.SearchTypeName)
	assert.Equal(t, []string{"slow"}, fake.callTerms())
}
