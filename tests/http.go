package tests

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/linkit/relay/internal/api"
	"github.com/linkit/relay/internal/dic"
	dic_test "github.com/linkit/relay/tests/dic"
)

// RequestOption customizes the fake request handed to the handler under test.
type RequestOption interface {
	apply(request *http.Request) *http.Request
}

// RequestParams are the mux route variables.
type RequestParams struct {
	Params map[string]string
}

func (r RequestParams) apply(request *http.Request) *http.Request {
	return mux.SetURLVars(request, r.Params)
}

type RequestBody struct {
	Body io.Reader
}

func (r RequestBody) apply(request *http.Request) *http.Request {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		panic(err)
	}
	request.Body = io.NopCloser(bytes.NewReader(body))
	request.ContentLength = int64(len(body))
	return request
}

type RequestHeader struct {
	Name  string
	Value string
}

func (r RequestHeader) apply(request *http.Request) *http.Request {
	request.Header.Set(r.Name, r.Value)
	return request
}

type HTTPTestCase struct {
	Name           string
	GoldenFile     string
	StatusCode     int
	RequestOptions []RequestOption
	// Mock registers services before the test container is built.
	Mock func(t *testing.T)
}

type HTTPTestSuite struct{}

func (s *HTTPTestSuite) RunHTTPCases(t *testing.T, handler api.ErrorAwareHTTPHandler, cases []HTTPTestCase) {
	t.Helper()
	for _, testCase := range cases {
		t.Run(testCase.Name, func(t *testing.T) {
			dic.ResetContainer()
			if testCase.Mock != nil {
				testCase.Mock(t)
			}
			response, body := s.DoRequest(t, handler, testCase.RequestOptions...)
			defer response.Body.Close()

			require.Equal(t, testCase.StatusCode, response.StatusCode, string(body))
			if testCase.GoldenFile != "" {
				AssertJSONResponse(t, testCase.GoldenFile, string(body))
			}
		})
	}
}

// DoRequest builds the test container around the already registered mocks and
// runs handler behind the API error handler.
func (s *HTTPTestSuite) DoRequest(
	t *testing.T,
	handler api.ErrorAwareHTTPHandler,
	opts ...RequestOption,
) (*http.Response, []byte) {
	t.Helper()
	dic_test.BuildTestContainer(t)
	defer dic.ResetContainer()

	request := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	for _, opt := range opts {
		request = opt.apply(request)
	}

	recorder := httptest.NewRecorder()
	api.HTTPErrorHandler(handler)(recorder, request)
	response := recorder.Result()
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	return response, body
}
