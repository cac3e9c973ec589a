package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

func newTestAPI(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.EscapedPath()}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &rec.Body))
		}
		requests = append(requests, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestClient_List(t *testing.T) {
	srv, requests := newTestAPI(t, http.StatusOK,
		`{"status":"success","count":1,"data":[{"student_id":"STU001","student_name":"Aarav Sharma","years_of_experience":2,"company_name":"Infosys"}]}`)

	resp, err := New(srv.URL+"/", time.Second).List(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, "success", resp.Envelope.Status)
	require.NotNil(t, resp.Envelope.Count)
	assert.Equal(t, 1, *resp.Envelope.Count)

	students, err := resp.Students()
	require.NoError(t, err)
	assert.Equal(t, []models.Student{{StudentID: "STU001", StudentName: "Aarav Sharma", YearsOfExperience: 2, CompanyName: "Infosys"}}, students)

	require.Len(t, *requests, 1)
	assert.Equal(t, "/students", (*requests)[0].Path)
}

func TestClient_GetNotFoundIsNotAnError(t *testing.T) {
	srv, requests := newTestAPI(t, http.StatusNotFound, `{"status":"error","message":"Student 'A B' not found"}`)

	resp, err := New(srv.URL, time.Second).Get(context.Background(), "A B")
	require.NoError(t, err)

	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Student 'A B' not found", resp.Envelope.Message)
	assert.Equal(t, "/students/A%20B", (*requests)[0].Path)

	student, err := resp.Student()
	require.NoError(t, err)
	assert.Nil(t, student)
}

func TestClient_CreateAndUpdateBodies(t *testing.T) {
	srv, requests := newTestAPI(t, http.StatusOK, `{"status":"success","message":"ok"}`)
	c := New(srv.URL, time.Second)
	ctx := context.Background()

	_, err := c.Create(ctx, models.Student{StudentID: "STU010", StudentName: "Meera Nair", YearsOfExperience: 0, CompanyName: "HCL"})
	require.NoError(t, err)

	_, err = c.Update(ctx, "STU010", map[string]interface{}{"company_name": "Acme"})
	require.NoError(t, err)

	_, err = c.Delete(ctx, "STU010")
	require.NoError(t, err)

	require.Len(t, *requests, 3)
	assert.Equal(t, http.MethodPost, (*requests)[0].Method)
	assert.Equal(t, map[string]interface{}{
		"student_id":          "STU010",
		"student_name":        "Meera Nair",
		"years_of_experience": float64(0),
		"company_name":        "HCL",
	}, (*requests)[0].Body)

	assert.Equal(t, http.MethodPut, (*requests)[1].Method)
	assert.Equal(t, map[string]interface{}{"company_name": "Acme"}, (*requests)[1].Body)

	assert.Equal(t, http.MethodDelete, (*requests)[2].Method)
	assert.Nil(t, (*requests)[2].Body)
}

func TestClient_ConnectionError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	baseURL := "http://" + listener.Addr().String()
	require.NoError(t, listener.Close())

	_, err = New(baseURL, time.Second).Health(context.Background())

	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, baseURL, connErr.URL)
	assert.Equal(t, "Cannot connect to the API at "+baseURL+". Is the server running?", err.Error())
	assert.NotNil(t, errors.Unwrap(err))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond).Health(context.Background())
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, srv.URL, timeoutErr.URL)
	assert.Equal(t, "The API at "+srv.URL+" did not respond within 50ms", err.Error())

	var connErr *ConnectionError
	assert.False(t, errors.As(err, &connErr))
}

func TestClient_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Health(context.Background())
	require.Error(t, err)

	var connErr *ConnectionError
	assert.False(t, errors.As(err, &connErr))
}

func TestNew_Defaults(t *testing.T) {
	c := New("", 0)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}
