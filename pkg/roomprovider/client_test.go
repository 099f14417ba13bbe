package roomprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessKey = "access-key"
	testSecret    = "room-secret"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

func newTestServer(t *testing.T, status int, reply any) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		w.WriteHeader(status)
		if reply != nil {
			_ = json.NewEncoder(w).Encode(reply)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newClient(baseURL string, recordings RecordingStore) *Client {
	return New(Config{BaseURL: baseURL, AccessKey: testAccessKey, Secret: testSecret}, nil, recordings)
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	return claims
}

func TestCreateRoom(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, map[string]any{"id": "room-1", "enabled": true})
	c := newClient(srv.URL, nil)

	id, err := c.CreateRoom(context.Background(), "interview-abc-def", "Interview between A and B")
	require.NoError(t, err)
	assert.Equal(t, "room-1", id)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/rooms", req.Path)
	assert.Equal(t, "interview-abc-def", req.Body["name"])

	claims := parseClaims(t, strings.TrimPrefix(req.Auth, "Bearer "))
	assert.Equal(t, "management", claims["type"])
	assert.Equal(t, testAccessKey, claims["access_key"])
	assert.NotEmpty(t, claims["jti"])
}

func TestEnableRoom(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, map[string]any{"id": "room-1", "enabled": false})
	c := newClient(srv.URL, nil)

	require.NoError(t, c.EnableRoom(context.Background(), "room-1", false))
	req := (*requests)[0]
	assert.Equal(t, "/rooms/room-1", req.Path)
	assert.Equal(t, false, req.Body["enabled"])
}

func TestProviderErrors(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadGateway, map[string]string{"message": "upstream"})
	c := newClient(srv.URL, nil)

	_, err := c.CreateRoom(context.Background(), "n", "d")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)

	unconfigured := New(Config{BaseURL: srv.URL}, nil, nil)
	_, err = unconfigured.CreateRoom(context.Background(), "n", "d")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestIssueAuthToken(t *testing.T) {
	c := newClient("http://unused", nil)
	fixed := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	token, err := c.IssueAuthToken(context.Background(), "room-1", "user-1")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return fixed }))
	require.NoError(t, err)
	assert.Equal(t, "app", claims["type"])
	assert.Equal(t, "room-1", claims["room_id"])
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, defaultJoinRole, claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(24*time.Hour).Unix(), exp.Unix())

	_, err = c.IssueAuthToken(context.Background(), "", "user-1")
	assert.Error(t, err)
}

type fakeBucket struct {
	pages []*s3.ListObjectsV2Output
	calls int
}

func (f *fakeBucket) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func (f *fakeBucket) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://bucket.example.com/" + aws.ToString(in.Key) + "?sig=x"}, nil
}

func TestListRecordings(t *testing.T) {
	early := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	bucket := &fakeBucket{pages: []*s3.ListObjectsV2Output{
		{
			Contents: []types.Object{
				{Key: aws.String("room-1/"), Size: aws.Int64(0), LastModified: aws.Time(early)},
				{Key: aws.String("room-1/part2.mp4"), Size: aws.Int64(20), LastModified: aws.Time(late)},
			},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
		},
		{
			Contents: []types.Object{
				{Key: aws.String("room-1/part1.mp4"), Size: aws.Int64(10), LastModified: aws.Time(early)},
			},
			IsTruncated: aws.Bool(false),
		},
	}}

	c := newClient("http://unused", newS3Recordings("recordings", time.Minute, bucket, bucket))
	recordings, err := c.ListRecordings(context.Background(), "room-1")
	require.NoError(t, err)

	require.Len(t, recordings, 2)
	assert.Equal(t, "room-1/part1.mp4", recordings[0].Key)
	assert.Equal(t, int64(10), recordings[0].SizeBytes)
	assert.Contains(t, recordings[1].URL, "part2.mp4")
	assert.Equal(t, 2, bucket.calls)
}

func TestListRecordingsWithoutStore(t *testing.T) {
	recordings, err := newClient("http://unused", nil).ListRecordings(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Empty(t, recordings)
}

func TestProviderCallsHonourTimeoutWithInjectedClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "r1"})
		}
	}))
	defer srv.Close()

	c := New(Config{
		BaseURL:   srv.URL,
		AccessKey: testAccessKey,
		Secret:    testSecret,
		Timeout:   100 * time.Millisecond,
	}, &http.Client{Transport: http.DefaultTransport}, nil)

	started := time.Now()
	id, err := c.CreateRoom(context.Background(), "interview-a-b", "Interview")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, id)
	assert.Less(t, time.Since(started), 2*time.Second)
}
