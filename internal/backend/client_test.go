package backend_test

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

func newCollection(t *testing.T, handler http.HandlerFunc) *backend.Collection[item] {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := backend.New(backend.Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	return backend.NewCollection[item](client, "items", backend.Labels{One: "item", Many: "items"})
}

func readParts(t *testing.T, r *http.Request) (map[string][]string, map[string][]string) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	fields := map[string][]string{}
	files := map[string][]string{}
	reader := multipart.NewReader(r.Body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() != "" {
			files[part.FormName()] = append(files[part.FormName()], part.FileName()+"|"+part.Header.Get("Content-Type")+"|"+string(data))
			continue
		}
		fields[part.FormName()] = append(fields[part.FormName()], string(data))
	}
	return fields, files
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := backend.New(backend.Config{}, nil)
	require.ErrorIs(t, err, backend.ErrMissingBaseURL)

	_, err = backend.New(backend.Config{BaseURL: "/relative"}, nil)
	require.ErrorIs(t, err, backend.ErrInvalidBaseURL)

	client, err := backend.New(backend.Config{BaseURL: "http://api.local/v1/"}, nil)
	require.NoError(t, err)
	require.Equal(t, "http://api.local/v1", client.BaseURL())
}

func TestCollection_List(t *testing.T) {
	coll := newCollection(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/items", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"_id":"a","title":"First"},{"_id":"b","title":"Second"}]}`))
	})

	items, err := coll.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []item{{ID: "a", Title: "First"}, {ID: "b", Title: "Second"}}, items)
}

func TestCollection_ListMissingData(t *testing.T) {
	coll := newCollection(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	items, err := coll.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestCollection_ListErrorFallback(t *testing.T) {
	coll := newCollection(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := coll.List(context.Background())
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "Failed to fetch items", apiErr.Message)
}

func TestCollection_SaveCreatePostsMultipart(t *testing.T) {
	coll := newCollection(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/items", r.URL.Path)

		fields, files := readParts(t, r)
		require.Equal(t, []string{"Intro"}, fields["title"])
		require.Equal(t, []string{"a.png|image/png|png-bytes", "b.jpg|image/jpeg|jpg-bytes"}, files["images"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"_id":"new","title":"Intro"}}`))
	})

	var payload backend.Payload
	payload.AddField("title", "Intro")
	payload.AddFile("images", "a.png", "image/png", []byte("png-bytes"))
	payload.AddFile("images", "b.jpg", "image/jpeg", []byte("jpg-bytes"))

	rec, err := coll.Save(context.Background(), "", payload)
	require.NoError(t, err)
	require.Equal(t, &item{ID: "new", Title: "Intro"}, rec)
}

func TestCollection_SaveUpdatePutsToRecordPath(t *testing.T) {
	coll := newCollection(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/items/p1", r.URL.Path)

		fields, files := readParts(t, r)
		require.Equal(t, []string{"New"}, fields["title"])
		require.Empty(t, files)

		_, _ = w.Write([]byte(`{"_id":"p1","title":"New"}`))
	})

	var payload backend.Payload
	payload.AddField("title", "New")

	rec, err := coll.Save(context.Background(), "p1", payload)
	require.NoError(t, err)
	require.Equal(t, "New", rec.Title)
}

func TestCollection_SaveEmptyBody(t *testing.T) {
	coll := newCollection(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec, err := coll.Save(context.Background(), "p1", backend.Payload{})
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestCollection_SaveErrorMessage(t *testing.T) {
	coll := newCollection(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Title already exists"}`))
	})

	_, err := coll.Save(context.Background(), "", backend.Payload{})
	require.Error(t, err)
	require.Equal(t, "Title already exists", backend.Message(err, "fallback"))

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestCollection_DeleteMissingIDSendsNothing(t *testing.T) {
	var calls int32
	coll := newCollection(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	err := coll.Delete(context.Background(), "  ")
	require.ErrorIs(t, err, backend.ErrMissingID)
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestCollection_Delete(t *testing.T) {
	coll := newCollection(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/items/abc", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, coll.Delete(context.Background(), "abc"))
}

func TestCollection_DeleteFallbackMessage(t *testing.T) {
	coll := newCollection(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := coll.Delete(context.Background(), "abc")
	require.Equal(t, "Failed to delete item", backend.Message(err, "unused"))
}

func TestMessage_NonAPIErrorUsesFallback(t *testing.T) {
	require.Equal(t, "Failed to post", backend.Message(errors.New("dial tcp: refused"), "Failed to post"))
	require.Equal(t, "Failed to post", backend.Message(nil, "Failed to post"))
}

func TestCollection_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	coll := newCollection(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	// Registered after the server's cleanup, so it runs first and lets Close return.
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := coll.Save(ctx, "", backend.Payload{})
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "deadline"))
}
