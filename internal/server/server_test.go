// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/handoff/internal/report"
	"github.com/pdiddy/handoff/internal/session"
	"github.com/pdiddy/handoff/pkg/types"
)

func newServer(t *testing.T, output types.OutputConfig) (*Server, *session.Store) {
	t.Helper()
	if output.Dir == "" {
		output.Dir = t.TempDir()
	}
	store := session.NewStore(time.Hour)
	cfg := types.Config{
		Layout: types.DefaultLayoutConfig(),
		Output: output,
	}
	srv, err := New(cfg, store, zerolog.Nop())
	require.NoError(t, err)
	return srv, store
}

func newTestServer(t *testing.T, output types.OutputConfig) (*httptest.Server, *session.Store) {
	t.Helper()
	srv, store := newServer(t, output)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, store
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func addPatient(t *testing.T, c *http.Client, base string, form url.Values) {
	t.Helper()
	resp, err := c.PostForm(base+"/patients", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "Patient added.")
}

func TestIndexRendersForm(t *testing.T) {
	ts, store := newTestServer(t, types.OutputConfig{})
	c := newClient(t)

	resp, err := c.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	html := string(body)
	assert.Contains(t, html, `name="name"`)
	assert.Contains(t, html, `name="med7"`)
	assert.Contains(t, html, `type="checkbox" name="dress"`)
	assert.NotContains(t, html, "Download Two-Column PDF")

	assert.Empty(t, resp.Cookies(), "viewing the form starts no session")
	assert.Equal(t, 0, store.Len())
}

func TestFirstPatientIssuesSessionCookie(t *testing.T) {
	ts, store := newTestServer(t, types.OutputConfig{})
	c := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	resp, err := c.PostForm(ts.URL+"/patients", url.Values{"name": {"Alice"}})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Len(t, resp.Cookies(), 1)
	ck := resp.Cookies()[0]
	assert.Equal(t, sessionCookie, ck.Name)
	assert.True(t, session.ValidID(ck.Value))
	assert.True(t, ck.HttpOnly)

	sess, ok := store.Lookup(ck.Value)
	require.True(t, ok)
	assert.Equal(t, 1, sess.Len())
}

func TestReadsDoNotAllocateSessions(t *testing.T) {
	ts, store := newTestServer(t, types.OutputConfig{})

	for i := 0; i < 20; i++ {
		for _, path := range []string{"/", "/patients", "/report.pdf"} {
			resp, err := http.Get(ts.URL + path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Empty(t, resp.Cookies(), path)

			req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
			require.NoError(t, err)
			req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session.NewID()})
			resp, err = http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
		}
	}
	assert.Equal(t, 0, store.Len())
}

func TestUnknownSessionReadsEmpty(t *testing.T) {
	ts, store := newTestServer(t, types.OutputConfig{})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/patients", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session.NewID()})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var file types.PatientsFile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&file))
	assert.NotNil(t, file.Patients)
	assert.Empty(t, file.Patients)
	assert.Equal(t, 0, store.Len())
}

func TestAddPatientAndList(t *testing.T) {
	ts, _ := newTestServer(t, types.OutputConfig{})
	c := newClient(t)

	addPatient(t, c, ts.URL, url.Values{
		"name": {"Alice"},
		"room": {"101"},
		"bp":   {"120/80"},
		"amb":  {"1"},
		"med2": {"Paracetamol"},
	})
	addPatient(t, c, ts.URL, url.Values{"name": {"Bob"}})

	resp, err := c.Get(ts.URL + "/patients")
	require.NoError(t, err)
	defer resp.Body.Close()

	var file types.PatientsFile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&file))
	require.Len(t, file.Patients, 2)

	alice := file.Patients[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "120/80", alice.BP)
	assert.True(t, alice.Ambulation)
	assert.False(t, alice.Urination)
	assert.Equal(t, []string{"", "Paracetamol", "", "", "", "", ""}, alice.Medications)
	assert.Equal(t, "Bob", file.Patients[1].Name)
}

func TestIndexShowsFormattedBlocks(t *testing.T) {
	ts, _ := newTestServer(t, types.OutputConfig{})
	c := newClient(t)
	addPatient(t, c, ts.URL, url.Values{"name": {"Alice"}})

	resp, err := c.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	html := string(body)
	assert.Contains(t, html, "Download Two-Column PDF")
	assert.Contains(t, html, "Patient #1\nPatient Medical Record\nName: Alice")
}

func TestSessionsAreIsolated(t *testing.T) {
	ts, store := newTestServer(t, types.OutputConfig{})
	alice, bob := newClient(t), newClient(t)

	addPatient(t, alice, ts.URL, url.Values{"name": {"Alice"}})

	resp, err := bob.Get(ts.URL + "/patients")
	require.NoError(t, err)
	defer resp.Body.Close()
	var file types.PatientsFile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&file))
	assert.Empty(t, file.Patients)
	assert.Equal(t, 1, store.Len())
}

func TestReportEmptySession(t *testing.T) {
	ts, _ := newTestServer(t, types.OutputConfig{})
	resp, err := newClient(t).Get(ts.URL + "/report.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportDownload(t *testing.T) {
	dir := t.TempDir()
	ts, _ := newTestServer(t, types.OutputConfig{Dir: dir})
	c := newClient(t)
	addPatient(t, c, ts.URL, url.Values{"name": {"Alice"}, "room": {"101"}})
	addPatient(t, c, ts.URL, url.Values{"name": {"Bob"}})

	resp, err := c.Get(ts.URL + "/report.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="handoff_dual_column.pdf"`, resp.Header.Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))

	onDisk, err := os.ReadFile(filepath.Join(dir, types.DefaultReportName))
	require.NoError(t, err)
	assert.Equal(t, body, onDisk)
}

func TestReportPerSessionFile(t *testing.T) {
	dir := t.TempDir()
	ts, _ := newTestServer(t, types.OutputConfig{Dir: dir, PerSession: true})
	c := newClient(t)
	addPatient(t, c, ts.URL, url.Values{"name": {"Alice"}})

	resp, err := c.Get(ts.URL + "/report.pdf")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	name := entries[0].Name()
	assert.True(t, strings.HasPrefix(name, "handoff_dual_column-"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
}

func TestInvalidSessionCookieReplaced(t *testing.T) {
	ts, store := newTestServer(t, types.OutputConfig{})

	form := url.Values{"name": {"Alice"}}
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/patients", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "../not-a-session"})

	c := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	_, ok := store.Lookup("../not-a-session")
	assert.False(t, ok)
	require.NotEmpty(t, resp.Cookies())
	assert.True(t, session.ValidID(resp.Cookies()[0].Value))
	assert.Equal(t, 1, store.Len())
}

func TestSharedReportFileServesOwnSession(t *testing.T) {
	dir := t.TempDir()
	srv, _ := newServer(t, types.OutputConfig{Dir: dir})

	var mu sync.Mutex
	written := make(map[string][]byte)
	srv.writeReport = func(recs []types.PatientRecord, cfg types.LayoutConfig, opts report.Options, path string) (report.Result, error) {
		res, err := report.WriteFile(recs, cfg, opts, path)
		if err != nil {
			return res, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return res, err
		}
		mu.Lock()
		written[recs[0].Name] = data
		mu.Unlock()
		// Leave room for another session to overwrite the shared file.
		time.Sleep(50 * time.Millisecond)
		return res, nil
	}

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	names := []string{"Alice", "Bob", "Carol", "Dave"}
	clients := make(map[string]*http.Client, len(names))
	for _, name := range names {
		clients[name] = newClient(t)
		addPatient(t, clients[name], ts.URL, url.Values{"name": {name}})
	}

	var wg sync.WaitGroup
	bodies := make(map[string][]byte, len(names))
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			resp, err := clients[name].Get(ts.URL + "/report.pdf")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			assert.NoError(t, err)
			mu.Lock()
			bodies[name] = body
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	for _, name := range names {
		require.NotEmpty(t, written[name], name)
		assert.Equal(t, written[name], bodies[name], "%s received another session's report", name)
	}
	_, err := os.Stat(filepath.Join(dir, types.DefaultReportName))
	assert.NoError(t, err)
}

func TestHealth(t *testing.T) {
	ts, store := newTestServer(t, types.OutputConfig{})
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, store.Len())
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	cfg := types.Config{Server: types.ServerConfig{Addr: "127.0.0.1:0"}}
	srv, err := New(cfg, session.NewStore(0), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
