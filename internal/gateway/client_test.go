package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wowserver-ru/realmbot/internal/domain"
)

func reply(result string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
<SOAP-ENV:Body><ns1:executeCommandResponse xmlns:ns1="urn:AC">
<result>%s</result>
</ns1:executeCommandResponse></SOAP-ENV:Body></SOAP-ENV:Envelope>`, result)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{URL: srv.URL, Username: "admin", Password: "secret"})
}

func TestExecute_Success(t *testing.T) {
	var gotBody string
	var gotUser, gotPass string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotUser, gotPass, _ = r.BasicAuth()
		fmt.Fprint(w, reply("Account created: bob\n"))
	})

	out, err := c.Execute(context.Background(), "account create bob secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Account created: bob" {
		t.Fatalf("expected trimmed result, got %q", out)
	}
	if !strings.Contains(gotBody, "<command>account create bob secret</command>") {
		t.Fatalf("command not interpolated into envelope:\n%s", gotBody)
	}
	if gotUser != "admin" || gotPass != "secret" {
		t.Fatalf("basic auth not sent, got %q/%q", gotUser, gotPass)
	}
}

func TestExecute_EscapesCommandXML(t *testing.T) {
	var gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		fmt.Fprint(w, reply("ok"))
	})

	if _, err := c.Execute(context.Background(), `send mail Thrall "<b>" "a & b"`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(gotBody, "<b>") {
		t.Fatalf("command text not XML-escaped:\n%s", gotBody)
	}
	if !strings.Contains(gotBody, "&lt;b&gt;") || !strings.Contains(gotBody, "a &amp; b") {
		t.Fatalf("expected escaped markup in envelope:\n%s", gotBody)
	}
}

func TestExecute_EmptyResultIsAcknowledged(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, reply(""))
	})
	out, err := c.Execute(context.Background(), "server info")
	if err != nil {
		t.Fatalf("empty result must not be an error, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty payload, got %q", out)
	}
}

func TestExecute_MissingResultIsMalformedEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<Envelope><Body><executeCommandResponse/></Body></Envelope>`)
	})
	_, err := c.Execute(context.Background(), "server info")
	var terr *domain.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !strings.Contains(terr.Reason, "malformed envelope") {
		t.Fatalf("expected malformed envelope reason, got %q", terr.Reason)
	}
}

func TestExecute_NonSuccessStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})
	_, err := c.Execute(context.Background(), "server info")
	var terr *domain.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.Status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", terr.Status)
	}
}

func TestExecute_InvalidXML(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<not-xml")
	})
	_, err := c.Execute(context.Background(), "server info")
	var terr *domain.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestExecute_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)
	c := New(Config{URL: srv.URL, Timeout: 20 * time.Millisecond})

	_, err := c.Execute(context.Background(), "server info")
	var terr *domain.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError on timeout, got %v", err)
	}
	if terr.Status != 0 {
		t.Fatalf("timeout carries no HTTP status, got %d", terr.Status)
	}
}

func TestVerb(t *testing.T) {
	if got := Verb("account set password bob pw pw"); got != "account set" {
		t.Fatalf("got %q", got)
	}
	if got := Verb("server info"); got != "server info" {
		t.Fatalf("got %q", got)
	}
	if got := Verb(".revive"); got != ".revive" {
		t.Fatalf("got %q", got)
	}
}
