// Package gateway issues single console commands to the game server's SOAP
// endpoint and unwraps the free-text result.
package gateway

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wowserver-ru/realmbot/internal/domain"
)

const DefaultTimeout = 5 * time.Second

// The endpoint only ever reads a single <command> element and only ever
// writes a single <result> element.
const envelope = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
               xmlns:xsd="http://www.w3.org/2001/XMLSchema"
               xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <executeCommand xmlns="urn:AC">
      <command>%s</command>
    </executeCommand>
  </soap:Body>
</soap:Envelope>`

type Config struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

// Client performs one blocking SOAP call per command with a bounded timeout.
// It is safe for concurrent use.
type Client struct {
	url      string
	username string
	password string
	http     *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:      cfg.URL,
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout},
	}
}

// Execute sends one console command and returns the trimmed result text. An
// empty string with a nil error is a legitimate outcome: some commands
// produce no output. Every failure mode is converted to *domain.TransportError.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	requestID := uuid.NewString()
	start := time.Now()

	payload := fmt.Sprintf(envelope, escapeXML(command))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(payload))
	if err != nil {
		return "", &domain.TransportError{Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "text/xml")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		// Logged with the verb only: command arguments may contain credentials.
		slog.Error("soap call failed",
			"request_id", requestID,
			"verb", Verb(command),
			"error", err,
		)
		return "", &domain.TransportError{Reason: "endpoint unreachable or timed out"}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domain.TransportError{Status: resp.StatusCode, Reason: resp.Status}
	}

	result, found, err := extractResult(resp.Body)
	if err != nil {
		return "", &domain.TransportError{Reason: "invalid XML in reply: " + err.Error()}
	}
	if !found {
		// A well-formed reply without <result> is a protocol violation, not
		// an empty success.
		return "", &domain.TransportError{Reason: "malformed envelope: <result> element missing"}
	}

	slog.Debug("soap command executed",
		"request_id", requestID,
		"verb", Verb(command),
		"duration", time.Since(start),
	)
	return strings.TrimSpace(result), nil
}

// extractResult scans the reply for the first <result> element, in any
// namespace, and returns its character data.
func extractResult(r io.Reader) (string, bool, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "result" {
			var text string
			if err := dec.DecodeElement(&text, &se); err != nil {
				return "", false, err
			}
			return text, true, nil
		}
	}
}

// Verb returns the first two words of a command, enough to identify the
// operation in logs without exposing its arguments.
func Verb(command string) string {
	fields := strings.Fields(command)
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return strings.Join(fields, " ")
}

func escapeXML(s string) string {
	var b strings.Builder
	// EscapeText only fails on a failing writer; strings.Builder never fails.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
