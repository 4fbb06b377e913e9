package cli

import (
	"context"
	"fmt"
	"io"
	"time"
)

// pollInterval is how often the pairing loop asks the API for fresh status.
// Variable so tests can shorten it.
var pollInterval = 2 * time.Second

// PairingSession drives the interactive pairing flow for one instance: it
// requests a code, then polls status until the device reports an open
// session or the context is cancelled.
type PairingSession struct {
	client *Client
	out    io.Writer

	instanceName string
	phone        string

	lastQR   string
	lastCode string
}

// NewPairingSession creates a pairing session for the named instance. When
// phone is non-empty the gateway returns a numeric pairing code instead of a
// QR code.
func NewPairingSession(client *Client, out io.Writer, instanceName, phone string) *PairingSession {
	return &PairingSession{
		client:       client,
		out:          out,
		instanceName: instanceName,
		phone:        phone,
	}
}

// Run executes the pairing loop. It returns nil once the instance reports an
// open session, or the context error when cancelled.
func (s *PairingSession) Run(ctx context.Context) error {
	result, err := s.client.Connect(ctx, s.instanceName, s.phone)
	if err != nil {
		return fmt.Errorf("failed to start pairing: %w", err)
	}
	s.render(result)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			status, err := s.client.Status(ctx, s.instanceName)
			if err != nil {
				fmt.Fprintf(s.out, "status check failed: %v\n", err)
				continue
			}
			if status == nil {
				// Nothing to report yet; keep polling.
				continue
			}
			if isOpen(statusValue(status)) {
				fmt.Fprintf(s.out, "\nInstance %q is connected.\n", s.instanceName)
				return nil
			}
			s.render(status)
		}
	}
}

// render prints the QR string or pairing code when it changes. The gateway
// rotates QR codes, so repeated payloads are common and stay silent.
func (s *PairingSession) render(payload map[string]interface{}) {
	if payload == nil {
		return
	}

	if code := stringAt(payload, "paircode"); code != "" && code != s.lastCode {
		s.lastCode = code
		fmt.Fprintf(s.out, "\nPairing code: %s\n", code)
		fmt.Fprintln(s.out, "Enter this code on your phone under Linked Devices.")
		return
	}

	if qr := stringAt(payload, "qrcode"); qr != "" && qr != s.lastQR {
		s.lastQR = qr
		fmt.Fprintln(s.out, "\nScan this QR code with your phone:")
		fmt.Fprintln(s.out, qr)
	}
}

func isOpen(status string) bool {
	return status == "open" || status == "connected"
}

// statusValue probes the payload for the instance status. The gateway nests
// it under instance.status on some versions and at the top level on others.
func statusValue(payload map[string]interface{}) string {
	if s := stringAt(payload, "status"); s != "" {
		return s
	}
	if inst, ok := payload["instance"].(map[string]interface{}); ok {
		return stringAt(inst, "status")
	}
	return ""
}

// stringAt probes the payload for a string field at the top level or nested
// one level under "instance".
func stringAt(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	if inst, ok := payload["instance"].(map[string]interface{}); ok {
		if v, ok := inst[key].(string); ok {
			return v
		}
	}
	return ""
}
