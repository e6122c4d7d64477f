package collyfetcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// classify maps a transport failure onto the fetch error taxonomy. Timeouts
// win over everything else, then TLS, then connection-level failures.
func classify(rawURL string, err error, requestTimeout, connectTimeout time.Duration) *scrape.FetchError {
	fe := &scrape.FetchError{URL: rawURL, Err: err}
	switch {
	case isTimeout(err):
		fe.Kind = scrape.ErrorKindTimeout
		fe.Budget = requestTimeout
		if isConnectPhase(err) {
			fe.Connect = true
			fe.Budget = connectTimeout
		}
	case isTLSError(err):
		fe.Kind = scrape.ErrorKindTLS
	case isConnectionError(err):
		fe.Kind = scrape.ErrorKindConnection
	default:
		fe.Kind = scrape.ErrorKindRequest
	}
	return fe
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Client.Timeout exceeded") || strings.Contains(msg, "TLS handshake timeout")
}

func isConnectPhase(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return strings.Contains(err.Error(), "TLS handshake timeout")
}

func isTLSError(err error) bool {
	var (
		verifyErr  *tls.CertificateVerificationError
		unknownCA  x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
		recordErr  tls.RecordHeaderError
		alertErr   tls.AlertError
	)
	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &unknownCA),
		errors.As(err, &hostErr),
		errors.As(err, &invalidErr),
		errors.As(err, &recordErr),
		errors.As(err, &alertErr):
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "tls:") || strings.Contains(msg, "x509:")
}

func isConnectionError(err error) bool {
	var (
		dnsErr *net.DNSError
		opErr  *net.OpError
	)
	switch {
	case errors.As(err, &dnsErr),
		errors.As(err, &opErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host")
}
