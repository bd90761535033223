package app

import (
	"net/http"
	"reflect"
	"testing"
	"time"
)

func TestNewHTTPClient_Config(t *testing.T) {
	c := newHTTPClient(15 * time.Second)
	if c.Timeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %s", c.Timeout)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected http.Transport")
	}
	// Ensure we didn't return the default client's transport
	if reflect.ValueOf(http.DefaultTransport).Pointer() == reflect.ValueOf(tr).Pointer() {
		t.Fatalf("transport should not be default")
	}
	if d := newHTTPClient(0); d.Timeout != defaultHTTPTimeout {
		t.Fatalf("expected default timeout, got %s", d.Timeout)
	}
}
