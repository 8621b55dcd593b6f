//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-web"

	StateOrdersBaseline = "no orders placed yet"
	StateOrderExists    = "order ORD-PACT-1 exists for pact.buyer@example.com"
	StateOrderMissing   = "no order with id ORD-MISSING"
)

const (
	ExistingOrderID = "ORD-PACT-1"
	MissingOrderID  = "ORD-MISSING"
	CustomerEmail   = "pact.buyer@example.com"
	TransactionID   = "pi_pact_0001"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCheckout is a checkout body whose total matches its lines.
func ExampleCheckout() map[string]any {
	return map[string]any{
		"formData": map[string]any{
			"email":     CustomerEmail,
			"firstName": "Pact",
			"lastName":  "Buyer",
			"address":   "1 Contract Way",
			"city":      "Lagos",
			"state":     "LA",
			"zip":       "100001",
			"phone":     "+2340000000",
			"country":   "Nigeria",
		},
		"items": []map[string]any{
			{"id": "tee-1-black-m", "name": "Logo Tee", "price": 25.0, "quantity": 2},
		},
		"shipping":      5.0,
		"tax":           0.0,
		"total":         55.0,
		"transactionId": TransactionID,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
