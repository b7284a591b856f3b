// Package integration runs the reconcile binary against fixture repositories.
package integration

import (
	"testing"

	"reconcile.dev/reconcile/internal/testhelper"
)

// getReconcileBinary returns the path to the built reconcile binary
func getReconcileBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping binary tests in short mode")
	}
	binaryPath := testhelper.GetSharedBinaryPath()
	if binaryPath == "" {
		if err := testhelper.GetBinaryError(); err != nil {
			t.Fatalf("failed to build reconcile binary: %v", err)
		}
		t.Fatal("reconcile binary not built")
	}
	return binaryPath
}
