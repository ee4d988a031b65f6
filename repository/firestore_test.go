package repository

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"
)

// Run against the emulator: FIRESTORE_EMULATOR_HOST=localhost:8080 go test ./repository/
func TestFirestore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set, skipping emulator test")
	}

	client, err := firestore.NewClient(context.Background(), "ecocart-test")
	require.NoError(t, err)
	repo := NewFirestore(client)
	t.Cleanup(func() { _ = repo.Close() })

	testRepository(t, repo)
}
