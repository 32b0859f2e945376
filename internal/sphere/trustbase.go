package sphere

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/unicitynetwork/uniclaw/internal/constants"
	"github.com/unicitynetwork/uniclaw/internal/securefile"
)

// EnsureTrustbase makes sure the consensus trustbase exists at path,
// downloading it from url when absent. Initialization cannot proceed
// without it, so any failure here is returned to the caller.
func EnsureTrustbase(ctx context.Context, client *http.Client, url, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat trustbase: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build trustbase request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download trustbase from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("download trustbase: %s returned %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read trustbase body: %w", err)
	}

	if err := securefile.WriteFileAtomic(path, data, constants.TrustbasePerm, constants.DirectoryPerm); err != nil {
		return fmt.Errorf("save trustbase: %w", err)
	}
	return nil
}
