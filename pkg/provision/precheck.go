package provision

import (
	"fmt"
	"os"
	goruntime "runtime"
	"strconv"
	"strings"

	"github.com/hullhq/bosun/pkg/log"
)

const (
	meminfoPath = "/proc/meminfo"

	// lowMemoryBytes is the threshold below which a warning is logged.
	// The stack runs, but the database will be starved.
	lowMemoryBytes = 2 << 30
)

// Precheck verifies environment preconditions before any mutation. A failed
// precondition is fatal; low available memory is downgraded to a warning.
func Precheck(dataDir string) error {
	if goruntime.GOOS != "linux" {
		return fmt.Errorf("unsupported operating system %s: bosun provisions Linux hosts", goruntime.GOOS)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("data directory %s is not writable: %w", dataDir, err)
	}

	logger := log.WithComponent("precheck")
	available, err := availableMemory(meminfoPath)
	if err != nil {
		logger.Warn().Err(err).Msg("could not determine available memory")
		return nil
	}
	if available < lowMemoryBytes {
		logger.Warn().
			Int64("available_bytes", available).
			Msg("low available memory; the stack may be unstable")
	}

	return nil
}

// availableMemory parses MemAvailable from a meminfo-format file and returns
// it in bytes.
func availableMemory(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "MemAvailable:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse MemAvailable %q: %w", fields[1], err)
		}
		return kb * 1024, nil
	}

	return 0, fmt.Errorf("MemAvailable not found in %s", path)
}
