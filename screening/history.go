package screening

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	metadataFile = "metadata.json"
	runLogFile   = "run_log.txt"
	auditFile    = "Audit.xlsx"
)

// CreateRunDirectory creates <runsDir>/<client>/<month> and returns its path.
// Re-running a month writes into the same directory.
func CreateRunDirectory(runsDir, client, month string) (string, error) {
	dir := filepath.Join(runsDir, client, month)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return dir, nil
}

// WriteMetadata writes metadata.json into the run directory.
func WriteMetadata(runDir string, metadata Metadata) (string, error) {
	data, err := json.MarshalIndent(metadata, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode run metadata: %w", err)
	}

	path := filepath.Join(runDir, metadataFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write run metadata: %w", err)
	}
	return path, nil
}

// ReadMetadata loads metadata.json from a run directory.
func ReadMetadata(runDir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(runDir, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read run metadata: %w", err)
	}
	var metadata Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to decode run metadata: %w", err)
	}
	return &metadata, nil
}

// AppendRunLog appends a timestamped line to run_log.txt.
func AppendRunLog(runDir string, at time.Time, message string) error {
	f, err := os.OpenFile(filepath.Join(runDir, runLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open run log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "[%s] %s\n", at.UTC().Format(time.RFC3339), message); err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}
	return nil
}
