package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_RefusedRebuildFails(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EXCLUSION_DATA_DIR", dir)
	oig := filepath.Join(dir, "leie.csv")
	sam := filepath.Join(dir, "sam.csv")
	require.NoError(t, os.WriteFile(oig, []byte("LASTNAME,FIRSTNAME,MIDNAME,BUSNAME,DOB,EXCLDATE\nJONES,ROBERT,,,01/01/1980,20200115\n"), 0o644))
	require.NoError(t, os.WriteFile(sam, []byte("Name,First,Last,City,State,Zip,Exclusion Date\n,JANE,DOE,,IL,62701,03/04/2021\n"), 0o644))
	args := []string{"-month", "2024-05", "-oig", oig, "-sam", sam, "-cache-dir", filepath.Join(dir, "cache")}

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), args, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "Month: 2024-05")

	stdout.Reset()
	stderr.Reset()
	assert.Equal(t, 1, run(context.Background(), args, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "already exists")

	stderr.Reset()
	assert.Equal(t, 0, run(context.Background(), append(args, "-force"), &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "Replaced: true")
}

func TestRun_MissingFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"-month", "2024-05"}, &stdout, &stderr))
}
