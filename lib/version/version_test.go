// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestInfoMarksDirtyBuilds(t *testing.T) {
	savedCommit, savedDirty := GitCommit, GitDirty
	t.Cleanup(func() { GitCommit, GitDirty = savedCommit, savedDirty })

	GitCommit, GitDirty = "abc1234", "false"
	if got := Info(); !strings.Contains(got, "(abc1234,") {
		t.Fatalf("Info() = %q, want clean commit", got)
	}
	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "(abc1234-dirty,") {
		t.Fatalf("Info() = %q, want dirty commit", got)
	}
}

func TestFprint(t *testing.T) {
	var buffer bytes.Buffer
	Fprint(&buffer, "uiframe-demo")
	output := buffer.String()
	if !strings.HasPrefix(output, "uiframe-demo "+Version) {
		t.Fatalf("output = %q", output)
	}
	if !strings.Contains(output, "Go: ") || !strings.HasSuffix(output, "\n") {
		t.Fatalf("output lacks Go version line: %q", output)
	}
}
