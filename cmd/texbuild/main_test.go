package main

import (
	"os"
	"testing"
)

func TestParseArgs_Flags(t *testing.T) {
	cases := []struct {
		args []string
		want invocation
	}{
		{nil, invocation{}},
		{[]string{"-c"}, invocation{clean: true}},
		{[]string{"--clean"}, invocation{clean: true}},
		{[]string{"-h"}, invocation{help: true}},
		{[]string{"--help"}, invocation{help: true}},
		{[]string{"-v"}, invocation{verbose: true}},
		{[]string{"--verbose"}, invocation{verbose: true}},
		{[]string{"-s"}, invocation{serve: true}},
		{[]string{"--serve"}, invocation{serve: true}},
		{[]string{"-c", "-v"}, invocation{clean: true, verbose: true}},
		{[]string{"thesis"}, invocation{root: "thesis"}},
		{[]string{"-c", "thesis"}, invocation{clean: true, root: "thesis"}},
	}

	for _, c := range cases {
		got, err := parseArgs(c.args)
		if err != nil {
			t.Errorf("parseArgs(%v): unexpected error: %v", c.args, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseArgs(%v): expected %+v, got %+v", c.args, c.want, got)
		}
	}
}

func TestParseArgs_UnrecognizedFlag(t *testing.T) {
	for _, args := range [][]string{
		{"--delete-everything"},
		{"-x"},
		{"-c", "--nope"},
	} {
		if _, err := parseArgs(args); err == nil {
			t.Errorf("parseArgs(%v): expected error", args)
		}
	}
}

func TestParseArgs_TooManyArguments(t *testing.T) {
	if _, err := parseArgs([]string{"a", "b"}); err == nil {
		t.Error("expected error for multiple roots")
	}
}

func TestRun_HelpExitsZero(t *testing.T) {
	if code := run([]string{"--help"}); code != exitOK {
		t.Errorf("expected exit %d, got %d", exitOK, code)
	}
}

func TestRun_UnrecognizedFlagExitsFailure(t *testing.T) {
	if code := run([]string{"--bogus"}); code != exitFailure {
		t.Errorf("expected exit %d, got %d", exitFailure, code)
	}
}

func TestRun_NoDocumentsExitsFailure(t *testing.T) {
	if code := run([]string{t.TempDir()}); code != exitFailure {
		t.Errorf("expected exit %d, got %d", exitFailure, code)
	}
}

func TestRun_CleanOnlyExitsZero(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir+"/doc.tex")
	writeFile(t, dir+"/doc.aux")

	if code := run([]string{"--clean", dir}); code != exitOK {
		t.Errorf("expected exit %d, got %d", exitOK, code)
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
