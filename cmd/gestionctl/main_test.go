package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/diewo77/go-gestion/internal/services"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--env-file", "does-not-exist.env", "hash-password", "s3cret"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
		t.Fatalf("hash %q does not match: %v", hash, err)
	}
}

func TestHashPasswordRequiresArg(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"hash-password"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected an error without password")
	}
}

func TestPrintOverdue(t *testing.T) {
	var c services.ContactView
	c.ID = 7
	c.NomComplet = "Karim"
	c.Type = "Client"
	c.SoldeCumule = decimal.RequireFromString("1500")

	var out bytes.Buffer
	if err := printOverdue(&out, []services.ContactView{c}); err != nil {
		t.Fatalf("print: %v", err)
	}
	got := out.String()
	for _, want := range []string{"SOLDE CUMULE", "Karim", "DH", "-"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
