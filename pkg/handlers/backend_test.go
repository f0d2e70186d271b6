package handlers

import (
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
	"github.com/goliatone/go-uciform/pkg/uci"
)

// fakeClient records every backend call and serves a canned snapshot.
type fakeClient struct {
	tree *uci.Tree

	applied        []*uci.Patch
	passwords      map[string]string
	updatesChecked int
	timeSet        []string

	backupIP  string
	backupErr error
}

func (f *fakeClient) GetConfig(_ context.Context, _ backend.Filter) (*uci.Tree, error) {
	return f.tree, nil
}

func (f *fakeClient) Apply(_ context.Context, patch *uci.Patch) error {
	f.applied = append(f.applied, patch)
	return nil
}

func (f *fakeClient) SetPassword(_ context.Context, user, plaintext string) error {
	if f.passwords == nil {
		f.passwords = make(map[string]string)
	}
	f.passwords[user] = plaintext
	return nil
}

func (f *fakeClient) CheckUpdates(_ context.Context) error {
	f.updatesChecked++
	return nil
}

func (f *fakeClient) LoadConfigBackup(_ context.Context, backup io.Reader) (string, error) {
	if f.backupErr != nil {
		return "", f.backupErr
	}
	if backup != nil {
		_, _ = io.Copy(io.Discard, backup)
	}
	return f.backupIP, nil
}

func (f *fakeClient) SetTime(_ context.Context, value string) error {
	f.timeSet = append(f.timeSet, value)
	return nil
}

// submit builds the handler's form for the given input, validates it, and
// runs the save callbacks.
func submit(t *testing.T, h Handler, values map[string][]string) (form.Result, *form.Form) {
	t.Helper()
	frm, err := h.Form(context.Background(), form.FromValues(values))
	if err != nil {
		t.Fatalf("Form() error = %v", err)
	}
	if !frm.Validate() {
		t.Fatalf("Validate() failed: %v", frm.Errors())
	}
	result, err := frm.Save(context.Background())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return result, frm
}

// section digs one section's ops out of a patch, failing the test when the
// patch does not carry it.
func section(t *testing.T, patch *uci.Patch, config, name string) *uci.SectionPatch {
	t.Helper()
	if patch == nil {
		t.Fatal("patch is nil")
	}
	for _, c := range patch.Configs {
		if c.Name != config {
			continue
		}
		for _, s := range c.Sections {
			if s.Name == name {
				return s
			}
		}
	}
	t.Fatalf("patch has no section %s.%s", config, name)
	return nil
}

// opValue returns the value of the first set op for the named option, and
// whether the section carries one.
func opValue(s *uci.SectionPatch, name string) (string, bool) {
	for _, op := range s.Ops {
		if op.Kind == uci.OpSet && op.Name == name {
			return op.Value, true
		}
	}
	return "", false
}

func hasOp(s *uci.SectionPatch, kind uci.OpKind, name string) bool {
	for _, op := range s.Ops {
		if op.Kind == kind && op.Name == name {
			return true
		}
	}
	return false
}

func listValues(t *testing.T, s *uci.SectionPatch, name string) []string {
	t.Helper()
	for _, op := range s.Ops {
		if op.Kind == uci.OpReplaceList && op.Name == name {
			return op.Values
		}
	}
	t.Fatalf("section %s has no replace_list op for %s", s.Name, name)
	return nil
}
