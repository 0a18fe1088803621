package cli_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilialsList(t *testing.T) {
	h := newHarness(t, map[string]response{
		"GET /api/filials": {http.StatusOK, `[{"id": 3, "name": "Chilonzor", "location": "Toshkent"}]`},
	})
	h.login(t, "tok")

	code, out, errOut := h.run("filials", "ls")
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "Chilonzor") || !strings.Contains(out, "Toshkent") {
		t.Errorf("stdout = %q", out)
	}
}

func TestFilialsEditKeepsUnchangedFields(t *testing.T) {
	h := newHarness(t, map[string]response{
		"GET /api/filials":   {http.StatusOK, `{"success": true, "data": [{"id": 3, "name": "Chilonzor", "location": "Toshkent"}]}`},
		"PUT /api/filials/3": {http.StatusOK, `{"success": true, "data": {"id": 3, "name": "Yunusobod", "location": "Toshkent"}}`},
	})
	h.login(t, "tok")

	code, out, errOut := h.run("filials", "edit", "3", "--name", "Yunusobod")
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "Updated filial 3 Yunusobod") {
		t.Errorf("stdout = %q", out)
	}

	put := h.backend.last(t)
	if diff := cmp.Diff(map[string]any{"name": "Yunusobod", "location": "Toshkent"}, decodeBody(t, put.body)); diff != "" {
		t.Errorf("PUT body mismatch (-want +got):\n%s", diff)
	}
}

func TestFilialsEditUnknownID(t *testing.T) {
	h := newHarness(t, map[string]response{
		"GET /api/filials": {http.StatusOK, `{"success": true, "data": []}`},
	})
	h.login(t, "tok")

	code, _, errOut := h.run("filials", "edit", "42", "--name", "X")
	if code != 1 || !strings.Contains(errOut, "filial 42: not found") {
		t.Errorf("exit = %d, stderr = %q", code, errOut)
	}
}

func TestCategoriesBackendMessageIsShown(t *testing.T) {
	h := newHarness(t, map[string]response{
		"POST /api/categories": {http.StatusBadRequest, `{"success": false, "message": "Kategoriya allaqachon mavjud"}`},
	})
	h.login(t, "tok")

	code, _, errOut := h.run("categories", "add", "--name", "Ichimliklar")
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if strings.TrimSpace(errOut) != "error: Kategoriya allaqachon mavjud" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestProductsAdd(t *testing.T) {
	h := newHarness(t, map[string]response{
		"POST /api/products": {http.StatusOK, `{"success": true, "data": {"id": 11, "name": "Lavash"}}`},
	})
	h.login(t, "tok")

	code, out, errOut := h.run("products", "add", "--name", "Lavash", "--category", "2", "--filial", "1,3")
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "Created product 11 Lavash") {
		t.Errorf("stdout = %q", out)
	}

	want := map[string]any{"name": "Lavash", "category_id": float64(2), "filials": []any{float64(1), float64(3)}}
	if diff := cmp.Diff(want, decodeBody(t, h.backend.last(t).body)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestProductsListAll(t *testing.T) {
	h := newHarness(t, map[string]response{
		"GET /api/products/all": {http.StatusOK, `{"success": true, "data": [
			{"id": 11, "name": "Lavash", "category_name": "Fast food", "filial_names": ["Chilonzor", "Yunusobod"]}
		]}`},
	})
	h.login(t, "tok")

	_, out, _ := h.run("products", "ls", "--all")
	if !strings.Contains(out, "Chilonzor, Yunusobod") {
		t.Errorf("stdout = %q", out)
	}
}

func TestUsersAssign(t *testing.T) {
	h := newHarness(t, map[string]response{
		"POST /api/users/5/assign-filial": {http.StatusOK, `{"success": true, "data": {"id": 5, "name": "Sardor"}}`},
	})
	h.login(t, "tok")

	code, out, errOut := h.run("users", "assign", "5", "--filial", "2")
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "Assigned Sardor to filial 2") {
		t.Errorf("stdout = %q", out)
	}
	if diff := cmp.Diff(map[string]any{"filial_id": float64(2)}, decodeBody(t, h.backend.last(t).body)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupUsageErrors(t *testing.T) {
	h := newHarness(t, nil)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown subcommand", []string{"users", "promote", "5"}, "unknown command: adminctl users promote"},
		{"missing id", []string{"filials", "rm"}, "expected exactly one id"},
		{"bad id", []string{"categories", "rm", "abc"}, `invalid id "abc"`},
		{"missing filial", []string{"users", "assign", "5"}, "--filial is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := h.run(tt.args...)
			if code != 2 {
				t.Errorf("exit = %d, want 2", code)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr = %q, want %q", errOut, tt.wantErr)
			}
		})
	}
}

func TestGroupHelp(t *testing.T) {
	h := newHarness(t, nil)

	code, out, _ := h.run("products", "--help")
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	for _, want := range []string{"Usage: adminctl products", "ls [--all]", "rm <id>"} {
		if !strings.Contains(out, want) {
			t.Errorf("help should contain %q:\n%s", want, out)
		}
	}
}
