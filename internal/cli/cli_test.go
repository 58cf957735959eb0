package cli

import (
	"testing"

	"api-batch-runner/internal/spec"
)

func TestParseValues(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "simple pairs",
			pairs: []string{"id=7", "name=Ann"},
			want:  map[string]string{"id": "7", "name": "Ann"},
		},
		{
			name:  "value containing equals",
			pairs: []string{"query=a=b"},
			want:  map[string]string{"query": "a=b"},
		},
		{
			name:    "missing separator",
			pairs:   []string{"justakey"},
			wantErr: true,
		},
		{
			name:    "empty name",
			pairs:   []string{"=value"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValues(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseValues() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseValues()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestFindEndpoint(t *testing.T) {
	endpoints := []spec.Endpoint{
		{ID: "GET /pets"},
		{ID: "POST /pets"},
	}

	if _, err := findEndpoint(endpoints, "get /pets"); err != nil {
		t.Errorf("findEndpoint() should tolerate a lowercase method, got %v", err)
	}
	if _, err := findEndpoint(endpoints, "DELETE /pets"); err == nil {
		t.Error("findEndpoint() expected an error for an unknown endpoint")
	}
}
